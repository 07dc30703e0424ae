// Package operator implements the task-facing operations.
//
// Each operator is a small struct that builds a request payload from
// declarative parameters, delegates to the service layer, optionally waits
// for completion, and republishes the console link of the resource it
// touched. No operator caches service state; the external system owns every
// record.
package operator

import "fmt"

// LinkRecorder receives the console URL of a resource an operator touched.
// Operators call it at most once per execution, after the identifying
// information is known.
type LinkRecorder func(resource, url string)

// record invokes the recorder if one is configured.
func record(links LinkRecorder, resource, url string) {
	if links != nil {
		links(resource, url)
	}
}

// callResult maps an error to the metric label for operator call counters.
func callResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// requireLocation validates the project/region pair every operator needs.
func requireLocation(project, region string) error {
	if project == "" {
		return fmt.Errorf("project is required")
	}
	if region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}
