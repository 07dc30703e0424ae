// Package links renders console URLs for Dataproc resources.
//
// Operators republish these links after a successful call so downstream
// tooling can point a human at the resource that was touched.
package links

import "fmt"

const consoleBase = "https://console.cloud.google.com/dataproc"

// Cluster returns the console monitoring URL for a cluster.
func Cluster(project, region, name string) string {
	return fmt.Sprintf("%s/clusters/%s/monitoring?region=%s&project=%s", consoleBase, name, region, project)
}

// Job returns the console URL for a job.
func Job(project, region, jobID string) string {
	return fmt.Sprintf("%s/jobs/%s?region=%s&project=%s", consoleBase, jobID, region, project)
}

// Workflow returns the console URL for a workflow instance.
func Workflow(project, region, workflowID string) string {
	return fmt.Sprintf("%s/workflows/instances/%s/%s?project=%s", consoleBase, region, workflowID, project)
}

// Batch returns the console monitoring URL for a batch workload.
func Batch(project, region, batchID string) string {
	return fmt.Sprintf("%s/batches/%s/%s/monitoring?project=%s", consoleBase, region, batchID, project)
}
