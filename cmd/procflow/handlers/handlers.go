// Package handlers implements command execution for the procflow CLI.
//
// Commands in the commands package parse flags into option structs and
// delegate here. Each handler resolves the profile, builds a service
// client, runs the operator, and prints the console link of the resource
// it touched.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/procflow-io/procflow/internal/auth"
	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/internal/dataproc"
)

// Common holds the flags shared by every command.
type Common struct {
	ConfigPath string
	Project    string
	Region     string
	Verbose    bool
}

// resolve produces a validated profile from the config file and flag
// overrides. Flags win over the file; with no file, flags alone must
// supply the project and region.
func (c Common) resolve() (*config.Config, error) {
	cfg := &config.Config{ProjectID: c.Project, Region: c.Region}
	if c.ConfigPath != "" {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if c.Project != "" {
			cfg.ProjectID = c.Project
		}
		if c.Region != "" {
			cfg.Region = c.Region
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the structured logger for a command run.
func (c Common) logger() (logr.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Verbose {
		zc = zap.NewDevelopmentConfig()
	}
	z, err := zc.Build()
	if err != nil {
		return logr.Logger{}, fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(z), nil
}

// newClient builds the service client for a profile. Replaced in tests.
var newClient = func(ctx context.Context, cfg *config.Config) (dataproc.Client, func() error, error) {
	apiOpts, err := auth.Options(cfg.Credentials)
	if err != nil {
		return nil, nil, err
	}
	rc, err := dataproc.NewRealClient(ctx, cfg.Region, apiOpts,
		dataproc.WithTimeouts(config.LoadTimeouts()))
	if err != nil {
		return nil, nil, err
	}
	return rc, rc.Close, nil
}

// printLink publishes a resource's console URL on stdout.
func printLink(resource, url string) {
	fmt.Printf("%s: %s\n", resource, url)
}

// readSpec reads a protojson document from path into m.
func readSpec(path string, m proto.Message) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read spec %s: %w", path, err)
	}
	if err := protojson.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to parse spec %s: %w", path, err)
	}
	return nil
}

// printSpec renders a proto message as indented JSON on stdout.
func printSpec(m proto.Message) {
	out := protojson.MarshalOptions{Multiline: true, Indent: "  "}
	fmt.Println(out.Format(m))
}

// mergeLabels overlays per-command labels on the profile defaults.
func mergeLabels(base, extra map[string]string) map[string]string {
	if len(base) == 0 {
		return extra
	}
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
