package handlers

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/operator"
)

// cancelTimeout bounds the best-effort job cancellation after an interrupt.
const cancelTimeout = 30 * time.Second

// JobSubmitOptions parameterizes the job submit command.
type JobSubmitOptions struct {
	Common

	ClusterName string
	TaskName    string

	// SpecFile is a protojson Job document. When set, the engine flags
	// below are ignored.
	SpecFile string

	// Engine selects the payload type: hadoop, spark, pyspark, hive,
	// pig, or spark-sql.
	Engine string

	// Query engine parameters.
	Queries      []string
	QueryFileURI string
	ScriptVars   map[string]string

	// Driver engine parameters.
	MainJarFileURI    string
	MainClass         string
	MainPythonFileURI string
	Args              []string

	Jars       []string
	Files      []string
	Archives   []string
	PyFiles    []string
	Properties map[string]string
	Labels     map[string]string

	Wait bool
}

// JobSubmit handles the job submit command.
func JobSubmit(ctx context.Context, opts JobSubmitOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	var job *dataprocpb.Job
	if opts.SpecFile != "" {
		job = &dataprocpb.Job{}
		if err := readSpec(opts.SpecFile, job); err != nil {
			return err
		}
	} else {
		job, err = opts.buildJob(cfg.ProjectID, cfg.Labels)
		if err != nil {
			return err
		}
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.SubmitJob{
		Jobs:      client.Jobs(),
		Project:   cfg.ProjectID,
		Region:    cfg.Region,
		Job:       job,
		RequestID: uuid.NewString(),
		Wait:      opts.Wait,
		Log:       log,
		Links:     printLink,
	}
	final, err := op.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted while waiting: the job keeps running server-side
			// unless we cancel it. The command context is already dead, so
			// the cancel gets its own short-lived one.
			cancelCtx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
			defer cancel()
			if cancelErr := op.Cancel(cancelCtx); cancelErr != nil {
				log.Error(cancelErr, "Failed to cancel job after interrupt")
			}
		}
		return fmt.Errorf("job submit failed: %w", err)
	}

	fmt.Printf("Job %s is %s\n", final.GetReference().GetJobId(), final.GetStatus().GetState())
	return nil
}

// buildJob assembles the job payload from the engine flags.
func (o JobSubmitOptions) buildJob(project string, profileLabels map[string]string) (*dataprocpb.Job, error) {
	query := operator.QueryJob{
		Queries:         o.Queries,
		QueryFileURI:    o.QueryFileURI,
		ScriptVariables: o.ScriptVars,
		Properties:      o.Properties,
		JarFileURIs:     o.Jars,
	}
	binary := operator.BinaryJob{
		MainJarFileURI:    o.MainJarFileURI,
		MainClass:         o.MainClass,
		MainPythonFileURI: o.MainPythonFileURI,
		Args:              o.Args,
		JarFileURIs:       o.Jars,
		FileURIs:          o.Files,
		ArchiveURIs:       o.Archives,
		PythonFileURIs:    o.PyFiles,
		Properties:        o.Properties,
	}

	builder := operator.NewJobBuilder(project, o.ClusterName, o.TaskName, mergeLabels(profileLabels, o.Labels))

	switch o.Engine {
	case "hadoop":
		j, err := binary.Hadoop()
		if err != nil {
			return nil, err
		}
		builder.Hadoop(j)
	case "spark":
		j, err := binary.Spark()
		if err != nil {
			return nil, err
		}
		builder.Spark(j)
	case "pyspark":
		j, err := binary.PySpark()
		if err != nil {
			return nil, err
		}
		builder.PySpark(j)
	case "hive":
		j, err := query.Hive()
		if err != nil {
			return nil, err
		}
		builder.Hive(j)
	case "pig":
		j, err := query.Pig()
		if err != nil {
			return nil, err
		}
		builder.Pig(j)
	case "spark-sql":
		j, err := query.SparkSQL()
		if err != nil {
			return nil, err
		}
		builder.SparkSQL(j)
	default:
		return nil, fmt.Errorf("unknown engine %q", o.Engine)
	}

	return builder.Build()
}
