package commands

import (
	"github.com/spf13/cobra"

	"github.com/procflow-io/procflow/cmd/procflow/handlers"
)

// Job returns the job command group.
func Job(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Submit jobs to a cluster",
	}

	cmd.AddCommand(jobSubmit(common))

	return cmd
}

// jobSubmit returns the job submit command.
func jobSubmit(common *handlers.Common) *cobra.Command {
	opts := handlers.JobSubmitOptions{}

	cmd := &cobra.Command{
		Use:   "submit TASK_NAME",
		Short: "Submit a job and optionally wait for it to finish",
		Long: `Submit a job to a cluster. The job ID is derived from the task name
with a unique suffix so resubmissions never collide.

The payload comes either from a protojson Job spec file or from the
engine flags. Query engines (hive, pig, spark-sql) take --query or
--query-file; driver engines (hadoop, spark) take --jar or --class;
pyspark takes --py-main.

Examples:
  procflow -c profile.yaml job submit count --engine hive \
    --cluster analytics --query "SELECT count(*) FROM logs"
  procflow -c profile.yaml job submit pi --engine spark \
    --cluster analytics --class org.apache.spark.examples.SparkPi --wait`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Common = *common
			opts.TaskName = args[0]
			return handlers.JobSubmit(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ClusterName, "cluster", "", "Target cluster name")
	cmd.Flags().StringVar(&opts.SpecFile, "spec", "", "Path to a protojson Job document")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "Engine: hadoop, spark, pyspark, hive, pig, or spark-sql")
	cmd.Flags().StringArrayVar(&opts.Queries, "query", nil, "Query to run (repeatable)")
	cmd.Flags().StringVar(&opts.QueryFileURI, "query-file", "", "GCS URI of a query file")
	cmd.Flags().StringToStringVar(&opts.ScriptVars, "script-var", nil, "Script variable (name=value)")
	cmd.Flags().StringVar(&opts.MainJarFileURI, "jar", "", "GCS URI of the driver jar")
	cmd.Flags().StringVar(&opts.MainClass, "class", "", "Fully qualified driver class")
	cmd.Flags().StringVar(&opts.MainPythonFileURI, "py-main", "", "GCS URI of the main python file")
	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "Driver argument (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Jars, "jars", nil, "Extra jar URI (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Files, "file", nil, "Extra file URI (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Archives, "archive", nil, "Archive URI (repeatable)")
	cmd.Flags().StringArrayVar(&opts.PyFiles, "py-file", nil, "Extra python file URI (repeatable)")
	cmd.Flags().StringToStringVar(&opts.Properties, "property", nil, "Engine property (key=value)")
	cmd.Flags().StringToStringVar(&opts.Labels, "label", nil, "Labels to apply (key=value)")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "Wait for the job to reach a terminal state")

	return cmd
}
