package operator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/dataproc"
	"github.com/procflow-io/procflow/internal/links"
	"github.com/procflow-io/procflow/internal/metrics"
)

const defaultJobPollInterval = 10 * time.Second

// SubmitJob submits a job to a cluster and optionally waits for a terminal
// state.
type SubmitJob struct {
	Jobs dataproc.JobService

	Project string
	Region  string

	Job       *dataprocpb.Job
	RequestID string

	// Wait blocks until the job reaches a terminal state. With Wait false
	// the submitted record is returned immediately.
	Wait         bool
	PollInterval time.Duration

	Log   logr.Logger
	Links LinkRecorder

	jobID string
}

// Execute submits the job. With Wait set, a job finishing in ERROR or
// CANCELLED state is an error.
func (o *SubmitJob) Execute(ctx context.Context) (job *dataprocpb.Job, err error) {
	defer func() { metrics.CountOperatorCall("submit_job", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return nil, err
	}
	if o.Job == nil {
		return nil, fmt.Errorf("job is required")
	}

	submitted, err := o.Jobs.SubmitJob(ctx, o.Project, o.Region, o.Job, o.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit job: %w", err)
	}

	o.jobID = submitted.GetReference().GetJobId()
	o.Log.Info("Job submitted", "jobID", o.jobID)
	record(o.Links, o.jobID, links.Job(o.Project, o.Region, o.jobID))

	if !o.Wait {
		return submitted, nil
	}

	interval := o.PollInterval
	if interval <= 0 {
		interval = defaultJobPollInterval
	}
	final, err := o.Jobs.WaitJob(ctx, o.Project, o.Region, o.jobID, interval)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for job %s: %w", o.jobID, err)
	}

	switch state := final.GetStatus().GetState(); state {
	case dataprocpb.JobStatus_DONE:
		o.Log.Info("Job finished", "jobID", o.jobID)
		return final, nil
	case dataprocpb.JobStatus_CANCELLED:
		return nil, fmt.Errorf("job %s was cancelled", o.jobID)
	case dataprocpb.JobStatus_ERROR:
		return nil, fmt.Errorf("job %s failed: %s", o.jobID, final.GetStatus().GetDetails())
	default:
		return nil, fmt.Errorf("job %s ended in unexpected state %s", o.jobID, state)
	}
}

// Cancel requests cancellation of the submitted job. It is the hook for the
// task runtime's kill path and is a no-op before submission.
func (o *SubmitJob) Cancel(ctx context.Context) error {
	if o.jobID == "" {
		return nil
	}
	o.Log.Info("Cancelling job", "jobID", o.jobID)
	_, err := o.Jobs.CancelJob(ctx, o.Project, o.Region, o.jobID)
	return err
}

// JobBuilder assembles a Job proto around a typed engine payload.
type JobBuilder struct {
	job *dataprocpb.Job
}

// NewJobBuilder starts a job named after taskName with a short unique
// suffix, placed on the given cluster.
func NewJobBuilder(project, cluster, taskName string, labels map[string]string) *JobBuilder {
	jobID := fmt.Sprintf("%s_%s", sanitizeJobID(taskName), uuid.NewString()[:8])
	return &JobBuilder{
		job: &dataprocpb.Job{
			Reference: &dataprocpb.JobReference{
				ProjectId: project,
				JobId:     jobID,
			},
			Placement: &dataprocpb.JobPlacement{
				ClusterName: cluster,
			},
			Labels: labels,
		},
	}
}

// sanitizeJobID rewrites characters the service rejects in job IDs.
func sanitizeJobID(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

// JobID returns the generated job ID.
func (b *JobBuilder) JobID() string {
	return b.job.GetReference().GetJobId()
}

// Hadoop sets the engine payload to a Hadoop job.
func (b *JobBuilder) Hadoop(j *dataprocpb.HadoopJob) *JobBuilder {
	b.job.TypeJob = &dataprocpb.Job_HadoopJob{HadoopJob: j}
	return b
}

// Spark sets the engine payload to a Spark job.
func (b *JobBuilder) Spark(j *dataprocpb.SparkJob) *JobBuilder {
	b.job.TypeJob = &dataprocpb.Job_SparkJob{SparkJob: j}
	return b
}

// PySpark sets the engine payload to a PySpark job.
func (b *JobBuilder) PySpark(j *dataprocpb.PySparkJob) *JobBuilder {
	b.job.TypeJob = &dataprocpb.Job_PysparkJob{PysparkJob: j}
	return b
}

// Hive sets the engine payload to a Hive job.
func (b *JobBuilder) Hive(j *dataprocpb.HiveJob) *JobBuilder {
	b.job.TypeJob = &dataprocpb.Job_HiveJob{HiveJob: j}
	return b
}

// Pig sets the engine payload to a Pig job.
func (b *JobBuilder) Pig(j *dataprocpb.PigJob) *JobBuilder {
	b.job.TypeJob = &dataprocpb.Job_PigJob{PigJob: j}
	return b
}

// SparkSQL sets the engine payload to a Spark SQL job.
func (b *JobBuilder) SparkSQL(j *dataprocpb.SparkSqlJob) *JobBuilder {
	b.job.TypeJob = &dataprocpb.Job_SparkSqlJob{SparkSqlJob: j}
	return b
}

// Build returns the assembled job.
func (b *JobBuilder) Build() (*dataprocpb.Job, error) {
	if b.job.TypeJob == nil {
		return nil, fmt.Errorf("no engine payload set")
	}
	return b.job, nil
}

// QueryJob holds the shared parameters of query-driven engines.
// Exactly one of Queries and QueryFileURI may be set.
type QueryJob struct {
	Queries           []string
	QueryFileURI      string
	ScriptVariables   map[string]string
	Properties        map[string]string
	JarFileURIs       []string
	ContinueOnFailure bool
}

func (q QueryJob) validate() error {
	if len(q.Queries) > 0 && q.QueryFileURI != "" {
		return fmt.Errorf("queries and query file URI are mutually exclusive")
	}
	if len(q.Queries) == 0 && q.QueryFileURI == "" {
		return fmt.Errorf("either queries or a query file URI is required")
	}
	return nil
}

// Hive renders the parameters as a Hive job payload.
func (q QueryJob) Hive() (*dataprocpb.HiveJob, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	j := &dataprocpb.HiveJob{
		ScriptVariables:   q.ScriptVariables,
		Properties:        q.Properties,
		JarFileUris:       q.JarFileURIs,
		ContinueOnFailure: q.ContinueOnFailure,
	}
	if q.QueryFileURI != "" {
		j.Queries = &dataprocpb.HiveJob_QueryFileUri{QueryFileUri: q.QueryFileURI}
	} else {
		j.Queries = &dataprocpb.HiveJob_QueryList{QueryList: &dataprocpb.QueryList{Queries: q.Queries}}
	}
	return j, nil
}

// Pig renders the parameters as a Pig job payload.
func (q QueryJob) Pig() (*dataprocpb.PigJob, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	j := &dataprocpb.PigJob{
		ScriptVariables:   q.ScriptVariables,
		Properties:        q.Properties,
		JarFileUris:       q.JarFileURIs,
		ContinueOnFailure: q.ContinueOnFailure,
	}
	if q.QueryFileURI != "" {
		j.Queries = &dataprocpb.PigJob_QueryFileUri{QueryFileUri: q.QueryFileURI}
	} else {
		j.Queries = &dataprocpb.PigJob_QueryList{QueryList: &dataprocpb.QueryList{Queries: q.Queries}}
	}
	return j, nil
}

// SparkSQL renders the parameters as a Spark SQL job payload.
func (q QueryJob) SparkSQL() (*dataprocpb.SparkSqlJob, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	j := &dataprocpb.SparkSqlJob{
		ScriptVariables: q.ScriptVariables,
		Properties:      q.Properties,
		JarFileUris:     q.JarFileURIs,
	}
	if q.QueryFileURI != "" {
		j.Queries = &dataprocpb.SparkSqlJob_QueryFileUri{QueryFileUri: q.QueryFileURI}
	} else {
		j.Queries = &dataprocpb.SparkSqlJob_QueryList{QueryList: &dataprocpb.QueryList{Queries: q.Queries}}
	}
	return j, nil
}

// BinaryJob holds the shared parameters of driver-based engines.
type BinaryJob struct {
	// MainJarFileURI and MainClass are mutually exclusive for Hadoop and
	// Spark jobs.
	MainJarFileURI    string
	MainClass         string
	MainPythonFileURI string

	Args           []string
	JarFileURIs    []string
	FileURIs       []string
	ArchiveURIs    []string
	PythonFileURIs []string
	Properties     map[string]string
}

func (b BinaryJob) validateDriver() error {
	if b.MainJarFileURI != "" && b.MainClass != "" {
		return fmt.Errorf("main jar URI and main class are mutually exclusive")
	}
	if b.MainJarFileURI == "" && b.MainClass == "" {
		return fmt.Errorf("either a main jar URI or a main class is required")
	}
	return nil
}

// Hadoop renders the parameters as a Hadoop job payload.
func (b BinaryJob) Hadoop() (*dataprocpb.HadoopJob, error) {
	if err := b.validateDriver(); err != nil {
		return nil, err
	}
	j := &dataprocpb.HadoopJob{
		Args:        b.Args,
		JarFileUris: b.JarFileURIs,
		FileUris:    b.FileURIs,
		ArchiveUris: b.ArchiveURIs,
		Properties:  b.Properties,
	}
	if b.MainJarFileURI != "" {
		j.Driver = &dataprocpb.HadoopJob_MainJarFileUri{MainJarFileUri: b.MainJarFileURI}
	} else {
		j.Driver = &dataprocpb.HadoopJob_MainClass{MainClass: b.MainClass}
	}
	return j, nil
}

// Spark renders the parameters as a Spark job payload.
func (b BinaryJob) Spark() (*dataprocpb.SparkJob, error) {
	if err := b.validateDriver(); err != nil {
		return nil, err
	}
	j := &dataprocpb.SparkJob{
		Args:        b.Args,
		JarFileUris: b.JarFileURIs,
		FileUris:    b.FileURIs,
		ArchiveUris: b.ArchiveURIs,
		Properties:  b.Properties,
	}
	if b.MainJarFileURI != "" {
		j.Driver = &dataprocpb.SparkJob_MainJarFileUri{MainJarFileUri: b.MainJarFileURI}
	} else {
		j.Driver = &dataprocpb.SparkJob_MainClass{MainClass: b.MainClass}
	}
	return j, nil
}

// PySpark renders the parameters as a PySpark job payload.
func (b BinaryJob) PySpark() (*dataprocpb.PySparkJob, error) {
	if b.MainPythonFileURI == "" {
		return nil, fmt.Errorf("a main python file URI is required")
	}
	return &dataprocpb.PySparkJob{
		MainPythonFileUri: b.MainPythonFileURI,
		Args:              b.Args,
		JarFileUris:       b.JarFileURIs,
		FileUris:          b.FileURIs,
		ArchiveUris:       b.ArchiveURIs,
		PythonFileUris:    b.PythonFileURIs,
		Properties:        b.Properties,
	}, nil
}
