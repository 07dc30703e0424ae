package operator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterConfigBuilder_Build(t *testing.T) {
	t.Parallel()

	b := &ClusterConfigBuilder{
		NumMasters:        1,
		NumWorkers:        2,
		MasterMachineType: "n1-standard-4",
		WorkerMachineType: "n1-standard-2",
		MasterDiskType:    "pd-ssd",
		MasterDiskSizeGB:  100,
		WorkerDiskType:    "pd-standard",
		WorkerDiskSizeGB:  50,
		ImageVersion:      "2.1-debian11",
		ZoneURI:           "us-central1-a",
		StorageBucket:     "storage_bucket",
		Properties:        map[string]string{"spark:spark.executor.memory": "4g"},
	}

	cfg, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "storage_bucket", cfg.GetConfigBucket())
	assert.Equal(t, "us-central1-a", cfg.GetGceClusterConfig().GetZoneUri())
	assert.Equal(t, int32(1), cfg.GetMasterConfig().GetNumInstances())
	assert.Equal(t, "n1-standard-4", cfg.GetMasterConfig().GetMachineTypeUri())
	assert.Equal(t, "pd-ssd", cfg.GetMasterConfig().GetDiskConfig().GetBootDiskType())
	assert.Equal(t, int32(100), cfg.GetMasterConfig().GetDiskConfig().GetBootDiskSizeGb())
	assert.Equal(t, int32(2), cfg.GetWorkerConfig().GetNumInstances())
	assert.Equal(t, "2.1-debian11", cfg.GetSoftwareConfig().GetImageVersion())
	assert.Equal(t, "4g", cfg.GetSoftwareConfig().GetProperties()["spark:spark.executor.memory"])
	assert.Nil(t, cfg.GetSecondaryWorkerConfig())
	assert.NotContains(t, cfg.GetSoftwareConfig().GetProperties(), allowZeroWorkersProperty)
}

func TestClusterConfigBuilder_ZeroWorkersAllowsSingleNode(t *testing.T) {
	t.Parallel()

	b := &ClusterConfigBuilder{NumMasters: 1}
	cfg, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "true", cfg.GetSoftwareConfig().GetProperties()[allowZeroWorkersProperty])
}

func TestClusterConfigBuilder_SecondaryWorkers(t *testing.T) {
	t.Parallel()

	b := &ClusterConfigBuilder{
		NumWorkers:          2,
		NumSecondaryWorkers: 4,
		WorkerMachineType:   "n1-standard-2",
	}
	cfg, err := b.Build()
	require.NoError(t, err)

	secondary := cfg.GetSecondaryWorkerConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, int32(4), secondary.GetNumInstances())
	assert.True(t, secondary.GetIsPreemptible())
	assert.Equal(t, "n1-standard-2", secondary.GetMachineTypeUri())
}

func TestClusterConfigBuilder_CustomImage(t *testing.T) {
	t.Parallel()

	b := &ClusterConfigBuilder{
		NumWorkers:         2,
		CustomImage:        "custom-image",
		CustomImageProject: "image-project",
	}
	cfg, err := b.Build()
	require.NoError(t, err)

	want := "https://www.googleapis.com/compute/beta/projects/image-project/global/images/custom-image"
	assert.Equal(t, want, cfg.GetMasterConfig().GetImageUri())
	assert.Equal(t, want, cfg.GetWorkerConfig().GetImageUri())
}

func TestClusterConfigBuilder_CustomImageFamily(t *testing.T) {
	t.Parallel()

	b := &ClusterConfigBuilder{
		NumWorkers:         2,
		CustomImageFamily:  "custom-family",
		CustomImageProject: "image-project",
	}
	cfg, err := b.Build()
	require.NoError(t, err)

	want := "https://www.googleapis.com/compute/beta/projects/image-project/global/images/family/custom-family"
	assert.Equal(t, want, cfg.GetWorkerConfig().GetImageUri())
}

func TestClusterConfigBuilder_ImageValidation(t *testing.T) {
	t.Parallel()

	_, err := (&ClusterConfigBuilder{ImageVersion: "2.1", CustomImage: "img"}).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = (&ClusterConfigBuilder{ImageVersion: "2.1", CustomImageFamily: "fam"}).Build()
	require.Error(t, err)

	_, err = (&ClusterConfigBuilder{CustomImage: "img", CustomImageFamily: "fam"}).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom image and custom image family")
}

func TestClusterConfigBuilder_NetworkAndLifecycle(t *testing.T) {
	t.Parallel()

	b := &ClusterConfigBuilder{
		NumWorkers:        2,
		SubnetworkURI:     "projects/p/regions/r/subnetworks/s",
		InternalIPOnly:    true,
		Tags:              []string{"dataproc"},
		AutoscalingPolicy: "projects/p/regions/r/autoscalingPolicies/ap",
		IdleDeleteTTL:     4 * time.Hour,
		InitActions:       []string{"gs://bucket/init.sh"},
		InitActionTimeout: 10 * time.Minute,
	}
	cfg, err := b.Build()
	require.NoError(t, err)

	gce := cfg.GetGceClusterConfig()
	assert.Equal(t, "projects/p/regions/r/subnetworks/s", gce.GetSubnetworkUri())
	assert.True(t, gce.GetInternalIpOnly())
	assert.Equal(t, []string{"dataproc"}, gce.GetTags())
	assert.Equal(t, "projects/p/regions/r/autoscalingPolicies/ap", cfg.GetAutoscalingConfig().GetPolicyUri())
	assert.Equal(t, 4*time.Hour, cfg.GetLifecycleConfig().GetIdleDeleteTtl().AsDuration())
	require.Len(t, cfg.GetInitializationActions(), 1)
	assert.Equal(t, "gs://bucket/init.sh", cfg.GetInitializationActions()[0].GetExecutableFile())
	assert.Equal(t, 10*time.Minute, cfg.GetInitializationActions()[0].GetExecutionTimeout().AsDuration())
}

func TestClusterConfigBuilder_ComponentGateway(t *testing.T) {
	t.Parallel()

	cfg, err := (&ClusterConfigBuilder{NumWorkers: 2, EnableComponentGateway: true}).Build()
	require.NoError(t, err)
	assert.True(t, cfg.GetEndpointConfig().GetEnableHttpPortAccess())

	cfg, err = (&ClusterConfigBuilder{NumWorkers: 2}).Build()
	require.NoError(t, err)
	assert.Nil(t, cfg.GetEndpointConfig())
}
