package operator

import (
	"fmt"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
)

// allowZeroWorkersProperty enables single-node clusters.
const allowZeroWorkersProperty = "dataproc:dataproc.allow.zero.workers"

// ClusterConfigBuilder assembles a ClusterConfig from flat declarative
// parameters. Zero values fall back to service-side defaults.
type ClusterConfigBuilder struct {
	NumMasters          int32
	NumWorkers          int32
	NumSecondaryWorkers int32

	MasterMachineType string
	WorkerMachineType string
	MasterDiskType    string
	MasterDiskSizeGB  int32
	WorkerDiskType    string
	WorkerDiskSizeGB  int32

	// ImageVersion selects a stock image. Mutually exclusive with
	// CustomImage and CustomImageFamily.
	ImageVersion string

	// CustomImage names an image in CustomImageProject. Mutually exclusive
	// with CustomImageFamily.
	CustomImage        string
	CustomImageFamily  string
	CustomImageProject string

	ZoneURI              string
	NetworkURI           string
	SubnetworkURI        string
	InternalIPOnly       bool
	Tags                 []string
	Metadata             map[string]string
	ServiceAccount       string
	ServiceAccountScopes []string

	StorageBucket     string
	AutoscalingPolicy string
	IdleDeleteTTL     time.Duration

	InitActions       []string
	InitActionTimeout time.Duration

	Properties             map[string]string
	EnableComponentGateway bool
}

// Build validates the parameters and produces the cluster config.
func (b *ClusterConfigBuilder) Build() (*dataprocpb.ClusterConfig, error) {
	if b.ImageVersion != "" && (b.CustomImage != "" || b.CustomImageFamily != "") {
		return nil, fmt.Errorf("image version and custom image are mutually exclusive")
	}
	if b.CustomImage != "" && b.CustomImageFamily != "" {
		return nil, fmt.Errorf("custom image and custom image family are mutually exclusive")
	}

	cfg := &dataprocpb.ClusterConfig{
		ConfigBucket: b.StorageBucket,
		GceClusterConfig: &dataprocpb.GceClusterConfig{
			ZoneUri:              b.ZoneURI,
			NetworkUri:           b.NetworkURI,
			SubnetworkUri:        b.SubnetworkURI,
			Tags:                 b.Tags,
			Metadata:             b.Metadata,
			ServiceAccount:       b.ServiceAccount,
			ServiceAccountScopes: b.ServiceAccountScopes,
		},
		MasterConfig: b.instanceGroup(b.NumMasters, b.MasterMachineType, b.MasterDiskType, b.MasterDiskSizeGB),
		WorkerConfig: b.instanceGroup(b.NumWorkers, b.WorkerMachineType, b.WorkerDiskType, b.WorkerDiskSizeGB),
	}

	if b.InternalIPOnly {
		cfg.GceClusterConfig.InternalIpOnly = proto.Bool(true)
	}

	if b.NumSecondaryWorkers > 0 {
		cfg.SecondaryWorkerConfig = b.instanceGroup(b.NumSecondaryWorkers, b.WorkerMachineType, b.WorkerDiskType, b.WorkerDiskSizeGB)
		cfg.SecondaryWorkerConfig.IsPreemptible = true
	}

	software := &dataprocpb.SoftwareConfig{
		ImageVersion: b.ImageVersion,
		Properties:   b.Properties,
	}
	if b.NumWorkers == 0 {
		// Zero workers means a single-node cluster, which the service
		// rejects unless explicitly allowed.
		if software.Properties == nil {
			software.Properties = map[string]string{}
		}
		software.Properties[allowZeroWorkersProperty] = "true"
	}
	cfg.SoftwareConfig = software

	if b.AutoscalingPolicy != "" {
		cfg.AutoscalingConfig = &dataprocpb.AutoscalingConfig{PolicyUri: b.AutoscalingPolicy}
	}
	if b.IdleDeleteTTL > 0 {
		cfg.LifecycleConfig = &dataprocpb.LifecycleConfig{
			IdleDeleteTtl: durationpb.New(b.IdleDeleteTTL),
		}
	}
	for _, action := range b.InitActions {
		init := &dataprocpb.NodeInitializationAction{ExecutableFile: action}
		if b.InitActionTimeout > 0 {
			init.ExecutionTimeout = durationpb.New(b.InitActionTimeout)
		}
		cfg.InitializationActions = append(cfg.InitializationActions, init)
	}
	if b.EnableComponentGateway {
		cfg.EndpointConfig = &dataprocpb.EndpointConfig{EnableHttpPortAccess: true}
	}

	return cfg, nil
}

func (b *ClusterConfigBuilder) instanceGroup(count int32, machineType, diskType string, diskSizeGB int32) *dataprocpb.InstanceGroupConfig {
	group := &dataprocpb.InstanceGroupConfig{
		NumInstances:   count,
		MachineTypeUri: machineType,
		DiskConfig: &dataprocpb.DiskConfig{
			BootDiskType:   diskType,
			BootDiskSizeGb: diskSizeGB,
		},
	}
	if uri := b.customImageURI(); uri != "" {
		group.ImageUri = uri
	}
	return group
}

func (b *ClusterConfigBuilder) customImageURI() string {
	switch {
	case b.CustomImage != "":
		return fmt.Sprintf("https://www.googleapis.com/compute/beta/projects/%s/global/images/%s",
			b.CustomImageProject, b.CustomImage)
	case b.CustomImageFamily != "":
		return fmt.Sprintf("https://www.googleapis.com/compute/beta/projects/%s/global/images/family/%s",
			b.CustomImageProject, b.CustomImageFamily)
	default:
		return ""
	}
}
