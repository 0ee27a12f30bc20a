// Package platform narrows the AWS SDK clients to the calls iecs makes. The
// interfaces keep the SDK method signatures so *ecs.Client and
// *cloudwatchlogs.Client satisfy them directly and the SDK paginators accept them.
package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// ECS is the control-plane surface used by the resolvers, the session
// launcher and the log configuration inspector.
type ECS interface {
	ListClusters(ctx context.Context, params *ecs.ListClustersInput, optFns ...func(*ecs.Options)) (*ecs.ListClustersOutput, error)
	DescribeClusters(ctx context.Context, params *ecs.DescribeClustersInput, optFns ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error)
	ListTasks(ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options)) (*ecs.ListTasksOutput, error)
	DescribeTasks(ctx context.Context, params *ecs.DescribeTasksInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTasksOutput, error)
	DescribeTaskDefinition(ctx context.Context, params *ecs.DescribeTaskDefinitionInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTaskDefinitionOutput, error)
	ExecuteCommand(ctx context.Context, params *ecs.ExecuteCommandInput, optFns ...func(*ecs.Options)) (*ecs.ExecuteCommandOutput, error)
}

// Logs is the CloudWatch Logs surface used to validate log group references.
type Logs interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
}

var (
	_ ECS  = (*ecs.Client)(nil)
	_ Logs = (*cloudwatchlogs.Client)(nil)
)

// ErrRegionRequired is returned when neither flags nor the ambient AWS
// configuration resolve a region.
var ErrRegionRequired = errors.New("AWS region is not configured")

// LoadAWSConfig resolves credentials and region from the ambient AWS
// configuration. Non-empty region and profile override it.
func LoadAWSConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if cfg.Region == "" {
		return aws.Config{}, fmt.Errorf("%w\n\nHint: pass --region, set IECS_REGION or AWS_REGION, or configure a region for the active profile", ErrRegionRequired)
	}
	return cfg, nil
}

// Clients holds the SDK clients built from one AWS configuration.
type Clients struct {
	Region string
	ECS    *ecs.Client
	Logs   *cloudwatchlogs.Client
}

// NewClients builds the SDK clients for cfg.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		Region: cfg.Region,
		ECS:    ecs.NewFromConfig(cfg),
		Logs:   cloudwatchlogs.NewFromConfig(cfg),
	}
}
