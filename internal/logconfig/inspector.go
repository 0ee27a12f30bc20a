// Package logconfig reads a container's log configuration from its task
// definition and checks the CloudWatch log group it points at.
package logconfig

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/internal/identifier"
	"github.com/iambrandonn/iecs/internal/platform"
)

// awslogs driver options.
const (
	OptionGroup        = "awslogs-group"
	OptionRegion       = "awslogs-region"
	OptionStreamPrefix = "awslogs-stream-prefix"
)

// LogGroupRef locates a container's log output.
type LogGroupRef struct {
	Group        string
	Region       string
	StreamPrefix string
	Stream       string // empty unless a stream prefix is configured
	ARN          string
}

// Inspector resolves LogGroupRefs.
type Inspector struct {
	ecs    platform.ECS
	logs   platform.Logs
	region string
	logger *slog.Logger
}

// NewInspector creates an inspector. region is used when the log
// configuration does not name one.
func NewInspector(ecsAPI platform.ECS, logsAPI platform.Logs, region string, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inspector{ecs: ecsAPI, logs: logsAPI, region: region, logger: logger}
}

// Inspect returns the log group for containerName in the given task
// definition. Only the awslogs driver is understood; any other driver fails
// before its options are looked at.
func (i *Inspector) Inspect(ctx context.Context, definitionARN, taskARN, containerName string) (LogGroupRef, error) {
	out, err := i.ecs.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: aws.String(definitionARN),
	})
	if err != nil {
		return LogGroupRef{}, failure.API(failure.StageLogConfig, "DescribeTaskDefinition", err)
	}
	if out.TaskDefinition == nil {
		return LogGroupRef{}, failure.NotFound(failure.StageLogConfig, definitionARN)
	}

	def := findContainer(out.TaskDefinition.ContainerDefinitions, containerName)
	if def == nil {
		return LogGroupRef{}, failure.NotFound(failure.StageContainer, containerName).
			WithDetail("not in task definition " + definitionARN)
	}

	lc := def.LogConfiguration
	if lc == nil {
		return LogGroupRef{}, failure.NotFound(failure.StageLogConfig, containerName)
	}
	if lc.LogDriver != types.LogDriverAwslogs {
		return LogGroupRef{}, failure.UnsupportedLogDriver(string(lc.LogDriver), containerName)
	}

	group, ok := lc.Options[OptionGroup]
	if !ok || group == "" {
		return LogGroupRef{}, failure.NotFound(failure.StageLogConfig, OptionGroup).
			WithDetail("container '" + containerName + "'")
	}

	ref := LogGroupRef{
		Group:        group,
		Region:       i.region,
		StreamPrefix: lc.Options[OptionStreamPrefix],
	}
	if region := lc.Options[OptionRegion]; region != "" {
		ref.Region = region
	}
	if ref.StreamPrefix != "" {
		task, err := identifier.Parse(taskARN)
		if err != nil {
			return LogGroupRef{}, err
		}
		ref.Stream = ref.StreamPrefix + "/" + containerName + "/" + task.Leaf()
	}

	arn, err := i.lookupGroup(ctx, group)
	if err != nil {
		return LogGroupRef{}, err
	}
	ref.ARN = arn

	i.logger.Info("resolved log group", "group", ref.Group, "region", ref.Region, "stream", ref.Stream)
	return ref, nil
}

// lookupGroup returns the ARN of the group named exactly name. The API only
// filters by prefix, so every page is checked.
func (i *Inspector) lookupGroup(ctx context.Context, name string) (string, error) {
	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(i.logs, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(name),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", failure.API(failure.StageLogs, "DescribeLogGroups", err)
		}
		for _, g := range page.LogGroups {
			if aws.ToString(g.LogGroupName) == name {
				return aws.ToString(g.LogGroupArn), nil
			}
		}
	}
	return "", failure.NotFound(failure.StageLogs, name)
}

func findContainer(defs []types.ContainerDefinition, name string) *types.ContainerDefinition {
	for idx := range defs {
		if aws.ToString(defs[idx].Name) == name {
			return &defs[idx]
		}
	}
	return nil
}
