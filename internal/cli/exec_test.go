package cli

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/pkg/testharness"
)

func sessionOutput() *ecs.ExecuteCommandOutput {
	return &ecs.ExecuteCommandOutput{Session: &types.Session{
		SessionId:  aws.String("ecs-execute-command-0abc"),
		StreamUrl:  aws.String("wss://ssmmessages.us-east-1.amazonaws.com/v1/data-channel/ecs-execute-command-0abc"),
		TokenValue: aws.String("secret-token"),
	}}
}

// An explicit cluster with two running tasks and a single ready container
// prompts only for the task.
func TestExecPromptsOnlyForTask(t *testing.T) {
	plugin := testharness.MustFakePlugin(t, "session-manager-plugin", 0)
	h := newHarness(t, taskOneARN)
	h.usePlugin(plugin.Path)

	h.expectProdCluster()
	h.ecs.On("ListTasks", mock.Anything, mock.Anything).
		Return(&ecs.ListTasksOutput{TaskArns: []string{taskOneARN, taskTwoARN}}, nil)
	h.ecs.On("DescribeTasks", mock.Anything, mock.MatchedBy(func(in *ecs.DescribeTasksInput) bool {
		return len(in.Tasks) == 2
	})).Return(&ecs.DescribeTasksOutput{Tasks: []types.Task{
		taskRecord(taskOneARN),
		taskRecord(taskTwoARN),
	}}, nil)
	h.expectTask(taskOneARN, readyContainer("app", "r1"))
	h.ecs.On("ExecuteCommand", mock.Anything, mock.MatchedBy(func(in *ecs.ExecuteCommandInput) bool {
		return aws.ToString(in.Cluster) == prodARN &&
			aws.ToString(in.Task) == taskOneARN &&
			aws.ToString(in.Container) == "app" &&
			aws.ToString(in.Command) == "/bin/bash" &&
			in.Interactive
	})).Return(sessionOutput(), nil).Once()

	require.NoError(t, h.run("exec", "--region", "us-east-1", "--cluster", "prod"))

	assert.Equal(t, []string{"Task"}, h.selector.Titles())
	h.ecs.AssertExpectations(t)

	args, err := plugin.Args()
	require.NoError(t, err)
	require.Len(t, args, 6)
	assert.Equal(t, "us-east-1", args[1])
	assert.Equal(t, "StartSession", args[2])
	assert.Equal(t, "", args[3])
	assert.Contains(t, args[4], `"Target":"ecs:prod_prod/0f9a2b11_r1"`)
	assert.Equal(t, "https://ssm.us-east-1.amazonaws.com", args[5])

	assert.Contains(t, h.stderr.String(), "Non-interactive command:")
	assert.Contains(t, h.stderr.String(), "iecs exec --cluster prod --task "+taskOneARN+` --container app --command "/bin/bash" --interactive=true`)
	assert.NotContains(t, h.stderr.String(), "secret-token")
}

func TestExecNoClustersFailsWithoutPrompt(t *testing.T) {
	plugin := testharness.MustFakePlugin(t, "session-manager-plugin", 0)
	h := newHarness(t)
	h.usePlugin(plugin.Path)

	h.ecs.On("ListClusters", mock.Anything, mock.Anything).Return(&ecs.ListClustersOutput{}, nil)

	err := h.run("exec")
	require.Error(t, err)

	assert.ErrorIs(t, err, failure.ErrEmptyResult)
	assert.Equal(t, "no clusters found", err.Error())
	assert.Empty(t, h.selector.Calls())
	h.ecs.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
	h.ecs.AssertNotCalled(t, "DescribeClusters", mock.Anything, mock.Anything)
	h.ecs.AssertNotCalled(t, "DescribeTasks", mock.Anything, mock.Anything)
	assert.False(t, plugin.Invoked())
}

func TestExecPluginMissingFailsBeforeResolution(t *testing.T) {
	h := newHarness(t)

	err := h.run("exec", "--cluster", "prod")
	require.Error(t, err)

	assert.ErrorIs(t, err, failure.ErrPluginNotFound)
	assert.Contains(t, err.Error(), "session-manager-plugin")
	assert.Empty(t, h.ecs.Calls)
	assert.Empty(t, h.selector.Calls())
}

func TestExecPluginOverrideFromEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("IECS_PLUGIN", "/opt/smp/session-manager-plugin")

	var looked string
	h.lookPath = func(file string) (string, error) {
		looked = file
		return "", assert.AnError
	}

	err := h.run("exec", "--cluster", "prod")
	require.Error(t, err)
	assert.Equal(t, "/opt/smp/session-manager-plugin", looked)
	assert.Contains(t, err.Error(), "/opt/smp/session-manager-plugin")
}

func TestExecPluginExitCodeSurfaces(t *testing.T) {
	plugin := testharness.MustFakePlugin(t, "session-manager-plugin", 2)
	h := newHarness(t)
	h.usePlugin(plugin.Path)

	h.expectProdCluster()
	h.expectTask(taskOneARN, readyContainer("app", "r1"))
	h.ecs.On("ExecuteCommand", mock.Anything, mock.Anything).Return(sessionOutput(), nil).Once()

	err := h.run("exec", "--cluster", "prod", "--task", taskOneARN, "--container", "app", "--command", "ls", "--interactive=false")
	require.Error(t, err)

	assert.ErrorIs(t, err, failure.ErrPluginFailed)
	assert.True(t, plugin.Invoked())
	assert.Empty(t, h.selector.Calls())
	assert.Contains(t, h.stderr.String(), `--command "ls" --interactive=false`)
}

func TestExecUnknownContainer(t *testing.T) {
	plugin := testharness.MustFakePlugin(t, "session-manager-plugin", 0)
	h := newHarness(t)
	h.usePlugin(plugin.Path)

	h.expectProdCluster()
	h.expectTask(taskOneARN, readyContainer("app", "r1"))

	err := h.run("exec", "--cluster", "prod", "--task", taskOneARN, "--container", "worker")
	require.Error(t, err)

	assert.Equal(t, "container 'worker' not found", err.Error())
	h.ecs.AssertNotCalled(t, "ExecuteCommand", mock.Anything, mock.Anything)
	assert.False(t, plugin.Invoked())
}

func TestExecRejectsEmptyCommand(t *testing.T) {
	h := newHarness(t)

	err := h.run("exec", "--command", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty 'command'")
	assert.False(t, h.loaded)
}
