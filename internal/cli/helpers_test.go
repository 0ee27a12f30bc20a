package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"

	"github.com/iambrandonn/iecs/internal/platform"
	"github.com/iambrandonn/iecs/internal/prompt"
)

const (
	prodARN       = "arn:aws:ecs:us-east-1:111122223333:cluster/prod"
	taskOneARN    = "arn:aws:ecs:us-east-1:111122223333:task/prod/0f9a2b11"
	taskTwoARN    = "arn:aws:ecs:us-east-1:111122223333:task/prod/7c3d4e22"
	definitionARN = "arn:aws:ecs:us-east-1:111122223333:task-definition/web:7"
)

type harness struct {
	ecs      *platform.MockECS
	logs     *platform.MockLogs
	selector *prompt.Scripted
	lookPath func(string) (string, error)
	loaded   bool
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newHarness(t *testing.T, answers ...string) *harness {
	t.Helper()
	for _, key := range []string{
		"IECS_REGION", "IECS_PROFILE", "IECS_LOG_LEVEL", "IECS_PLUGIN",
		"IECS_CLUSTER", "IECS_TASK", "IECS_CONTAINER", "IECS_COMMAND", "IECS_INTERACTIVE",
	} {
		t.Setenv(key, "")
	}

	h := &harness{
		ecs:      &platform.MockECS{},
		logs:     &platform.MockLogs{},
		selector: prompt.NewScripted(answers...),
		lookPath: func(string) (string, error) { return "", errors.New("executable file not found in $PATH") },
	}

	original := deps
	deps = dependencies{
		loadClients: func(ctx context.Context, region, profile string) (*clients, error) {
			h.loaded = true
			if region == "" {
				region = "us-east-1"
			}
			return &clients{region: region, ecs: h.ecs, logs: h.logs}, nil
		},
		newSelector: func() prompt.Selector { return h.selector },
		lookPath:    func(file string) (string, error) { return h.lookPath(file) },
	}
	t.Cleanup(func() {
		deps = original
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return h
}

func (h *harness) usePlugin(path string) {
	h.lookPath = func(string) (string, error) { return path, nil }
}

func (h *harness) run(args ...string) error {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetOut(&h.stdout)
	rootCmd.SetErr(&h.stderr)
	return rootCmd.ExecuteContext(context.Background())
}

func (h *harness) expectProdCluster() {
	h.ecs.On("DescribeClusters", mock.Anything, &ecs.DescribeClustersInput{Clusters: []string{"prod"}}).
		Return(&ecs.DescribeClustersOutput{Clusters: []types.Cluster{
			{ClusterName: aws.String("prod"), ClusterArn: aws.String(prodARN)},
		}}, nil)
}

func (h *harness) expectTask(arn string, containers ...types.Container) {
	h.ecs.On("DescribeTasks", mock.Anything, mock.MatchedBy(func(in *ecs.DescribeTasksInput) bool {
		return len(in.Tasks) == 1 && in.Tasks[0] == arn
	})).Return(&ecs.DescribeTasksOutput{Tasks: []types.Task{taskRecord(arn, containers...)}}, nil)
}

func taskRecord(arn string, containers ...types.Container) types.Task {
	return types.Task{
		TaskArn:           aws.String(arn),
		TaskDefinitionArn: aws.String(definitionARN),
		LastStatus:        aws.String("RUNNING"),
		Containers:        containers,
	}
}

func readyContainer(name, runtimeID string) types.Container {
	return types.Container{
		Name:         aws.String(name),
		ContainerArn: aws.String("arn:aws:ecs:us-east-1:111122223333:container/prod/" + name),
		RuntimeId:    aws.String(runtimeID),
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag
	}
	return cmd.PersistentFlags().Lookup(name)
}
