package cli

import (
	"context"
	"os/exec"

	"github.com/iambrandonn/iecs/internal/platform"
	"github.com/iambrandonn/iecs/internal/prompt"
)

// clients is what a command needs from AWS.
type clients struct {
	region string
	ecs    platform.ECS
	logs   platform.Logs
}

// dependencies are the collaborators commands are built from. Tests replace
// the package-level value.
type dependencies struct {
	loadClients func(ctx context.Context, region, profile string) (*clients, error)
	newSelector func() prompt.Selector
	lookPath    func(file string) (string, error)
}

var deps = defaultDependencies()

func defaultDependencies() dependencies {
	return dependencies{
		loadClients: loadAWSClients,
		newSelector: func() prompt.Selector { return prompt.NewTerminal() },
		lookPath:    exec.LookPath,
	}
}

func loadAWSClients(ctx context.Context, region, profile string) (*clients, error) {
	cfg, err := platform.LoadAWSConfig(ctx, region, profile)
	if err != nil {
		return nil, err
	}
	c := platform.NewClients(cfg)
	return &clients{region: c.Region, ecs: c.ECS, logs: c.Logs}, nil
}
