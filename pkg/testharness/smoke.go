package testharness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Scenario is one invocation of the iecs binary.
type Scenario struct {
	Name string
	Args []string
	Env  map[string]string
}

var (
	// ScenarioPluginMissing runs exec with a PATH that holds no plugin.
	ScenarioPluginMissing = Scenario{
		Name: "plugin-missing",
		Args: []string{"exec", "--region", "us-east-1", "--cluster", "prod"},
	}
	// ScenarioUnknownCommand checks that usage errors exit non-zero.
	ScenarioUnknownCommand = Scenario{
		Name: "unknown-command",
		Args: []string{"shell"},
	}
	// ScenarioHelp prints the root help.
	ScenarioHelp = Scenario{
		Name: "help",
		Args: []string{"--help"},
	}
)

// SmokeOptions configures RunSmoke.
type SmokeOptions struct {
	Scenario   Scenario
	IECSBinary string
	WorkDir    string
	Env        map[string]string
}

// SmokeResult captures the outcome of a smoke scenario.
type SmokeResult struct {
	Scenario Scenario
	Stdout   string
	Stderr   string
	ExitCode int
	RunErr   error
}

// RunSmoke executes a scenario against a built iecs binary.
func RunSmoke(ctx context.Context, opts SmokeOptions) (*SmokeResult, error) {
	if opts.IECSBinary == "" {
		return nil, fmt.Errorf("iecs binary path is required")
	}

	workDir := opts.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.MkdirTemp("", "iecs-smoke-")
		if err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
	} else if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}

	cmd := exec.CommandContext(ctx, opts.IECSBinary, opts.Scenario.Args...)
	cmd.Dir = workDir
	cmd.Stdin = nil
	cmd.Stdout = stdOut
	cmd.Stderr = stdErr
	cmd.Env = mergeEnv(mergeEnv(os.Environ(), opts.Scenario.Env), opts.Env)

	runErr := cmd.Run()

	result := &SmokeResult{
		Scenario: opts.Scenario,
		Stdout:   stdOut.String(),
		Stderr:   stdErr.String(),
		RunErr:   runErr,
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("failed to run iecs: %w", runErr)
	}

	return result, nil
}

// DetectRepoRoot locates the repository root by searching for go.mod.
func DetectRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found (starting from %s)", dir)
		}
		dir = parent
	}
}

func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	result := append([]string{}, base...)
	for k, v := range overrides {
		result = setEnv(result, k, v)
	}
	return result
}
