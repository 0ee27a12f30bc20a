// Package session starts an ECS exec session and hands it to the Session
// Manager plugin. The plugin owns the terminal until it exits.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/internal/identifier"
	"github.com/iambrandonn/iecs/internal/resolve"
)

// DefaultPlugin is the executable looked up on PATH.
const DefaultPlugin = "session-manager-plugin"

// While the plugin runs, SIGHUP and SIGTERM are relayed to it. SIGINT and
// SIGQUIT come from the terminal, which already delivers them to the whole
// foreground process group, so iecs only catches and drops them.
var (
	forwardedSignals = []os.Signal{syscall.SIGHUP, syscall.SIGTERM}
	swallowedSignals = []os.Signal{syscall.SIGINT, syscall.SIGQUIT}
)

// ExecuteCommandAPI is the control-plane call the launcher needs.
type ExecuteCommandAPI interface {
	ExecuteCommand(ctx context.Context, params *ecs.ExecuteCommandInput, optFns ...func(*ecs.Options)) (*ecs.ExecuteCommandOutput, error)
}

// Request names the container to open a session in.
type Request struct {
	Cluster     resolve.ClusterRef
	TaskARN     string
	Container   resolve.ContainerRef
	Command     string
	Interactive bool
}

// Launcher requests exec sessions and runs the plugin.
type Launcher struct {
	api      ExecuteCommandAPI
	region   string
	plugin   string
	lookPath func(string) (string, error)
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithPlugin overrides the plugin executable name or path.
func WithPlugin(plugin string) Option {
	return func(l *Launcher) {
		if plugin != "" {
			l.plugin = plugin
		}
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(l *Launcher) { l.lookPath = lookPath }
}

// WithStdio sets the streams handed to the plugin.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// NewLauncher creates a launcher for region. The plugin inherits the
// process's standard streams unless WithStdio says otherwise.
func NewLauncher(api ExecuteCommandAPI, region string, logger *slog.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &Launcher{
		api:      api,
		region:   region,
		plugin:   DefaultPlugin,
		lookPath: exec.LookPath,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Plugin returns the configured plugin name.
func (l *Launcher) Plugin() string {
	return l.plugin
}

// Preflight locates the plugin and returns its path.
func (l *Launcher) Preflight() (string, error) {
	path, err := l.lookPath(l.plugin)
	if err != nil {
		return "", failure.PluginNotFound(l.plugin, err)
	}
	return path, nil
}

// Launch opens an exec session for req and blocks until the plugin exits.
func (l *Launcher) Launch(ctx context.Context, req Request) error {
	pluginPath, err := l.Preflight()
	if err != nil {
		return err
	}

	task, err := identifier.Parse(req.TaskARN)
	if err != nil {
		return err
	}

	endpoint, err := ControlEndpoint(ctx, l.region)
	if err != nil {
		return err
	}

	execSession, err := l.executeCommand(ctx, req)
	if err != nil {
		return err
	}

	sessionJSON, err := EncodeSession(execSession)
	if err != nil {
		return err
	}

	target := Target(req.Cluster.Name, task.Name, req.Container.RuntimeID)
	startSessionJSON, err := EncodeStartSession(target)
	if err != nil {
		return err
	}

	cmd := exec.Command(pluginPath, PluginArgs(string(sessionJSON), l.region, string(startSessionJSON), endpoint)...)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	l.logger.Info("launching session manager plugin",
		"plugin", pluginPath,
		"target", target,
		"session_id", execSession.SessionID,
		"endpoint", endpoint)

	return l.run(cmd)
}

func (l *Launcher) executeCommand(ctx context.Context, req Request) (ExecSession, error) {
	out, err := l.api.ExecuteCommand(ctx, &ecs.ExecuteCommandInput{
		Cluster:     aws.String(req.Cluster.ARN),
		Task:        aws.String(req.TaskARN),
		Container:   aws.String(req.Container.Name),
		Command:     aws.String(req.Command),
		Interactive: req.Interactive,
	})
	if err != nil {
		return ExecSession{}, failure.API(failure.StageSession, "ExecuteCommand", err)
	}
	if out.Session == nil {
		return ExecSession{}, failure.API(failure.StageSession, "ExecuteCommand", errors.New("response has no session"))
	}
	return ExecSession{
		SessionID:  aws.ToString(out.Session.SessionId),
		StreamURL:  aws.ToString(out.Session.StreamUrl),
		TokenValue: aws.ToString(out.Session.TokenValue),
	}, nil
}

// run starts cmd and waits for it. Signals are caught, never ignored, because
// an ignored disposition would carry over to the plugin across exec.
func (l *Launcher) run(cmd *exec.Cmd) error {
	sigs := make(chan os.Signal, len(forwardedSignals))
	signal.Notify(sigs, forwardedSignals...)
	defer signal.Stop(sigs)

	swallowed := make(chan os.Signal, len(swallowedSignals))
	signal.Notify(swallowed, swallowedSignals...)
	defer signal.Stop(swallowed)

	if err := cmd.Start(); err != nil {
		return failure.PluginFailed(l.plugin, fmt.Errorf("start: %w", err))
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-sigs:
				if err := cmd.Process.Signal(sig); err != nil {
					l.logger.Debug("failed to forward signal", "signal", sig, "error", err)
				}
			case sig := <-swallowed:
				l.logger.Debug("signal left to the plugin's process group", "signal", sig)
			case <-done:
				return
			}
		}
	}()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			l.logger.Error("session manager plugin exited with error", "exit_code", exitErr.ExitCode())
		}
		return failure.PluginFailed(l.plugin, err)
	}

	l.logger.Info("session manager plugin exited successfully")
	return nil
}
