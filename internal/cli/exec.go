package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"

	"github.com/iambrandonn/iecs/internal/config"
	"github.com/iambrandonn/iecs/internal/resolve"
	"github.com/iambrandonn/iecs/internal/session"
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Open a command session in a running container",
	Long: `Open an ECS exec session in a running container. The cluster, task and
container are prompted for unless given as flags or IECS_* variables.`,
	Args: cobra.NoArgs,
	RunE: runExec,
}

func init() {
	addTargetFlags(execCmd)
	execCmd.Flags().String(config.KeyCommand, config.DefaultCommand, "Command to run in the container")
	execCmd.Flags().Bool(config.KeyInteractive, config.DefaultInteractive, "Run the command interactively")
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateExec(); err != nil {
		return err
	}

	ctx := cmd.Context()
	api, err := deps.loadClients(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return err
	}

	launcher := session.NewLauncher(api.ecs, api.region, logger,
		session.WithPlugin(cfg.Plugin),
		session.WithLookPath(deps.lookPath),
		session.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	// Fail before prompting when the session could never start.
	if _, err := launcher.Preflight(); err != nil {
		return err
	}

	resolver := resolve.NewResolver(api.ecs, deps.newSelector(), logger)

	cluster, err := resolver.Cluster(ctx, cfg.Cluster)
	if err != nil {
		return err
	}
	task, err := resolver.Task(ctx, cluster.ARN, cfg.Task)
	if err != nil {
		return err
	}
	taskARN := aws.ToString(task.TaskArn)
	container, err := resolver.Container(ctx, cluster.ARN, taskARN, cfg.Container)
	if err != nil {
		return err
	}

	req := session.Request{
		Cluster:     cluster,
		TaskARN:     taskARN,
		Container:   container,
		Command:     cfg.Command,
		Interactive: cfg.Interactive,
	}
	printNonInteractiveHint(cmd.ErrOrStderr(), req)

	return launcher.Launch(ctx, req)
}

// printNonInteractiveHint shows the invocation that repeats this session
// without prompts.
func printNonInteractiveHint(w io.Writer, req session.Request) {
	fmt.Fprint(w, "\nNon-interactive command:\n")
	fmt.Fprintf(w, "\n\tiecs exec --cluster %s --task %s --container %s --command %q --interactive=%t\n\n",
		req.Cluster.Name, req.TaskARN, req.Container.Name, req.Command, req.Interactive)
}

// loadCommandConfig reads flags and environment and builds the logger.
func loadCommandConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	level, _, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := newLogger(cmd.ErrOrStderr(), level).With("command", cmd.Name())
	return cfg, logger, nil
}
