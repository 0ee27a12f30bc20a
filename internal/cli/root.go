package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iambrandonn/iecs/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "iecs",
	Short: "Interactive shell access to containers running on Amazon ECS",
	Long: `iecs opens an ECS exec session in a running container. Any of the
cluster, task and container that is not given on the command line is chosen
from an interactive list.

The session itself is run by the AWS Session Manager plugin, which must be
installed and on PATH.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(logsCmd)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyRegion, "", "AWS region (default: from the AWS configuration)")
	flags.String(config.KeyProfile, "", "AWS shared configuration profile")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.String(config.KeyPlugin, "", "Session Manager plugin executable (default: session-manager-plugin on PATH)")
}

// Execute runs the root command. An interrupt before the session starts
// cancels any in-flight API call.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// addTargetFlags registers the flags naming the container to act on.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String(config.KeyCluster, "", "Cluster name or ARN (default: prompt)")
	cmd.Flags().String(config.KeyTask, "", "Task id or ARN (default: prompt)")
	cmd.Flags().String(config.KeyContainer, "", "Container name (default: prompt)")
}
