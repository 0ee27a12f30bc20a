package cli

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iambrandonn/iecs/internal/logconfig"
	"github.com/iambrandonn/iecs/internal/resolve"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show where a container's logs are written",
	Long: `Resolve a container the same way exec does and print the CloudWatch log
group and stream its awslogs driver writes to. Containers using any other log
driver are rejected.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var labelStyle = lipgloss.NewStyle().Bold(true)

func init() {
	addTargetFlags(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	api, err := deps.loadClients(ctx, cfg.Region, cfg.Profile)
	if err != nil {
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

	inspector := logconfig.NewInspector(api.ecs, api.logs, api.region, logger)
	ref, err := inspector.Inspect(ctx, aws.ToString(task.TaskDefinitionArn), taskARN, container.Name)
	if err != nil {
		return err
	}

	printLogGroup(cmd.OutOrStdout(), ref)
	return nil
}

func printLogGroup(w io.Writer, ref logconfig.LogGroupRef) {
	rows := [][2]string{
		{"Log group", ref.Group},
		{"Region", ref.Region},
		{"Stream", ref.Stream},
		{"ARN", ref.ARN},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", row[0]+":")), row[1])
	}
}
