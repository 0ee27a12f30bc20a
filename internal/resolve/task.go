package resolve

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/internal/identifier"
	"github.com/iambrandonn/iecs/internal/prompt"
)

// Task resolves name within clusterARN, or prompts over the cluster's tasks
// when name is empty. The whole task record is returned because the logs path
// needs its task definition ARN.
func (r *Resolver) Task(ctx context.Context, clusterARN, name string) (*types.Task, error) {
	if name != "" {
		return r.describeTask(ctx, clusterARN, name)
	}

	tasks, err := r.listTasks(ctx, clusterARN)
	if err != nil {
		return nil, err
	}

	candidates := make([]prompt.Candidate, 0, len(tasks))
	for _, task := range tasks {
		candidates = append(candidates, prompt.Candidate{
			Title:       aws.ToString(task.TaskArn),
			Description: describeTaskCandidate(task),
		})
	}

	idx, err := r.choose(failure.StageTask, "Task", candidates)
	if err != nil {
		return nil, err
	}

	task := tasks[idx]
	r.logger.Info("resolved task", "arn", aws.ToString(task.TaskArn))
	return &task, nil
}

func (r *Resolver) describeTask(ctx context.Context, clusterARN, name string) (*types.Task, error) {
	out, err := r.api.DescribeTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(clusterARN),
		Tasks:   []string{name},
	})
	if err != nil {
		return nil, failure.API(failure.StageTask, "DescribeTasks", err)
	}
	if len(out.Tasks) == 0 {
		return nil, failure.NotFound(failure.StageTask, name)
	}

	task := out.Tasks[0]
	r.logger.Info("resolved task", "arn", aws.ToString(task.TaskArn))
	return &task, nil
}

// listTasks lists the cluster's task ARNs and describes them in one batch.
// Only the first page is read: one DescribeTasks call takes at most 100 ids.
func (r *Resolver) listTasks(ctx context.Context, clusterARN string) ([]types.Task, error) {
	listed, err := r.api.ListTasks(ctx, &ecs.ListTasksInput{
		Cluster: aws.String(clusterARN),
	})
	if err != nil {
		return nil, failure.API(failure.StageTask, "ListTasks", err)
	}
	if listed.NextToken != nil {
		r.logger.Debug("task list truncated to first page, pass --task to choose others",
			"cluster", clusterARN, "listed", len(listed.TaskArns))
	}
	if len(listed.TaskArns) == 0 {
		return nil, nil
	}

	described, err := r.api.DescribeTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(clusterARN),
		Tasks:   listed.TaskArns,
	})
	if err != nil {
		return nil, failure.API(failure.StageTask, "DescribeTasks", err)
	}
	if len(described.Tasks) < len(listed.TaskArns) {
		return nil, failure.API(failure.StageTask, "DescribeTasks",
			fmt.Errorf("described %d of %d tasks", len(described.Tasks), len(listed.TaskArns)))
	}
	return described.Tasks, nil
}

func describeTaskCandidate(task types.Task) string {
	status := aws.ToString(task.LastStatus)
	definition := aws.ToString(task.TaskDefinitionArn)
	if id, err := identifier.Parse(definition); err == nil {
		definition = id.Name
	}
	switch {
	case status != "" && definition != "":
		return status + " · " + definition
	case status != "":
		return status
	default:
		return definition
	}
}
