package resolve

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/internal/prompt"
)

// Container resolves name within the task, or prompts when name is empty.
// ECS has no server-side container filter, so the task is always described.
// Containers without a runtime id are not ready for exec and never match.
func (r *Resolver) Container(ctx context.Context, clusterARN, taskARN, name string) (ContainerRef, error) {
	out, err := r.api.DescribeTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(clusterARN),
		Tasks:   []string{taskARN},
	})
	if err != nil {
		return ContainerRef{}, failure.API(failure.StageContainer, "DescribeTasks", err)
	}

	containers := readyContainers(out.Tasks)

	if name != "" {
		for _, container := range containers {
			if container.Name == name {
				r.logger.Info("resolved container", "name", container.Name, "runtime_id", container.RuntimeID)
				return container, nil
			}
		}
		return ContainerRef{}, failure.NotFound(failure.StageContainer, name)
	}

	candidates := make([]prompt.Candidate, 0, len(containers))
	for _, container := range containers {
		candidates = append(candidates, prompt.Candidate{Title: container.Name, Description: container.ARN})
	}

	idx, err := r.choose(failure.StageContainer, "Container", candidates)
	if err != nil {
		return ContainerRef{}, err
	}

	container := containers[idx]
	r.logger.Info("resolved container", "name", container.Name, "runtime_id", container.RuntimeID)
	return container, nil
}

// readyContainers flattens the containers of every task record. Normally
// there is exactly one record.
func readyContainers(tasks []types.Task) []ContainerRef {
	var refs []ContainerRef
	for _, task := range tasks {
		for _, c := range task.Containers {
			ref := ContainerRef{
				Name:      aws.ToString(c.Name),
				ARN:       aws.ToString(c.ContainerArn),
				RuntimeID: aws.ToString(c.RuntimeId),
			}
			if ref.Name == "" || ref.ARN == "" || ref.RuntimeID == "" {
				continue
			}
			refs = append(refs, ref)
		}
	}
	return refs
}
