package resolve

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/internal/identifier"
	"github.com/iambrandonn/iecs/internal/prompt"
)

// Cluster resolves name, or prompts over every cluster when name is empty.
func (r *Resolver) Cluster(ctx context.Context, name string) (ClusterRef, error) {
	if name != "" {
		return r.describeCluster(ctx, name)
	}

	arns, err := r.listClusterARNs(ctx)
	if err != nil {
		return ClusterRef{}, err
	}
	if len(arns) == 0 {
		return ClusterRef{}, failure.EmptyResult(failure.StageCluster)
	}

	refs := make([]ClusterRef, 0, len(arns))
	candidates := make([]prompt.Candidate, 0, len(arns))
	for _, arn := range arns {
		id, err := identifier.Parse(arn)
		if err != nil {
			return ClusterRef{}, err
		}
		refs = append(refs, ClusterRef{Name: id.Name, ARN: arn})
		candidates = append(candidates, prompt.Candidate{Title: id.Name, Description: arn})
	}

	idx, err := r.choose(failure.StageCluster, "Cluster", candidates)
	if err != nil {
		return ClusterRef{}, err
	}

	cluster := refs[idx]
	r.logger.Info("resolved cluster", "name", cluster.Name, "arn", cluster.ARN)
	return cluster, nil
}

func (r *Resolver) describeCluster(ctx context.Context, name string) (ClusterRef, error) {
	out, err := r.api.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{name},
	})
	if err != nil {
		return ClusterRef{}, failure.API(failure.StageCluster, "DescribeClusters", err)
	}
	if len(out.Clusters) == 0 {
		return ClusterRef{}, failure.NotFound(failure.StageCluster, name)
	}

	record := out.Clusters[0]
	cluster := ClusterRef{
		Name: aws.ToString(record.ClusterName),
		ARN:  aws.ToString(record.ClusterArn),
	}
	if cluster.Name == "" || cluster.ARN == "" {
		return ClusterRef{}, failure.API(failure.StageCluster, "DescribeClusters", errors.New("cluster record is missing its name or ARN"))
	}

	r.logger.Info("resolved cluster", "name", cluster.Name, "arn", cluster.ARN)
	return cluster, nil
}

func (r *Resolver) listClusterARNs(ctx context.Context) ([]string, error) {
	var arns []string
	paginator := ecs.NewListClustersPaginator(r.api, &ecs.ListClustersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, failure.API(failure.StageCluster, "ListClusters", err)
		}
		arns = append(arns, page.ClusterArns...)
	}
	return arns, nil
}
