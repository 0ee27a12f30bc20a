package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// StartSessionOperation is the plugin operation name passed as argument three.
const StartSessionOperation = "StartSession"

// PluginArgs returns the plugin's positional arguments in the order it reads
// them: session JSON, region, operation, profile (left empty), StartSession
// JSON, SSM endpoint.
func PluginArgs(sessionJSON, region, startSessionJSON, endpoint string) []string {
	return []string{
		sessionJSON,
		region,
		StartSessionOperation,
		"",
		startSessionJSON,
		endpoint,
	}
}

// ControlEndpoint resolves the SSM endpoint for region with the SDK's
// partition-aware rules, e.g. https://ssm.us-east-1.amazonaws.com.
func ControlEndpoint(ctx context.Context, region string) (string, error) {
	if region == "" {
		return "", errors.New("resolve ssm endpoint: region is empty")
	}
	endpoint, err := ssm.NewDefaultEndpointResolverV2().ResolveEndpoint(ctx, ssm.EndpointParameters{
		Region: aws.String(region),
	})
	if err != nil {
		return "", fmt.Errorf("resolve ssm endpoint for %s: %w", region, err)
	}
	return endpoint.URI.String(), nil
}
