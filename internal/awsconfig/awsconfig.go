// Package awsconfig resolves AWS credentials and region for the service clients.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Load resolves the AWS configuration for a shared config profile and region.
// Empty values fall back to the SDK's default chain (environment, shared
// files, instance role).
func Load(ctx context.Context, profile, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, Options(profile, region)...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Options returns the load options selecting profile and region.
func Options(profile, region string) []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	return opts
}
