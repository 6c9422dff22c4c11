package repository

import (
	"context"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Query Operations
	QueryEventSourcesAthena(ctx context.Context, profile string, params entity.AthenaQueryParams) (entity.QueryResult, error)
	QueryEventSourcesLogsInsights(ctx context.Context, profile string, params entity.LogsQueryParams) (entity.QueryResult, error)

	// Output Location
	CheckOutputLocation(ctx context.Context, profile, region, outputLocation string) error
}
