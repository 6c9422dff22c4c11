package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenaTypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwlTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
	"github.com/diillson/aws-service-audit-go/internal/domain/repository"
)

const (
	// pollInterval é o intervalo fixo entre verificações de status da
	// query, igual para Athena e Logs Insights.
	pollInterval = 2 * time.Second

	// maxPollAttempts bounds the polling loop so a stuck query cannot
	// hang the audit forever (~10 minutes at the fixed interval).
	maxPollAttempts = 300

	// eventSourceColumn is the projected column name; Athena repeats it
	// as the first result row.
	eventSourceColumn = "eventsource"
)

// AWSRepositoryImpl implementa o AWSRepository com cache de clientes.
type AWSRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository() repository.AWSRepository {
	return &AWSRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "athena":
		client = athena.NewFromConfig(regionalCfg)
	case "logs":
		client = cloudwatchlogs.NewFromConfig(regionalCfg)
	case "s3":
		client = s3.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetAWSProfiles lê os perfis do ~/.aws/credentials e ~/.aws/config.
func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}

	credentialsPath := filepath.Join(homeDir, ".aws", "credentials")
	configPath := filepath.Join(homeDir, ".aws", "config")

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := match[1]
			if isConfig {
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[profileName] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, "us-east-1", "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}
	return *result.Account, nil
}

// CheckOutputLocation valida o bucket de resultados do Athena antes de
// iniciar a query, para falhar cedo com uma mensagem clara.
func (r *AWSRepositoryImpl) CheckOutputLocation(ctx context.Context, profile, region, outputLocation string) error {
	bucket, err := bucketFromS3URI(outputLocation)
	if err != nil {
		return err
	}

	client, err := r.getServiceClient(ctx, profile, region, "s3")
	if err != nil {
		return err
	}
	s3Client := client.(*s3.Client)

	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("athena output bucket %s is not accessible: %w", bucket, err)
	}
	return nil
}

// QueryEventSourcesAthena executa a query de event sources na tabela do
// CloudTrail no Athena: inicia a execução, faz polling em intervalo fixo
// até um estado terminal e pagina o resultado completo.
func (r *AWSRepositoryImpl) QueryEventSourcesAthena(ctx context.Context, profile string, params entity.AthenaQueryParams) (entity.QueryResult, error) {
	client, err := r.getServiceClient(ctx, profile, params.Region, "athena")
	if err != nil {
		return entity.QueryResult{}, err
	}
	athenaClient := client.(*athena.Client)

	// Apenas eventos de escrita do mês alvo; leituras são ruído de auditoria.
	query := fmt.Sprintf(
		`SELECT DISTINCT eventsource FROM "%s"."%s" WHERE day LIKE '%s/%%' AND readonly = 'false'`,
		params.Database, params.Table, params.Month,
	)

	startOutput, err := athenaClient.StartQueryExecution(ctx, &athena.StartQueryExecutionInput{
		QueryString: aws.String(query),
		WorkGroup:   aws.String(params.Workgroup),
		ResultConfiguration: &athenaTypes.ResultConfiguration{
			OutputLocation: aws.String(params.OutputLocation),
		},
	})
	if err != nil {
		return entity.QueryResult{}, fmt.Errorf("error starting Athena query: %w", err)
	}

	executionID := aws.ToString(startOutput.QueryExecutionId)
	result := entity.QueryResult{ExecutionID: executionID}

	execution, err := r.waitForAthenaQuery(ctx, athenaClient, executionID)
	if err != nil {
		return result, err
	}
	if execution.Statistics != nil {
		result.DataScannedBytes = aws.ToInt64(execution.Statistics.DataScannedInBytes)
	}

	paginator := athena.NewGetQueryResultsPaginator(athenaClient, &athena.GetQueryResultsInput{
		QueryExecutionId: aws.String(executionID),
	})

	firstRow := true
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return result, fmt.Errorf("error paginating Athena results: %w", err)
		}
		if page.ResultSet == nil {
			continue
		}
		for _, row := range page.ResultSet.Rows {
			if len(row.Data) == 0 || row.Data[0].VarCharValue == nil {
				continue
			}
			value := aws.ToString(row.Data[0].VarCharValue)
			// A primeira linha da primeira página é o cabeçalho da coluna.
			if firstRow {
				firstRow = false
				if strings.EqualFold(value, eventSourceColumn) {
					continue
				}
			}
			result.EventSources = append(result.EventSources, entity.RawEventSource(value))
		}
	}

	return result, nil
}

func (r *AWSRepositoryImpl) waitForAthenaQuery(ctx context.Context, client *athena.Client, executionID string) (*athenaTypes.QueryExecution, error) {
	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		output, err := client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(executionID),
		})
		if err != nil {
			return nil, fmt.Errorf("error polling Athena query %s: %w", executionID, err)
		}
		if output.QueryExecution == nil || output.QueryExecution.Status == nil {
			continue
		}

		switch output.QueryExecution.Status.State {
		case athenaTypes.QueryExecutionStateSucceeded:
			return output.QueryExecution, nil
		case athenaTypes.QueryExecutionStateFailed, athenaTypes.QueryExecutionStateCancelled:
			reason := aws.ToString(output.QueryExecution.Status.StateChangeReason)
			return nil, fmt.Errorf("Athena query %s ended in state %s: %s",
				executionID, output.QueryExecution.Status.State, reason)
		}
	}

	return nil, fmt.Errorf("Athena query %s did not finish after %d polls", executionID, maxPollAttempts)
}

// QueryEventSourcesLogsInsights executa a mesma auditoria contra um log
// group do CloudWatch Logs que recebe o trail, via Logs Insights.
func (r *AWSRepositoryImpl) QueryEventSourcesLogsInsights(ctx context.Context, profile string, params entity.LogsQueryParams) (entity.QueryResult, error) {
	client, err := r.getServiceClient(ctx, profile, params.Region, "logs")
	if err != nil {
		return entity.QueryResult{}, err
	}
	logsClient := client.(*cloudwatchlogs.Client)

	start, end, err := monthWindow(params.Month)
	if err != nil {
		return entity.QueryResult{}, err
	}

	query := `fields eventSource | filter ispresent(eventSource) and readOnly = 0 | stats count(*) by eventSource`

	startOutput, err := logsClient.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(params.LogGroup),
		StartTime:    aws.Int64(start.Unix()),
		EndTime:      aws.Int64(end.Unix()),
		QueryString:  aws.String(query),
	})
	if err != nil {
		return entity.QueryResult{}, fmt.Errorf("error starting Logs Insights query: %w", err)
	}

	queryID := aws.ToString(startOutput.QueryId)
	result := entity.QueryResult{ExecutionID: queryID}

	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(pollInterval):
		}

		output, err := logsClient.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
			QueryId: aws.String(queryID),
		})
		if err != nil {
			return result, fmt.Errorf("error polling Logs Insights query %s: %w", queryID, err)
		}

		switch output.Status {
		case cwlTypes.QueryStatusComplete:
			if output.Statistics != nil {
				result.DataScannedBytes = int64(output.Statistics.BytesScanned)
			}
			for _, fields := range output.Results {
				for _, field := range fields {
					if aws.ToString(field.Field) == "eventSource" && field.Value != nil {
						result.EventSources = append(result.EventSources, entity.RawEventSource(*field.Value))
					}
				}
			}
			return result, nil
		case cwlTypes.QueryStatusFailed, cwlTypes.QueryStatusCancelled, cwlTypes.QueryStatusTimeout:
			return result, fmt.Errorf("Logs Insights query %s ended in status %s", queryID, output.Status)
		}
	}

	return result, fmt.Errorf("Logs Insights query %s did not finish after %d polls", queryID, maxPollAttempts)
}

// monthWindow expande "YYYY/MM" para o intervalo [início do mês, início
// do mês seguinte).
func monthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006/01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (expected YYYY/MM): %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

func bucketFromS3URI(uri string) (string, error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri || trimmed == "" {
		return "", fmt.Errorf("invalid S3 output location %q (expected s3://bucket/prefix)", uri)
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "", fmt.Errorf("invalid S3 output location %q (expected s3://bucket/prefix)", uri)
	}
	return trimmed, nil
}
