package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
	"github.com/diillson/aws-service-audit-go/internal/shared/types"
)

// --- fakes ---

type fakeAWSRepo struct {
	profiles     []string
	accountID    string
	queryResult  entity.QueryResult
	queryErr     error
	athenaCalls  int
	logsCalls    int
	checkedURI   string
	athenaParams entity.AthenaQueryParams
	logsParams   entity.LogsQueryParams
}

func (f *fakeAWSRepo) GetAWSProfiles() []string { return f.profiles }

func (f *fakeAWSRepo) GetAccountID(ctx context.Context, profile string) (string, error) {
	return f.accountID, nil
}

func (f *fakeAWSRepo) QueryEventSourcesAthena(ctx context.Context, profile string, params entity.AthenaQueryParams) (entity.QueryResult, error) {
	f.athenaCalls++
	f.athenaParams = params
	return f.queryResult, f.queryErr
}

func (f *fakeAWSRepo) QueryEventSourcesLogsInsights(ctx context.Context, profile string, params entity.LogsQueryParams) (entity.QueryResult, error) {
	f.logsCalls++
	f.logsParams = params
	return f.queryResult, f.queryErr
}

func (f *fakeAWSRepo) CheckOutputLocation(ctx context.Context, profile, region, outputLocation string) error {
	f.checkedURI = outputLocation
	return nil
}

type fakeExportRepo struct {
	csvReports  []entity.ClassificationReport
	jsonReports []entity.ClassificationReport
	pdfReports  []entity.ClassificationReport
}

func (f *fakeExportRepo) ExportReportToCSV(report entity.ClassificationReport, filename, outputDir string) (string, error) {
	f.csvReports = append(f.csvReports, report)
	return outputDir + "/" + filename + ".csv", nil
}

func (f *fakeExportRepo) ExportReportToJSON(report entity.ClassificationReport, filename, outputDir string) (string, error) {
	f.jsonReports = append(f.jsonReports, report)
	return outputDir + "/" + filename + ".json", nil
}

func (f *fakeExportRepo) ExportReportToPDF(report entity.ClassificationReport, filename, outputDir string) (string, error) {
	f.pdfReports = append(f.pdfReports, report)
	return outputDir + "/" + filename + ".pdf", nil
}

type fakeConfigRepo struct {
	config *types.Config
	err    error
}

func (f *fakeConfigRepo) LoadConfigFile(filePath string) (*types.Config, error) {
	return f.config, f.err
}

type fakeHandle struct{}

func (fakeHandle) Update(string) {}
func (fakeHandle) Stop()         {}
func (fakeHandle) Increment()    {}

type fakeTable struct{}

func (fakeTable) AddColumn(string, ...interface{}) {}
func (fakeTable) AddRow(...interface{})            {}
func (fakeTable) Render() string                   { return "" }

type fakeConsole struct {
	warnings  []string
	summaries []types.UsageSummary
}

func (f *fakeConsole) Print(...interface{})            {}
func (f *fakeConsole) Printf(string, ...interface{})   {}
func (f *fakeConsole) Println(...interface{})          {}
func (f *fakeConsole) LogInfo(string, ...interface{})  {}
func (f *fakeConsole) LogError(string, ...interface{}) {}
func (f *fakeConsole) LogSuccess(string, ...interface{}) {
}

func (f *fakeConsole) LogWarning(format string, a ...interface{}) {
	f.warnings = append(f.warnings, format)
}

func (f *fakeConsole) Status(string) types.StatusHandle           { return fakeHandle{} }
func (f *fakeConsole) ProgressWithTotal(int) types.ProgressHandle { return fakeHandle{} }
func (f *fakeConsole) CreateTable() types.TableInterface          { return fakeTable{} }

func (f *fakeConsole) DisplayUsageBreakdown(summary types.UsageSummary) {
	f.summaries = append(f.summaries, summary)
}

func newUseCase(awsRepo *fakeAWSRepo) (*AuditUseCase, *fakeExportRepo, *fakeConsole) {
	exportRepo := &fakeExportRepo{}
	console := &fakeConsole{}
	uc := NewAuditUseCase(awsRepo, exportRepo, &fakeConfigRepo{}, console)
	return uc, exportRepo, console
}

func athenaArgs() *types.CLIArgs {
	return &types.CLIArgs{
		Database:       "prod-cloudtraildb",
		Table:          "prod-cloudtraillogs",
		OutputLocation: "s3://athena-results/audit/",
	}
}

// --- tests ---

func TestRunAuditAthenaPipeline(t *testing.T) {
	awsRepo := &fakeAWSRepo{
		profiles:  []string{"default"},
		accountID: "123456789012",
		queryResult: entity.QueryResult{
			ExecutionID: "exec-1",
			EventSources: []entity.RawEventSource{
				"eventsource", // header row leaked by the collaborator
				"ec2.amazonaws.com",
				"sts.amazonaws.com",
				"unknownsvc.amazonaws.com",
				".amazonaws.com", // malformed
			},
		},
	}
	uc, exportRepo, console := newUseCase(awsRepo)

	args := athenaArgs()
	args.Month = "2026/07"
	args.ReportName = "audit"
	args.ReportType = []string{"json"}
	args.Dir = t.TempDir()

	require.NoError(t, uc.RunAudit(context.Background(), args))
	require.Len(t, exportRepo.jsonReports, 1)

	report := exportRepo.jsonReports[0]
	// O catálogo padrão aprova EC2 e IAM; sts colapsa em IAM.
	assert.Contains(t, report.ApprovedInUse, entity.CanonicalService("EC2"))
	assert.Contains(t, report.ApprovedInUse, entity.CanonicalService("IAM"))
	assert.Equal(t, []entity.CanonicalService{"Unknownsvc"}, report.UnapprovedInUse)
	assert.Equal(t, 1, report.SkippedMalformed)
	assert.Equal(t, "default", report.Profile)
	assert.Equal(t, "123456789012", report.AccountID)
	assert.Equal(t, "2026/07", report.Period)
	assert.Equal(t, "athena", report.Source)
	assert.Equal(t, "exec-1", report.ExecutionID)

	assert.Equal(t, 1, awsRepo.athenaCalls)
	assert.Equal(t, 0, awsRepo.logsCalls)
	assert.Equal(t, "s3://athena-results/audit/", awsRepo.checkedURI)
	assert.Equal(t, "2026/07", awsRepo.athenaParams.Month)

	require.Len(t, console.summaries, 1)
	assert.Equal(t, 1, console.summaries[0].SkippedMalformed)
}

func TestRunAuditLogsSource(t *testing.T) {
	awsRepo := &fakeAWSRepo{
		profiles:  []string{"default"},
		accountID: "123456789012",
		queryResult: entity.QueryResult{
			ExecutionID:  "query-9",
			EventSources: []entity.RawEventSource{"lambda.amazonaws.com"},
		},
	}
	uc, _, _ := newUseCase(awsRepo)

	args := &types.CLIArgs{Source: "logs", LogGroup: "/aws/cloudtrail/prod", Month: "2026/07"}

	require.NoError(t, uc.RunAudit(context.Background(), args))
	assert.Equal(t, 1, awsRepo.logsCalls)
	assert.Equal(t, 0, awsRepo.athenaCalls)
	assert.Equal(t, "/aws/cloudtrail/prod", awsRepo.logsParams.LogGroup)
}

func TestRunAuditRejectsWrongAccount(t *testing.T) {
	awsRepo := &fakeAWSRepo{profiles: []string{"default"}, accountID: "111111111111"}
	uc, _, _ := newUseCase(awsRepo)

	args := athenaArgs()
	args.ExpectedAccount = "222222222222"

	err := uc.RunAudit(context.Background(), args)
	assert.True(t, errors.Is(err, types.ErrWrongAccount))
	assert.Equal(t, 0, awsRepo.athenaCalls, "must not query when the account guard fails")
}

func TestRunAuditRejectsUnknownSource(t *testing.T) {
	awsRepo := &fakeAWSRepo{profiles: []string{"default"}, accountID: "1"}
	uc, _, _ := newUseCase(awsRepo)

	args := &types.CLIArgs{Source: "spreadsheet"}

	err := uc.RunAudit(context.Background(), args)
	assert.True(t, errors.Is(err, types.ErrUnknownQuerySource))
}

func TestRunAuditEmptyObservedSet(t *testing.T) {
	awsRepo := &fakeAWSRepo{
		profiles:    []string{"default"},
		accountID:   "1",
		queryResult: entity.QueryResult{ExecutionID: "exec-2"},
	}
	uc, exportRepo, console := newUseCase(awsRepo)

	args := athenaArgs()
	args.ReportName = "audit"
	args.ReportType = []string{"csv"}
	args.Dir = t.TempDir()

	require.NoError(t, uc.RunAudit(context.Background(), args))
	require.Len(t, exportRepo.csvReports, 1)

	report := exportRepo.csvReports[0]
	assert.Empty(t, report.ApprovedInUse)
	assert.Empty(t, report.UnapprovedInUse)
	assert.NotEmpty(t, report.ApprovedNotInUse, "whole catalog should be reported as not in use")
	assert.NotEmpty(t, console.warnings)
}

func TestResolveProfile(t *testing.T) {
	awsRepo := &fakeAWSRepo{profiles: []string{"default", "security"}}
	uc, _, _ := newUseCase(awsRepo)

	profile, err := uc.ResolveProfile("security")
	require.NoError(t, err)
	assert.Equal(t, "security", profile)

	profile, err = uc.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "default", profile)

	_, err = uc.ResolveProfile("missing")
	assert.True(t, errors.Is(err, types.ErrProfileNotFound))
}

func TestResolveProfileFallsBackToFirst(t *testing.T) {
	awsRepo := &fakeAWSRepo{profiles: []string{"security"}}
	uc, _, console := newUseCase(awsRepo)

	profile, err := uc.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "security", profile)
	assert.NotEmpty(t, console.warnings)
}

func TestResolveSettingsDefaultsAndPrecedence(t *testing.T) {
	configRepo := &fakeConfigRepo{config: &types.Config{
		Database:  "from-file",
		Table:     "file-table",
		Workgroup: "file-wg",
	}}
	uc := NewAuditUseCase(&fakeAWSRepo{}, &fakeExportRepo{}, configRepo, &fakeConsole{})

	args := &types.CLIArgs{ConfigFile: "audit.toml", Database: "from-flag"}
	settings, err := uc.ResolveSettings(args)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", settings.Database, "flags beat file values")
	assert.Equal(t, "file-table", settings.Table)
	assert.Equal(t, "file-wg", settings.Workgroup)
	assert.Equal(t, "athena", settings.Source)
	assert.Equal(t, "us-east-1", settings.Region)
	assert.Regexp(t, `^\d{4}/\d{2}$`, settings.Month)
}

func TestBuildEngineAppliesConfigOverrides(t *testing.T) {
	uc, _, _ := newUseCase(&fakeAWSRepo{})

	settings := &types.Config{
		ApprovedServices: []string{"EC2"},
		Rules:            []types.RuleConfig{{Match: "exact", Pattern: "sts", Service: "STS"}},
	}

	normalizer, catalog, err := uc.BuildEngine(settings)
	require.NoError(t, err)

	assert.Equal(t, entity.CanonicalService("STS"), normalizer.Normalize("sts.amazonaws.com"))
	assert.Equal(t, 1, catalog.Len())
	assert.True(t, catalog.Contains("ec2"))
}

func TestBuildEngineRejectsAmbiguousConfigRules(t *testing.T) {
	uc, _, _ := newUseCase(&fakeAWSRepo{})

	settings := &types.Config{
		Rules: []types.RuleConfig{
			{Match: "exact", Pattern: "sts", Service: "STS"},
			{Match: "exact", Pattern: "sts", Service: "Identity"},
		},
	}

	_, _, err := uc.BuildEngine(settings)
	assert.Error(t, err)
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, "2025/12", previousMonth(time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)))
	// Dia 31 não pode vazar para o mês errado via normalização do AddDate.
	assert.Equal(t, "2026/02", previousMonth(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)))
}
