package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/diillson/aws-service-audit-go/internal/domain/entity"
	"github.com/diillson/aws-service-audit-go/internal/domain/repository"
	"github.com/diillson/aws-service-audit-go/internal/domain/service"
	"github.com/diillson/aws-service-audit-go/internal/shared/types"
)

// AuditUseCase handles the service usage audit flow: resolve settings and
// profile, guard the caller account, query the log store, normalize and
// classify the observed event sources, then display and export the report.
type AuditUseCase struct {
	awsRepo    repository.AWSRepository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
}

// NewAuditUseCase creates a new audit use case.
func NewAuditUseCase(
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *AuditUseCase {
	return &AuditUseCase{
		awsRepo:    awsRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
	}
}

// ResolveSettings mescla arquivo de configuração, flags e defaults.
// Flags têm precedência sobre o arquivo; defaults preenchem o resto.
func (uc *AuditUseCase) ResolveSettings(args *types.CLIArgs) (*types.Config, error) {
	settings := &types.Config{}

	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	overrideString(&settings.Profile, args.Profile)
	overrideString(&settings.Region, args.Region)
	overrideString(&settings.Source, args.Source)
	overrideString(&settings.Database, args.Database)
	overrideString(&settings.Table, args.Table)
	overrideString(&settings.Workgroup, args.Workgroup)
	overrideString(&settings.OutputLocation, args.OutputLocation)
	overrideString(&settings.LogGroup, args.LogGroup)
	overrideString(&settings.Month, args.Month)
	overrideString(&settings.ExpectedAccount, args.ExpectedAccount)
	overrideString(&settings.ReportName, args.ReportName)
	overrideString(&settings.Dir, args.Dir)
	if len(args.ReportType) > 0 {
		settings.ReportType = args.ReportType
	}

	if settings.Source == "" {
		settings.Source = "athena"
	}
	if settings.Region == "" {
		settings.Region = "us-east-1"
	}
	if settings.Workgroup == "" {
		settings.Workgroup = "primary"
	}
	if settings.Month == "" {
		settings.Month = previousMonth(time.Now().UTC())
	}

	return settings, nil
}

// ResolveProfile escolhe o perfil AWS a usar. Um perfil pedido
// explicitamente precisa existir; sem pedido, "default" quando presente,
// senão o primeiro disponível com um aviso.
func (uc *AuditUseCase) ResolveProfile(requested string) (string, error) {
	availableProfiles := uc.awsRepo.GetAWSProfiles()
	if len(availableProfiles) == 0 {
		return "", types.ErrNoProfilesFound
	}

	if requested != "" {
		for _, profile := range availableProfiles {
			if profile == requested {
				return requested, nil
			}
		}
		return "", fmt.Errorf("%w: %s", types.ErrProfileNotFound, requested)
	}

	for _, profile := range availableProfiles {
		if profile == "default" {
			return "default", nil
		}
	}

	uc.console.LogWarning("No default profile found. Using profile '%s'.", availableProfiles[0])
	return availableProfiles[0], nil
}

// BuildEngine monta o normalizador e o catálogo a partir das regras e do
// catálogo do arquivo de configuração (quando presentes) sobre os padrões
// embutidos. Falha aqui é defeito de configuração e aborta o processo
// antes de qualquer consulta.
func (uc *AuditUseCase) BuildEngine(settings *types.Config) (*service.Normalizer, *service.Catalog, error) {
	userRules := make([]service.NormalizationRule, 0, len(settings.Rules))
	for _, rc := range settings.Rules {
		userRules = append(userRules, service.NormalizationRule{
			Match:   service.MatchKind(rc.Match),
			Pattern: rc.Pattern,
			Service: rc.Service,
		})
	}

	ruleset, err := service.NewRuleset(service.MergeRules(userRules, service.DefaultRules()))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid normalization rules: %w", err)
	}

	catalog := service.DefaultCatalog()
	if len(settings.ApprovedServices) > 0 {
		catalog = service.NewCatalog(settings.ApprovedServices)
	}

	return service.NewNormalizer(ruleset), catalog, nil
}

// RunAudit executa a auditoria de ponta a ponta.
func (uc *AuditUseCase) RunAudit(ctx context.Context, args *types.CLIArgs) error {
	settings, err := uc.ResolveSettings(args)
	if err != nil {
		return err
	}

	normalizer, catalog, err := uc.BuildEngine(settings)
	if err != nil {
		return err
	}

	profile, err := uc.ResolveProfile(settings.Profile)
	if err != nil {
		return err
	}

	accountID, err := uc.awsRepo.GetAccountID(ctx, profile)
	if err != nil {
		return err
	}
	if settings.ExpectedAccount != "" && accountID != settings.ExpectedAccount {
		return fmt.Errorf("%w: running in %s, expected %s", types.ErrWrongAccount, accountID, settings.ExpectedAccount)
	}

	queryResult, err := uc.runQuery(ctx, profile, settings)
	if err != nil {
		return err
	}

	if len(queryResult.EventSources) == 0 {
		uc.console.LogWarning("No services observed in %s; every approved service will be reported as not in use", settings.Month)
	}

	report := uc.buildReport(normalizer, catalog, queryResult.EventSources)
	report.Profile = profile
	report.AccountID = accountID
	report.Period = settings.Month
	report.Source = settings.Source
	report.ExecutionID = queryResult.ExecutionID

	uc.displayReport(report)

	return uc.exportReport(report, settings)
}

// runQuery despacha para o coletor configurado.
func (uc *AuditUseCase) runQuery(ctx context.Context, profile string, settings *types.Config) (entity.QueryResult, error) {
	status := uc.console.Status(fmt.Sprintf("Querying CloudTrail for services used in %s...", settings.Month))
	defer status.Stop()

	switch settings.Source {
	case "athena":
		if settings.Database == "" || settings.Table == "" || settings.OutputLocation == "" {
			return entity.QueryResult{}, fmt.Errorf("the athena source requires --database, --table and --output-location")
		}
		params := entity.AthenaQueryParams{
			Database:       settings.Database,
			Table:          settings.Table,
			Workgroup:      settings.Workgroup,
			OutputLocation: settings.OutputLocation,
			Region:         settings.Region,
			Month:          settings.Month,
		}
		if err := uc.awsRepo.CheckOutputLocation(ctx, profile, settings.Region, settings.OutputLocation); err != nil {
			return entity.QueryResult{}, err
		}
		status.Update("Waiting for the Athena query to finish...")
		return uc.awsRepo.QueryEventSourcesAthena(ctx, profile, params)
	case "logs":
		if settings.LogGroup == "" {
			return entity.QueryResult{}, fmt.Errorf("the logs source requires --log-group")
		}
		params := entity.LogsQueryParams{
			LogGroup: settings.LogGroup,
			Region:   settings.Region,
			Month:    settings.Month,
		}
		status.Update("Waiting for the Logs Insights query to finish...")
		return uc.awsRepo.QueryEventSourcesLogsInsights(ctx, profile, params)
	default:
		return entity.QueryResult{}, fmt.Errorf("%w: %s", types.ErrUnknownQuerySource, settings.Source)
	}
}

// buildReport normaliza cada event source bruto, pulando (e contando) os
// malformados, e reconcilia o conjunto observado contra o catálogo.
func (uc *AuditUseCase) buildReport(
	normalizer *service.Normalizer,
	catalog *service.Catalog,
	sources []entity.RawEventSource,
) entity.ClassificationReport {
	progress := uc.console.ProgressWithTotal(len(sources))

	observed := make([]entity.CanonicalService, 0, len(sources))
	skipped := 0
	for _, source := range sources {
		// O coletor já deveria ter removido o cabeçalho do resultado, mas
		// não confiamos no enquadramento dele.
		if strings.EqualFold(strings.TrimSpace(string(source)), "eventsource") {
			progress.Increment()
			continue
		}
		svc := normalizer.Normalize(source)
		if svc == "" {
			skipped++
		} else {
			observed = append(observed, svc)
		}
		progress.Increment()
	}
	progress.Stop()

	report := service.Classify(observed, catalog)
	report.SkippedMalformed = skipped
	return report
}

// displayReport renderiza a tabela de classificação e o painel de resumo.
func (uc *AuditUseCase) displayReport(report entity.ClassificationReport) {
	table := uc.console.CreateTable()
	table.AddColumn(fmt.Sprintf("Approved, in use (%d)", len(report.ApprovedInUse)))
	table.AddColumn(fmt.Sprintf("Unapproved, in use (%d)", len(report.UnapprovedInUse)))
	table.AddColumn(fmt.Sprintf("Approved, not in use (%d)", len(report.ApprovedNotInUse)))

	rows := len(report.ApprovedInUse)
	if len(report.UnapprovedInUse) > rows {
		rows = len(report.UnapprovedInUse)
	}
	if len(report.ApprovedNotInUse) > rows {
		rows = len(report.ApprovedNotInUse)
	}

	cell := func(services []entity.CanonicalService, i int, style pterm.Color) string {
		if i >= len(services) {
			return ""
		}
		return style.Sprint(string(services[i]))
	}

	for i := 0; i < rows; i++ {
		table.AddRow(
			cell(report.ApprovedInUse, i, pterm.FgGreen),
			cell(report.UnapprovedInUse, i, pterm.FgRed),
			cell(report.ApprovedNotInUse, i, pterm.FgCyan),
		)
	}

	uc.console.Print(table.Render())
	uc.console.Println()

	uc.console.DisplayUsageBreakdown(types.UsageSummary{
		Period:           report.Period,
		AccountID:        report.AccountID,
		Source:           report.Source,
		ApprovedInUse:    len(report.ApprovedInUse),
		ApprovedNotInUse: len(report.ApprovedNotInUse),
		UnapprovedInUse:  len(report.UnapprovedInUse),
		SkippedMalformed: report.SkippedMalformed,
	})
}

// exportReport exporta o relatório nos formatos pedidos.
func (uc *AuditUseCase) exportReport(report entity.ClassificationReport, settings *types.Config) error {
	if settings.ReportName == "" || len(settings.ReportType) == 0 {
		return nil
	}

	for _, reportType := range settings.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportReportToCSV(report, settings.ReportName, settings.Dir)
			if err != nil {
				uc.console.LogError("Failed to export report to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported report to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportReportToJSON(report, settings.ReportName, settings.Dir)
			if err != nil {
				uc.console.LogError("Failed to export report to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported report to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportReportToPDF(report, settings.ReportName, settings.Dir)
			if err != nil {
				uc.console.LogError("Failed to export report to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported report to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("Unknown report type '%s' (expected csv, json or pdf)", reportType)
		}
	}

	return nil
}

// previousMonth devolve o mês anterior em "YYYY/MM", ancorado no primeiro
// dia do mês para evitar a normalização de datas do AddDate.
func previousMonth(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -1, 0).Format("2006/01")
}

func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
