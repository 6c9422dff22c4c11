package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diillson/aws-service-audit-go/pkg/version"

	"github.com/diillson/aws-service-audit-go/internal/application/usecase"
	"github.com/diillson/aws-service-audit-go/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	auditUseCase *usecase.AuditUseCase
	version      string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "aws-service-audit",
		Short:   "Audit AWS service usage against an approved-service catalog",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Service Audit version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringP("region", "r", "", "AWS region where the CloudTrail table or log group lives (default: us-east-1)")
	rootCmd.PersistentFlags().StringP("source", "s", "", "Query source: athena or logs (default: athena)")
	rootCmd.PersistentFlags().String("database", "", "Athena database holding the CloudTrail table")
	rootCmd.PersistentFlags().String("table", "", "Athena table with the CloudTrail logs")
	rootCmd.PersistentFlags().String("workgroup", "", "Athena workgroup (default: primary)")
	rootCmd.PersistentFlags().StringP("output-location", "o", "", "S3 location for Athena query results, e.g. s3://bucket/prefix/")
	rootCmd.PersistentFlags().StringP("log-group", "l", "", "CloudWatch Logs group receiving the trail (for --source logs)")
	rootCmd.PersistentFlags().StringP("month", "m", "", "Audit window as YYYY/MM (default: previous month)")
	rootCmd.PersistentFlags().String("expected-account", "", "Refuse to run unless the caller account matches this ID")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	configFile, _ := app.rootCmd.Flags().GetString("config-file")
	profile, _ := app.rootCmd.Flags().GetString("profile")
	region, _ := app.rootCmd.Flags().GetString("region")
	source, _ := app.rootCmd.Flags().GetString("source")
	database, _ := app.rootCmd.Flags().GetString("database")
	table, _ := app.rootCmd.Flags().GetString("table")
	workgroup, _ := app.rootCmd.Flags().GetString("workgroup")
	outputLocation, _ := app.rootCmd.Flags().GetString("output-location")
	logGroup, _ := app.rootCmd.Flags().GetString("log-group")
	month, _ := app.rootCmd.Flags().GetString("month")
	expectedAccount, _ := app.rootCmd.Flags().GetString("expected-account")
	reportName, _ := app.rootCmd.Flags().GetString("report-name")
	reportType, _ := app.rootCmd.Flags().GetStringSlice("report-type")
	dir, _ := app.rootCmd.Flags().GetString("dir")

	// Set default directory to current working directory if not specified
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		// Convert to absolute path
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:      configFile,
		Profile:         profile,
		Region:          region,
		Source:          source,
		Database:        database,
		Table:           table,
		Workgroup:       workgroup,
		OutputLocation:  outputLocation,
		LogGroup:        logGroup,
		Month:           month,
		ExpectedAccount: expectedAccount,
		ReportName:      reportName,
		ReportType:      reportType,
		Dir:             dir,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	// Analisa os argumentos da linha de comando
	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	// Executa a auditoria
	ctx := context.Background()
	return app.auditUseCase.RunAudit(ctx, cliArgs)
}

// SetAuditUseCase sets the audit use case for the CLI app.
func (app *CLIApp) SetAuditUseCase(useCase *usecase.AuditUseCase) {
	app.auditUseCase = useCase
}
