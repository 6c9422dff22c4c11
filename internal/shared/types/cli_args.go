package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile      string
	Profile         string
	Region          string
	Source          string
	Database        string
	Table           string
	Workgroup       string
	OutputLocation  string
	LogGroup        string
	Month           string
	ExpectedAccount string
	ReportName      string
	ReportType      []string
	Dir             string
}
