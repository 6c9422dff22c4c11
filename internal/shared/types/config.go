package types

// RuleConfig is the file representation of a normalization rule.
type RuleConfig struct {
	Match   string `json:"match" yaml:"match" toml:"match"`
	Pattern string `json:"pattern" yaml:"pattern" toml:"pattern"`
	Service string `json:"service" yaml:"service" toml:"service"`
}

// Config represents the application configuration that can be loaded from
// a TOML, YAML or JSON file. CLI flags take precedence over file values.
type Config struct {
	Profile         string   `json:"profile" yaml:"profile" toml:"profile"`
	Region          string   `json:"region" yaml:"region" toml:"region"`
	Source          string   `json:"source" yaml:"source" toml:"source"`
	Database        string   `json:"database" yaml:"database" toml:"database"`
	Table           string   `json:"table" yaml:"table" toml:"table"`
	Workgroup       string   `json:"workgroup" yaml:"workgroup" toml:"workgroup"`
	OutputLocation  string   `json:"output_location" yaml:"output_location" toml:"output_location"`
	LogGroup        string   `json:"log_group" yaml:"log_group" toml:"log_group"`
	Month           string   `json:"month" yaml:"month" toml:"month"`
	ExpectedAccount string   `json:"expected_account" yaml:"expected_account" toml:"expected_account"`
	ReportName      string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType      []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir             string   `json:"dir" yaml:"dir" toml:"dir"`

	// ApprovedServices substitui o catálogo padrão quando presente.
	ApprovedServices []string `json:"approved_services" yaml:"approved_services" toml:"approved_services"`

	// Rules são colocadas antes da tabela padrão, então regras do usuário
	// têm prioridade sobre as embutidas.
	Rules []RuleConfig `json:"rules" yaml:"rules" toml:"rules"`
}
