package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := writeTempConfig(t, "audit.yaml", `
profile: security
source: athena
database: prod-cloudtraildb
table: prod-cloudtraillogs
output_location: s3://athena-results/audit/
expected_account: "236223658093"
approved_services:
  - EC2
  - S3
rules:
  - match: exact
    pattern: sts
    service: IAM
`)

	repo := NewConfigRepository()
	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "security", cfg.Profile)
	assert.Equal(t, "prod-cloudtraildb", cfg.Database)
	assert.Equal(t, "236223658093", cfg.ExpectedAccount)
	assert.Equal(t, []string{"EC2", "S3"}, cfg.ApprovedServices)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "sts", cfg.Rules[0].Pattern)
	assert.Equal(t, "IAM", cfg.Rules[0].Service)
}

func TestLoadConfigFileTOML(t *testing.T) {
	path := writeTempConfig(t, "audit.toml", `
profile = "security"
database = "prod-cloudtraildb"
table = "prod-cloudtraillogs"
approved_services = ["EC2", "Lambda"]

[[rules]]
match = "prefix"
pattern = "kinesis"
service = "Kinesis"
`)

	repo := NewConfigRepository()
	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "security", cfg.Profile)
	assert.Equal(t, []string{"EC2", "Lambda"}, cfg.ApprovedServices)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "prefix", cfg.Rules[0].Match)
}

func TestLoadConfigFileJSON(t *testing.T) {
	path := writeTempConfig(t, "audit.json", `{
  "profile": "security",
  "source": "logs",
  "log_group": "/aws/cloudtrail/prod",
  "month": "2026/07"
}`)

	repo := NewConfigRepository()
	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "logs", cfg.Source)
	assert.Equal(t, "/aws/cloudtrail/prod", cfg.LogGroup)
	assert.Equal(t, "2026/07", cfg.Month)
}

func TestLoadConfigFileUnsupportedExtension(t *testing.T) {
	path := writeTempConfig(t, "audit.ini", "profile=security")

	repo := NewConfigRepository()
	_, err := repo.LoadConfigFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadConfigFileMissing(t *testing.T) {
	repo := NewConfigRepository()
	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigFileDirectory(t *testing.T) {
	repo := NewConfigRepository()
	_, err := repo.LoadConfigFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
