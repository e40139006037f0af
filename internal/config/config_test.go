package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, ".", s.WorkDir)
	assert.Equal(t, "azure.conf", s.AzureFile)
	assert.Equal(t, "gcp.conf", s.GCPFile)
	assert.Equal(t, "VMcreation", s.AuditPrefix)
	assert.Equal(t, "az", s.AzureCLI)
	assert.Equal(t, "gcloud", s.GCloudCLI)
	assert.Empty(t, s.MetricsFile)
	assert.NoError(t, s.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadWithEnvironment("", dir, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, dir, s.WorkDir)
	assert.Equal(t, filepath.Join(dir, "azure.conf"), s.AzurePath())
	assert.Equal(t, filepath.Join(dir, "gcp.conf"), s.GCPPath())
	assert.Empty(t, s.MetricsPath())
}

func TestLoad_DiscoversFileInWorkDir(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, DefaultSettingsFile, `
azure_file: vms/azure.conf
audit_prefix: audit
metrics_file: /var/lib/node_exporter/vmprov.prom
`)

	s, err := LoadWithEnvironment("", dir, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vms", "azure.conf"), s.AzurePath())
	assert.Equal(t, "gcp.conf", s.GCPFile)
	assert.Equal(t, "audit", s.AuditPrefix)
	assert.Equal(t, "/var/lib/node_exporter/vmprov.prom", s.MetricsPath())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, t.TempDir(), "custom.yaml", `
work_dir: /from/file
azure_cli: /opt/az/bin/az
gcloud_cli: /opt/gcloud
`)

	tests := []struct {
		name       string
		workDir    string
		env        map[string]string
		wantDir    string
		wantAzure  string
		wantGCloud string
	}{
		{
			name:       "file over defaults",
			env:        map[string]string{},
			wantDir:    "/from/file",
			wantAzure:  "/opt/az/bin/az",
			wantGCloud: "/opt/gcloud",
		},
		{
			name:       "env over file",
			env:        map[string]string{"VMPROV_AZURE_CLI": "az-beta", "VMPROV_WORK_DIR": "/from/env"},
			wantDir:    "/from/env",
			wantAzure:  "az-beta",
			wantGCloud: "/opt/gcloud",
		},
		{
			name:       "flag over env",
			workDir:    dir,
			env:        map[string]string{"VMPROV_WORK_DIR": "/from/env"},
			wantDir:    dir,
			wantAzure:  "/opt/az/bin/az",
			wantGCloud: "/opt/gcloud",
		},
		{
			name:       "unprefixed variables ignored",
			env:        map[string]string{"AZURE_CLI": "wrong"},
			wantDir:    "/from/file",
			wantAzure:  "/opt/az/bin/az",
			wantGCloud: "/opt/gcloud",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadWithEnvironment(path, tt.workDir, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, s.WorkDir)
			assert.Equal(t, tt.wantAzure, s.AzureCLI)
			assert.Equal(t, tt.wantGCloud, s.GCloudCLI)
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := LoadWithEnvironment(filepath.Join(t.TempDir(), "absent.yaml"), "", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, DefaultSettingsFile, "azure_file: [unclosed\n")

	_, err := LoadWithEnvironment("", dir, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal settings")
}

func TestLoad_EmptyValueRejected(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, DefaultSettingsFile, "audit_prefix: \"\"\ngcloud_cli: \"\"\n")

	_, err := LoadWithEnvironment("", dir, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit_prefix must not be empty")
	assert.Contains(t, err.Error(), "gcloud_cli must not be empty")
}

func TestOperator(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"user", map[string]string{"USER": "alice", "USERNAME": "ALICE"}, "alice"},
		{"username fallback", map[string]string{"USERNAME": "bob"}, "bob"},
		{"neither", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := LoadIdentityWithEnvironment(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Operator())
		})
	}
}
