package handlers

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmprov/internal/fault"
	"github.com/imamik/vmprov/internal/util/prerequisites"
)

func foundTools(azureCLI, gcloudCLI string) *prerequisites.CheckResults {
	results := &prerequisites.CheckResults{}
	for _, tool := range prerequisites.ProviderTools(azureCLI, gcloudCLI) {
		results.Results = append(results.Results, prerequisites.CheckResult{Tool: tool, Found: true, Path: "/usr/bin/" + tool.Name})
	}
	return results
}

func TestDoctor_Ready(t *testing.T) {
	env := saveAndRestoreFactories(t)
	env.write(t, "azure.conf", azureConf)
	env.write(t, "gcp.conf", gcpConf)
	checkProviderPrereqs = foundTools

	require.NoError(t, Doctor(DoctorOptions{WorkDir: env.dir}))

	out := env.out.String()
	assert.Contains(t, out, "vmprov setup: "+env.dir)
	assert.Contains(t, out, "✅  az                   /usr/bin/az")
	assert.Contains(t, out, "✅  "+filepath.Join(env.dir, "gcp.conf"))
	assert.NotContains(t, out, "❌")
}

func TestDoctor_MissingToolAndFile(t *testing.T) {
	env := saveAndRestoreFactories(t)
	env.write(t, "azure.conf", azureConf)
	checkProviderPrereqs = func(azureCLI, gcloudCLI string) *prerequisites.CheckResults {
		tools := prerequisites.ProviderTools(azureCLI, gcloudCLI)
		return &prerequisites.CheckResults{
			Results: []prerequisites.CheckResult{
				{Tool: tools[0], Found: true, Path: "/usr/bin/az"},
				{Tool: tools[1]},
			},
			Missing: tools[1:],
		}
	}

	err := Doctor(DoctorOptions{WorkDir: env.dir, JSON: true})
	require.Error(t, err)
	assert.Equal(t, fault.KindProviderPrerequisite, fault.KindOf(err))

	var status DoctorStatus
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &status))
	assert.False(t, status.Ready())
	require.Len(t, status.Tools, 2)
	assert.False(t, status.Tools[1].Found)
	require.Len(t, status.Files, 2)
	assert.True(t, status.Files[0].Exists)
	assert.False(t, status.Files[1].Exists)
}
