package provisioning

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmprov/internal/provider"
)

func TestMetricsCountRun(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", `[azure01]
name=vm1
resource-group=rg1
port=80
image=img1
location=eastus
admin-username=admin
`)
	h.runner.Respond("az group exists --name rg1", "false")

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.commands.WithLabelValues("Azure", KindAuxiliary, "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.commands.WithLabelValues("Azure", KindPrerequisite, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.commands.WithLabelValues("Azure", KindPrimary, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.declarations.WithLabelValues("Azure")))
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordCommand("GCP", KindPrimary, false)
	m.RecordDeclaration("GCP")

	path := filepath.Join(t.TempDir(), "vmprov.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `vmprov_commands_total{kind="primary",provider="GCP",result="failed"} 1`)
	assert.Contains(t, string(data), `vmprov_declarations_total{provider="GCP"} 1`)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordCommand("Azure", KindPrimary, true)
	m.RecordDeclaration("Azure")
	assert.NoError(t, m.WriteTextfile("ignored"))
	assert.NoError(t, NewMetrics().WriteTextfile(""))
}
