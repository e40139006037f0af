package provisioning

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/vmprov/internal/fault"
	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/provider"
	"github.com/imamik/vmprov/internal/ui/report"
)

const azureVMOutput = `{
  "location": "eastus",
  "powerState": "VM running",
  "privateIpAddress": "10.0.0.4",
  "publicIpAddress": "52.170.1.2",
  "resourceGroup": "rg1"
}`

type fakeGate struct {
	answers []bool
	err     error
	asked   []string
}

func (g *fakeGate) Confirm(_ context.Context, cmd shell.Command) (bool, error) {
	g.asked = append(g.asked, cmd.String())
	if g.err != nil {
		return false, g.err
	}
	if len(g.answers) == 0 {
		return true, nil
	}
	answer := g.answers[0]
	g.answers = g.answers[1:]
	return answer, nil
}

type fakeRecorder struct {
	tags  []string
	lines [][]string
}

func (r *fakeRecorder) Add(tag string, rawLines []string) {
	r.tags = append(r.tags, tag)
	r.lines = append(r.lines, rawLines)
}

type harness struct {
	dir      string
	runner   *shell.FakeRunner
	gate     *fakeGate
	out      *bytes.Buffer
	observer *MockObserver
	metrics  *Metrics
	disp     *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		dir:      t.TempDir(),
		runner:   shell.NewFakeRunner(),
		gate:     &fakeGate{},
		out:      &bytes.Buffer{},
		observer: NewMockObserver(),
		metrics:  NewMetrics(),
	}
	h.disp = NewDispatcher(h.runner, h.gate, report.NewRenderer(h.out, false), h.observer, h.metrics)
	return h
}

func (h *harness) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (h *harness) session(p provider.Provider, file string) *Session {
	return NewSession(p, file, h.disp, h.observer)
}

const azureSingle = `[azure01]
name=vm1
resource-group=rg1
image=img1
location=eastus
admin-username=admin
`

func TestSessionAzureScenario(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle)
	h.runner.Respond("az group exists --name rg1", "true\n")
	h.runner.Respond("az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin", azureVMOutput)

	s := h.session(provider.NewAzure("az"), file)
	decls, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, 1, s.sequence)
	assert.Equal(t, 0, s.portRules)

	assert.Equal(t, []string{
		"az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin",
	}, h.gate.asked)
	assert.Equal(t, []string{
		"az group exists --name rg1",
		"az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin",
	}, h.runner.Lines())

	assert.Contains(t, h.out.String(), "NAME            LOCATION")
	assert.Contains(t, h.out.String(), "vm1             eastus")
	assert.Len(t, h.observer.eventsOf(EventPrerequisiteExists), 1)

	dispatched := h.observer.eventsOf(EventCommandDispatched)
	require.Len(t, dispatched, 2)
	for _, e := range append(dispatched, h.observer.eventsOf(EventPrerequisiteExists)...) {
		assert.Equal(t, file, e.Fields["file"], "event %s", e.Type)
	}
}

func TestSessionCreatesMissingResourceGroup(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle)
	h.runner.Respond("az group exists --name rg1", "false\n")

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"az group exists --name rg1",
		"az group create --name rg1 --location eastus",
		"az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin",
	}, h.runner.Lines())
	assert.Len(t, h.observer.eventsOf(EventPrerequisiteCreated), 1)
}

func TestSessionPrerequisiteFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle)
	h.runner.Responses["az group exists --name rg1"] = shell.Result{Output: []byte("Please run 'az login'"), ExitCode: 1}

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.KindProviderPrerequisite, fault.KindOf(err))
	assert.Contains(t, err.Error(), "az login")
	assert.Empty(t, h.gate.asked)
}

func TestSessionRejectsTagBeforeAnyCommand(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", `[azure11]
name=vm1
resource-group=rg1
port=80
image=img1
location=eastus
admin-username=admin
`)

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.KindInvalidTagFormat, fault.KindOf(err))
	assert.Contains(t, err.Error(), "azure11")
	assert.Contains(t, err.Error(), file)
	assert.Empty(t, h.runner.Calls)
	assert.Empty(t, h.gate.asked)
}

func TestSessionGCPMissingZone(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "gcp.conf", `[gcp01]
name=web-1
image=debian-12
imageproject=debian-cloud
`)

	_, err := h.session(provider.NewGCP("gcloud"), file).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.KindMissingRequiredField, fault.KindOf(err))
	assert.Contains(t, err.Error(), "field 'zone'")
	assert.Empty(t, h.runner.Calls)
}

func TestSessionPortBeforeResourceGroup(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", `[azure01]
name=vm1
port=8080
resource-group=rg1
image=img1
location=eastus
admin-username=admin
`)
	h.runner.Respond("az group exists --name rg1", "true")
	h.runner.Respond("az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin", azureVMOutput)

	decls, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, decls, 1)

	assert.False(t, h.runner.Ran("az network nsg"))
	assert.True(t, h.runner.Ran("az vm create"))

	warnings := h.observer.eventsOf(EventValidationWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "azure01", warnings[0].Resource)
	assert.Contains(t, warnings[0].Message, "resource group required to open port")
	assert.Contains(t, decls[0].RawLines, "port=8080")
	assert.Contains(t, h.out.String(), "vm1             eastus")
}

func TestSessionPortFiresDuringScan(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", `[azure01]
name=vm1
resource-group=rg1
port=8080
image=img1
location=eastus
admin-username=admin

[azure02]
name=vm2
resource-group=rg1
port=443
image=img1
location=eastus
admin-username=admin
`)
	h.runner.Respond("az group exists --name rg1", "true")

	s := h.session(provider.NewAzure("az"), file)
	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.portRules)
	assert.Equal(t, 2, s.sequence)

	assert.Equal(t, []string{
		"az network nsg create --resource-group rg1 --name open-port1",
		"az network nsg rule create --nsg-name open-port1 --resource-group rg1 --name Allow-Web-All --priority 100 --destination-port 8080",
		"az network nsg create --resource-group rg1 --name open-port2",
		"az network nsg rule create --nsg-name open-port2 --resource-group rg1 --name Allow-Web-All --priority 100 --destination-port 443",
		"az group exists --name rg1",
		"az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin",
		"az group exists --name rg1",
		"az vm create --name vm2 --resource-group rg1 --image img1 --location eastus --admin-username admin",
	}, h.runner.Lines())
	assert.Len(t, h.gate.asked, 2)
}

func TestSessionAuxiliaryFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "gcp.conf", `[gcp01]
name=web-1
image=debian-12
zone=us-east1-b
imageproject=debian-cloud
port=80
`)
	h.runner.Responses["gcloud compute firewall-rules create open-port1 --action=ALLOW --direction=INGRESS --rules=tcp:80"] = shell.Result{ExitCode: 1}
	h.runner.Respond("gcloud compute instances create web-1 --zone=us-east1-b --image-project=debian-cloud --image=debian-12",
		"NAME   ZONE        STATUS\nweb-1  us-east1-b  RUNNING\n")

	_, err := h.session(provider.NewGCP("gcloud"), file).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, h.observer.eventsOf(EventCommandFailed), 1)
	assert.Equal(t, "NAME   ZONE        STATUS\nweb-1  us-east1-b  RUNNING\n\n", h.out.String())
}

func TestSessionFailedCreationIsShown(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle)
	h.runner.Respond("az group exists --name rg1", "true")
	h.runner.Responses["az vm create --name vm1 --resource-group rg1 --image img1 --location eastus --admin-username admin"] = shell.Result{
		Output:   []byte("ERROR: QuotaExceeded"),
		ExitCode: 1,
	}

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "ERROR: QuotaExceeded")
	assert.Len(t, h.observer.eventsOf(EventCommandFailed), 1)
}

func TestSessionDeclined(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle+`
[azure02]
name=vm2
resource-group=rg1
image=img1
location=eastus
admin-username=admin
`)
	h.runner.Respond("az group exists --name rg1", "true")
	h.gate.answers = []bool{false}

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.KindUserDeclined, fault.KindOf(err))
	assert.Len(t, h.gate.asked, 1)
	assert.False(t, h.runner.Ran("az vm create"))
}

func TestSessionGateError(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle)
	h.runner.Respond("az group exists --name rg1", "true")
	h.gate.err = errors.New("interrupted")

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupted")
}

func TestSessionInvalidFieldStopsBeforeCreation(t *testing.T) {
	h := newHarness(t)
	file := h.write(t, "azure.conf", azureSingle+"os-disk-caching=Sometimes\n")
	h.runner.Respond("az group exists --name rg1", "true")

	_, err := h.session(provider.NewAzure("az"), file).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.KindInvalidFieldFormat, fault.KindOf(err))
	assert.False(t, h.runner.Ran("az vm create"))
}

func TestSessionMissingFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.session(provider.NewGCP("gcloud"), filepath.Join(h.dir, "gcp.conf")).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, fault.KindMissingFile, fault.KindOf(err))
}
