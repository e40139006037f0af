package provider

import (
	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/util/naming"
	"github.com/imamik/vmprov/internal/vmconf"
)

// GCP declaration keys.
const (
	GCPName         = "name"
	GCPImage        = "image"
	GCPZone         = "zone"
	GCPImageProject = "imageproject"
)

// GCPSpec describes GCP declarations.
var GCPSpec = Spec{
	Kind:            KindGCP,
	DisplayName:     "GCP",
	TagPrefix:       "gcp",
	TagDigits:       2,
	MaxDeclarations: 10,
	Required:        []string{GCPName, GCPImage, GCPZone, GCPImageProject},
}

// GCP builds gcloud CLI commands.
type GCP struct {
	cli string
}

// NewGCP creates the GCP provider using the given gcloud binary.
func NewGCP(cli string) *GCP {
	if cli == "" {
		cli = "gcloud"
	}
	return &GCP{cli: cli}
}

// Spec implements Provider.
func (g *GCP) Spec() Spec {
	return GCPSpec
}

// CheckFields implements Provider. GCP has no optional fields.
func (g *GCP) CheckFields(*vmconf.Declaration) error {
	return nil
}

// Prerequisites implements Provider.
func (g *GCP) Prerequisites(*vmconf.Declaration) []Prerequisite {
	return nil
}

// PortCommands implements Provider. Firewall rules are project-wide.
func (g *GCP) PortCommands(_ *vmconf.Declaration, port string, rule int) ([]shell.Command, error) {
	return []shell.Command{
		shell.New(g.cli, "compute", "firewall-rules", "create", naming.PortRule(rule),
			"--action=ALLOW",
			"--direction=INGRESS",
			"--rules=tcp:"+port),
	}, nil
}

// CreateCommand implements Provider. Only the four required fields are
// rendered.
func (g *GCP) CreateCommand(d *vmconf.Declaration) shell.Command {
	return shell.New(g.cli, "compute", "instances", "create", d.Value(GCPName),
		"--zone="+d.Value(GCPZone),
		"--image-project="+d.Value(GCPImageProject),
		"--image="+d.Value(GCPImage))
}

// Summarize implements Provider. gcloud already prints a table.
func (g *GCP) Summarize(*vmconf.Declaration, []byte) (*Summary, error) {
	return nil, nil
}
