// Package provider holds everything that differs between the supported
// clouds: required fields, tag pattern, field checks, command shapes and
// result parsing.
//
// The pipeline in internal/provisioning only talks to the Provider
// interface; the two implementations are Azure (az CLI) and GCP (gcloud CLI).
package provider

import (
	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/vmconf"
)

// Kind identifies a provider.
type Kind string

// Supported providers, in processing order.
const (
	KindAzure Kind = "azure"
	KindGCP   Kind = "gcp"
)

// Spec is the static description of a provider.
type Spec struct {
	Kind        Kind
	DisplayName string

	// TagPrefix and TagDigits define the header pattern: prefix followed by
	// a zero-padded ordinal, e.g. azure01.
	TagPrefix string
	TagDigits int

	// MaxDeclarations caps the number of declarations per file.
	MaxDeclarations int

	// Required keys must be present on every declaration. Optional keys are
	// retained for commands and checks but may be omitted.
	Required []string
	Optional []string
}

// TagLength returns the exact length of a valid tag.
func (s Spec) TagLength() int {
	return len(s.TagPrefix) + s.TagDigits
}

// AllowList returns the keys the config reader keeps in Declaration.Fields.
func (s Spec) AllowList() vmconf.AllowList {
	keys := make([]string, 0, len(s.Required)+len(s.Optional))
	keys = append(keys, s.Required...)
	keys = append(keys, s.Optional...)
	return vmconf.NewAllowList(keys...)
}

// Summary is the normalized view of a created VM.
type Summary struct {
	Name          string
	Location      string
	ResourceGroup string
	PrivateIP     string
	PublicIP      string
	Status        string
}

// Prerequisite is a provider resource a declaration depends on, created
// when absent.
type Prerequisite struct {
	// Resource describes the resource for logs, e.g. "resource group rg1".
	Resource string

	// Check queries for the resource; Exists interprets its output.
	Check  shell.Command
	Exists func(output []byte) (bool, error)

	// Create makes the resource.
	Create shell.Command
}

// Provider is a supported cloud.
type Provider interface {
	// Spec returns the provider's static description.
	Spec() Spec

	// CheckFields validates the format of optional fields. It is pure and
	// returns a *fault.Error on the first violation.
	CheckFields(d *vmconf.Declaration) error

	// Prerequisites lists the resources that must exist before the
	// declaration's VM can be created.
	Prerequisites(d *vmconf.Declaration) []Prerequisite

	// PortCommands builds the commands opening port for a declaration, using
	// rule as the per-file rule ordinal.
	PortCommands(d *vmconf.Declaration, port string, rule int) ([]shell.Command, error)

	// CreateCommand builds the VM creation command.
	CreateCommand(d *vmconf.Declaration) shell.Command

	// Summarize parses the creation command's output. A nil Summary means
	// the output is shown as-is.
	Summarize(d *vmconf.Declaration, output []byte) (*Summary, error)
}

// Options configures provider construction.
type Options struct {
	AzureCLI  string
	GCloudCLI string
}

// Defaults returns the CLI names found on a standard install.
func Defaults() Options {
	return Options{AzureCLI: "az", GCloudCLI: "gcloud"}
}

// All returns the supported providers in processing order.
func All(opts Options) []Provider {
	return []Provider{NewAzure(opts.AzureCLI), NewGCP(opts.GCloudCLI)}
}
