// Package prerequisites checks that the provider CLIs a run shells out to
// are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/imamik/vmprov/internal/fault"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH, or a path to it.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// ProviderTools returns the CLIs a run invokes, named as configured.
func ProviderTools(azureCLI, gcloudCLI string) []Tool {
	return []Tool{
		{
			Name:        azureCLI,
			Required:    true,
			Description: "Creates Azure VMs, resource groups and network security groups",
			InstallURL:  "https://learn.microsoft.com/cli/azure/install-azure-cli",
		},
		{
			Name:        gcloudCLI,
			Required:    true,
			Description: "Creates Compute Engine instances and firewall rules",
			InstallURL:  "https://cloud.google.com/sdk/docs/install",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns a fault.KindProviderPrerequisite error if any required
// tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &fault.Error{
		Kind: fault.KindProviderPrerequisite,
		Msg:  "missing required tools: " + strings.Join(missing, ", "),
	}
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckProviders checks the configured provider CLIs.
func CheckProviders(azureCLI, gcloudCLI string) *CheckResults {
	return Check(ProviderTools(azureCLI, gcloudCLI))
}
