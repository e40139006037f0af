package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imamik/vmprov/internal/config"
	"github.com/imamik/vmprov/internal/util/prerequisites"
)

// DoctorStatus is what doctor found about the local setup.
type DoctorStatus struct {
	WorkDir string       `json:"workDir"`
	Tools   []ToolStatus `json:"tools"`
	Files   []FileStatus `json:"files"`
}

// ToolStatus reports one provider CLI.
type ToolStatus struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// FileStatus reports one provider file.
type FileStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Ready reports whether apply could start.
func (s *DoctorStatus) Ready() bool {
	for _, t := range s.Tools {
		if !t.Found {
			return false
		}
	}
	for _, f := range s.Files {
		if !f.Exists {
			return false
		}
	}
	return true
}

// DoctorOptions are the flags of the doctor command.
type DoctorOptions struct {
	SettingsPath string
	WorkDir      string
	JSON         bool
}

// Doctor checks that the provider CLIs are installed and both provider
// files are present. It returns the prerequisite error when a CLI is missing.
func Doctor(opts DoctorOptions) error {
	settings, err := loadSettings(opts.SettingsPath, opts.WorkDir)
	if err != nil {
		return err
	}

	results := checkProviderPrereqs(settings.AzureCLI, settings.GCloudCLI)
	status := buildDoctorStatus(settings, results)

	if opts.JSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(output, string(data))
	} else {
		printDoctor(output, status)
	}

	return results.Error()
}

func buildDoctorStatus(s *config.Settings, results *prerequisites.CheckResults) *DoctorStatus {
	status := &DoctorStatus{WorkDir: s.WorkDir}
	for _, r := range results.Results {
		status.Tools = append(status.Tools, ToolStatus{Name: r.Tool.Name, Found: r.Found, Path: r.Path})
	}
	for _, p := range []string{s.AzurePath(), s.GCPPath()} {
		_, err := os.Stat(p)
		status.Files = append(status.Files, FileStatus{Path: p, Exists: err == nil})
	}
	return status
}

func printDoctor(w io.Writer, status *DoctorStatus) {
	title := fmt.Sprintf("vmprov setup: %s", status.WorkDir)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, "  "+strings.Repeat("═", len(title)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Tools")
	fmt.Fprintln(w, "  "+strings.Repeat("─", 35))
	for _, t := range status.Tools {
		extra := t.Path
		if !t.Found {
			extra = "not found in PATH"
		}
		printRow(w, t.Name, t.Found, extra)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Files")
	fmt.Fprintln(w, "  "+strings.Repeat("─", 35))
	for _, f := range status.Files {
		extra := ""
		if !f.Exists {
			extra = "missing"
		}
		printRow(w, f.Path, f.Exists, extra)
	}
	fmt.Fprintln(w)
}

func printRow(w io.Writer, name string, ok bool, extra string) {
	indicator := "✅" // green check
	if !ok {
		indicator = "❌" // red X
	}

	if extra != "" {
		fmt.Fprintf(w, "  %s  %-20s %s\n", indicator, name, extra)
	} else {
		fmt.Fprintf(w, "  %s  %s\n", indicator, name)
	}
}
