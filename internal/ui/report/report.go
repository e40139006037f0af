// Package report renders provisioning results on the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/vmprov/internal/provider"
)

// rowFormat matches the column layout gcloud prints, so both providers'
// results line up.
const rowFormat = "%-15s %-30s %-20s %-15s %-15s %-10s"

// Header is the column header of the VM table.
var Header = []string{"NAME", "LOCATION", "RESOURCE_GROUP", "PRIVATE_IP", "PUBLIC_IP", "STATUS"}

var (
	colorBlue = lipgloss.Color("#3b82f6")
	colorDim  = lipgloss.Color("#6b7280")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Renderer writes results to a terminal or a plain stream.
type Renderer struct {
	out    io.Writer
	styled bool
}

// NewRenderer creates a Renderer. styled enables ANSI styling and should
// only be set when out is a terminal.
func NewRenderer(out io.Writer, styled bool) *Renderer {
	return &Renderer{out: out, styled: styled}
}

// Table renders a VM summary as a fixed-width table.
func (r *Renderer) Table(s *provider.Summary) {
	header := formatRow(Header...)
	if r.styled {
		header = headerStyle.Render(header)
	}
	fmt.Fprintln(r.out, header)
	fmt.Fprintln(r.out, formatRow(s.Name, s.Location, s.ResourceGroup, s.PrivateIP, s.PublicIP, s.Status))
	fmt.Fprintln(r.out)
}

// Raw writes command output as-is.
func (r *Renderer) Raw(output []byte) {
	text := string(output)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(r.out, text)
	fmt.Fprintln(r.out)
}

// Planned writes a command that would run in a dry run.
func (r *Renderer) Planned(kind, command string) {
	line := fmt.Sprintf("  %-13s %s", kind, command)
	if r.styled {
		line = commandStyle.Render(fmt.Sprintf("  %-13s ", kind)) + command
	}
	fmt.Fprintln(r.out, line)
}

// Section writes a heading line.
func (r *Renderer) Section(title string) {
	if r.styled {
		title = headerStyle.Render(title)
	}
	fmt.Fprintln(r.out, title)
}

func formatRow(cols ...string) string {
	args := make([]any, 6)
	for i := range args {
		if i < len(cols) {
			args[i] = cols[i]
		} else {
			args[i] = ""
		}
	}
	return fmt.Sprintf(rowFormat, args...)
}
