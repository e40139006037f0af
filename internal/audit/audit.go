// Package audit writes the record of a completed run and archives the
// config files it was driven by.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imamik/vmprov/internal/util/naming"
	"github.com/imamik/vmprov/internal/vmconf"
)

// DefaultPrefix names the audit record when no prefix is configured.
const DefaultPrefix = "VMcreation"

// Entry is one declaration as it appeared in its file.
type Entry struct {
	Tag      string
	RawLines []string
}

// Recorder collects declarations during a run and writes them out once at
// the end. It is not safe for concurrent use.
type Recorder struct {
	operator string
	entries  []Entry
}

// NewRecorder creates a Recorder attributing the run to operator.
func NewRecorder(operator string) *Recorder {
	return &Recorder{operator: operator}
}

// Add appends a declaration. Entries keep the order they were added in.
func (r *Recorder) Add(tag string, rawLines []string) {
	lines := make([]string, len(rawLines))
	copy(lines, rawLines)
	r.entries = append(r.entries, Entry{Tag: tag, RawLines: lines})
}

// Entries returns the collected declarations.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Result lists the files a flush produced.
type Result struct {
	Timestamp string
	Record    string
	Archives  []string
}

// Render returns the record body for timestamp ts. Only the value half of
// each raw line is kept.
func (r *Recorder) Render(ts string) string {
	var b strings.Builder
	b.WriteString(ts)
	b.WriteString("\n")
	b.WriteString(r.operator)
	for _, e := range r.entries {
		b.WriteString("\n[")
		b.WriteString(e.Tag)
		b.WriteString("]")
		for _, line := range e.RawLines {
			b.WriteString("\n")
			b.WriteString(vmconf.Value(line))
		}
	}
	return b.String()
}

// Flush writes the record into dir as <prefix>_<ts> and copies each of
// files next to it as <base>_<ts>. The originals are left in place.
func (r *Recorder) Flush(dir, prefix string, files []string, now time.Time) (*Result, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	ts := naming.Timestamp(now)
	res := &Result{Timestamp: ts}

	res.Record = filepath.Join(dir, naming.AuditFile(prefix, ts))
	if err := os.WriteFile(res.Record, []byte(r.Render(ts)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	for _, file := range files {
		dst := filepath.Join(dir, naming.Archive(file, ts))
		if err := copyFile(file, dst); err != nil {
			return nil, fmt.Errorf("failed to archive %s: %w", file, err)
		}
		res.Archives = append(res.Archives, dst)
	}
	return res, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
