package vmconf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/imamik/vmprov/internal/fault"
)

const maxLineSize = 1024 * 1024

// ReadFile opens path and reads its declarations.
// A missing file is reported as a fault.KindMissingFile error.
func ReadFile(ctx context.Context, path string, allow AllowList, h Handler) ([]*Declaration, error) {
	// #nosec G304 - path comes from the operator's settings
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fault.Error{Kind: fault.KindMissingFile, Msg: "config file does not exist", File: path}
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(ctx, f, path, allow, h)
}

// Read scans r and returns its declarations in file order.
// file is only used in error messages.
func Read(ctx context.Context, r io.Reader, file string, allow AllowList, h Handler) ([]*Declaration, error) {
	if h == nil {
		h = NopHandler{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		decls   []*Declaration
		current *Declaration
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if tag, ok := parseHeader(line); ok {
			ordinal := len(decls) + 1
			if err := h.Header(ctx, tag, ordinal); err != nil {
				return nil, err
			}
			current = &Declaration{Tag: tag, Ordinal: ordinal, Line: lineNo}
			decls = append(decls, current)
			continue
		}

		if strings.HasPrefix(line, "[") {
			return nil, malformed(file, lineNo, line, "invalid section header")
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, malformed(file, lineNo, line, "expected key=value")
		}
		if current == nil {
			return nil, malformed(file, lineNo, line, "line outside of any [tag] section")
		}

		current.RawLines = append(current.RawLines, line)
		if allow[key] {
			current.Set(key, value)
		}
		if err := h.Field(ctx, current, key, value); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	return decls, nil
}

// parseHeader recognizes `[tag]` with a non-empty tag.
func parseHeader(line string) (string, bool) {
	if len(line) < 3 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	tag := line[1 : len(line)-1]
	if strings.ContainsAny(tag, "[]") {
		return "", false
	}
	return tag, true
}

// splitKeyValue splits on the first '=' and trims both sides.
func splitKeyValue(line string) (string, string, bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// Value returns the value half of a raw `key=value` line.
func Value(rawLine string) string {
	_, value, found := strings.Cut(rawLine, "=")
	if !found {
		return strings.TrimSpace(rawLine)
	}
	return strings.TrimSpace(value)
}

func malformed(file string, lineNo int, line, msg string) error {
	return &fault.Error{
		Kind: fault.KindMalformedLine,
		Msg:  fmt.Sprintf("%s: %q", msg, line),
		File: file,
		Line: lineNo,
	}
}
