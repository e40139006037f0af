// Package fault defines the error taxonomy shared by the provisioning pipeline.
//
// Every fatal condition is reported as an *Error carrying the Kind plus the
// file, tag and field it concerns, so the CLI can print a single line and
// pick an exit code without inspecting message text.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline error.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindMissingFile
	KindMalformedLine
	KindInvalidTagFormat
	KindMissingRequiredField
	KindInvalidFieldFormat
	KindProviderPrerequisite
	KindPortPrerequisiteMissing
	KindUserDeclined
	KindCommandExecutionFailure
)

var kindNames = map[Kind]string{
	KindUnknown:                 "unknown",
	KindMissingFile:             "missing file",
	KindMalformedLine:           "malformed line",
	KindInvalidTagFormat:        "invalid tag format",
	KindMissingRequiredField:    "missing required field",
	KindInvalidFieldFormat:      "invalid field format",
	KindProviderPrerequisite:    "provider prerequisite",
	KindPortPrerequisiteMissing: "port prerequisite missing",
	KindUserDeclined:            "declined",
	KindCommandExecutionFailure: "command execution failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified pipeline error.
type Error struct {
	Kind  Kind
	File  string // config file the error concerns
	Tag   string // declaration tag, if any
	Field string // field name, if any
	Line  int    // 1-based line number, if any
	Msg   string // human-readable detail
	Err   error  // underlying cause
}

// Error renders a single line naming the offending file, tag and field.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)

	var where []string
	if e.Field != "" {
		where = append(where, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Tag != "" {
		where = append(where, fmt.Sprintf("tag '%s'", e.Tag))
	}
	if e.File != "" {
		if e.Line > 0 {
			where = append(where, fmt.Sprintf("%s:%d", e.File, e.Line))
		} else {
			where = append(where, fmt.Sprintf("'%s'", e.File))
		}
	}
	if len(where) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(where, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var exitCodes = map[Kind]int{
	KindMissingFile:          2,
	KindMalformedLine:        3,
	KindInvalidTagFormat:     4,
	KindMissingRequiredField: 5,
	KindInvalidFieldFormat:   6,
	KindProviderPrerequisite: 7,
	KindUserDeclined:         8,
}

// ExitCode maps err to a process exit code. Nil maps to 0, unclassified
// errors to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[KindOf(err)]; ok {
		return code
	}
	return 1
}
