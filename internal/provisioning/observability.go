package provisioning

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Logger is the minimal logging surface used across the pipeline.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress through a provider file
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Provider or step name (e.g., "Azure", "audit")
	Message   string            // Human-readable message
	Resource  string            // Tag or resource name if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventDeclarationRead indicates a provider file was read and its tags accepted.
	EventDeclarationRead EventType = "declaration.read"

	// EventPrerequisiteExists indicates a prerequisite resource already exists.
	EventPrerequisiteExists EventType = "prerequisite.exists"
	// EventPrerequisiteCreated indicates a missing prerequisite was created.
	EventPrerequisiteCreated EventType = "prerequisite.created"

	// EventCommandDispatched indicates a command was run.
	EventCommandDispatched EventType = "command.dispatched"
	// EventCommandFailed indicates a command exited non-zero or could not start.
	EventCommandFailed EventType = "command.failed"

	// EventValidationWarning indicates a non-fatal declaration problem.
	EventValidationWarning EventType = "validation.warning"

	// EventAuditWritten indicates the audit record and archives were written.
	EventAuditWritten EventType = "audit.written"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	logger        *log.Logger
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return NewLoggerObserver(log.Default())
}

// NewLoggerObserver creates an observer writing to logger.
func NewLoggerObserver(logger *log.Logger) *ConsoleObserver {
	return &ConsoleObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	o.logger.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	o.logger.Print(o.formatEvent(event))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	if total == 0 {
		o.logger.Printf("[%s] Progress: %d/%d", phase, current, total)
		return
	}
	percentage := (current * 100) / total
	o.logger.Printf("[%s] Progress: %d/%d (%d%%)", phase, current, total, percentage)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &ConsoleObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

// formatEvent formats an event for console output. Fields are sorted so
// lines are stable across runs.
func (o *ConsoleObserver) formatEvent(event Event) string {
	parts := []string{string(event.Type)}

	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// Helper functions for common events

// LogCommand logs a dispatched command.
func LogCommand(observer Observer, phase, kind, command string) {
	observer.Event(Event{
		Type:    EventCommandDispatched,
		Phase:   phase,
		Message: command,
		Fields: map[string]string{
			"kind": kind,
		},
	})
}

// LogCommandFailed logs a command that exited non-zero or could not start.
func LogCommandFailed(observer Observer, phase, kind, command, detail string) {
	observer.Event(Event{
		Type:    EventCommandFailed,
		Phase:   phase,
		Message: fmt.Sprintf("%s: %s", command, detail),
		Fields: map[string]string{
			"kind": kind,
		},
	})
}

// LogWarning logs a non-fatal declaration problem.
func LogWarning(observer Observer, phase, tag, message string) {
	observer.Event(Event{
		Type:     EventValidationWarning,
		Phase:    phase,
		Resource: tag,
		Message:  message,
	})
}

// LogPrerequisite logs the outcome of a create-if-absent step.
func LogPrerequisite(observer Observer, phase, resource string, created bool) {
	event := Event{
		Type:     EventPrerequisiteExists,
		Phase:    phase,
		Resource: resource,
		Message:  "already exists",
	}
	if created {
		event.Type = EventPrerequisiteCreated
		event.Message = "was missing and has been created"
	}
	observer.Event(event)
}
