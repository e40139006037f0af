// Package vmconf reads provider declaration files.
//
// A declaration file is INI-like: a `[tag]` header opens a declaration and
// the `key=value` lines that follow populate it. The reader keeps two views
// of each declaration: the allow-listed fields used to build commands, in
// the order they were declared, and every raw line for the audit record.
package vmconf

import "context"

// Field is a single key/value pair of a declaration.
type Field struct {
	Key   string
	Value string
}

// Declaration is one `[tag]` section of a provider file.
type Declaration struct {
	Tag     string
	Ordinal int // 1-based position of the header within the file
	Line    int // line number of the header

	// Fields holds allow-listed keys in declaration order.
	Fields []Field

	// RawLines holds every non-header line of the section, trimmed.
	RawLines []string
}

// Get returns the value stored for key.
func (d *Declaration) Get(key string) (string, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether key was captured.
func (d *Declaration) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Value returns the value for key or the empty string.
func (d *Declaration) Value(key string) string {
	v, _ := d.Get(key)
	return v
}

// Set stores value under key. A key seen before keeps its original position.
func (d *Declaration) Set(key, value string) {
	for i := range d.Fields {
		if d.Fields[i].Key == key {
			d.Fields[i].Value = value
			return
		}
	}
	d.Fields = append(d.Fields, Field{Key: key, Value: value})
}

// AllowList is the set of keys retained in Declaration.Fields.
type AllowList map[string]bool

// NewAllowList builds an AllowList from keys.
func NewAllowList(keys ...string) AllowList {
	a := make(AllowList, len(keys))
	for _, k := range keys {
		a[k] = true
	}
	return a
}

// Handler observes a file while it is being scanned.
//
// Header runs as soon as a header line is read, before the declaration's
// fields. Field runs for every key/value line after the key has been
// recorded on d. A non-nil error from either aborts the read.
type Handler interface {
	Header(ctx context.Context, tag string, ordinal int) error
	Field(ctx context.Context, d *Declaration, key, value string) error
}

// NopHandler accepts everything.
type NopHandler struct{}

// Header implements Handler.
func (NopHandler) Header(context.Context, string, int) error { return nil }

// Field implements Handler.
func (NopHandler) Field(context.Context, *Declaration, string, string) error { return nil }
