// Package config resolves the run settings and the operator identity.
//
// Settings are layered: built-in defaults, then an optional YAML file
// (vmprov.yaml in the work directory, or the file given with --settings),
// then VMPROV_* environment variables, then the --dir flag.
package config
