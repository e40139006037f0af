// Package naming provides consistent names for provisioned resources and
// for the files a run leaves behind.
//
// Firewall resources are named open-port{n} where n is the per-file rule
// counter; since tags are capped at ten per provider the names stay unique
// within a run. Run artifacts are suffixed with the run timestamp.
package naming
