// Package provisioning drives declarations from file to created VM.
//
// A Session owns one provider file: it validates tags while the file is
// read, fires port commands as soon as a port line appears, then for each
// declaration checks required fields, ensures prerequisites, checks field
// formats and hands the creation command to the Dispatcher. Run chains the
// sessions for all providers and feeds completed declarations to the audit
// recorder.
package provisioning
