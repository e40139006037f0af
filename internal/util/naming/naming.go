package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout formats the run timestamp embedded in artifact names.
const TimestampLayout = "2006-01-02-15-04-05"

// AzureInboundRule is the rule name created inside each port security group.
const AzureInboundRule = "Allow-Web-All"

// AzureInboundPriority is the priority of AzureInboundRule.
const AzureInboundPriority = "100"

// Timestamp renders t for artifact names.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// PortRule names the firewall resource for the n-th port of a file.
func PortRule(n int) string {
	return fmt.Sprintf("open-port%d", n)
}

// AuditFile names the audit record of a run.
func AuditFile(prefix, timestamp string) string {
	return fmt.Sprintf("%s_%s", prefix, timestamp)
}

// Archive names the archived copy of a config file: the base name without
// its extension, suffixed with the run timestamp.
func Archive(configFile, timestamp string) string {
	base := filepath.Base(configFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s", base, timestamp)
}
