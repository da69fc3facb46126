package ch

import (
	"os"
	"runtime"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"mixtape/internal/core/version"
)

// BuildClientInfo names this binary in system.query_log
// so telemetry inserts can be traced back to a role and commit
func BuildClientInfo(role string) clickhouse.ClientInfo {
	b := version.Info()
	host, _ := os.Hostname()

	ci := clickhouse.ClientInfo{}
	add := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			ci.Products = append(ci.Products, struct{ Name, Version string }{name, v})
		}
	}
	add("mixtape", b.Version)
	add("role", role)
	add("commit", b.Commit)
	add("go", runtime.Version())
	add("host", host)
	return ci
}
