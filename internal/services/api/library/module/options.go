package module

import (
	"mixtape/internal/platform/config"
	svc "mixtape/internal/services/api/library/service"
	"mixtape/internal/services/querylog"
)

// Options controls the library engine and its telemetry sink
type Options struct {
	Service  svc.Config
	LogTable string // clickhouse table for query telemetry
}

// FromConfig reads LIBRARY_* for the engine and SERVICE_CLICKHOUSE_TABLE for telemetry
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LIBRARY_")
	d := svc.DefaultConfig()
	return Options{
		Service: svc.Config{
			DefaultLimit:   c.MayInt("DEFAULT_LIMIT", d.DefaultLimit),
			MaxLimit:       c.MayInt("MAX_LIMIT", d.MaxLimit),
			LookupChunk:    c.MayInt("LOOKUP_CHUNK", d.LookupChunk),
			TotalThreshold: c.MayInt("TOTAL_THRESHOLD", d.TotalThreshold),
			Timeout:        c.MayDuration("TIMEOUT", d.Timeout),
			StrictCursors:  c.MayBool("STRICT_CURSOR", false),
		},
		LogTable: cfg.Prefix("SERVICE_CLICKHOUSE_").MayString("TABLE", querylog.DefaultTable),
	}
}

