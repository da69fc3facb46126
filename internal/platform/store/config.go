package store

import "time"

// Config selects and tunes the backends Open brings up
type Config struct {
	// AppName is reported to clickhouse as the client role
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// zero picks the pg package defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse
type CHConfig struct {
	Enabled     bool
	URL         string
	DialTimeout time.Duration
}
