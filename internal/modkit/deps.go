package modkit

import (
	"mixtape/internal/modkit/repokit"
	"mixtape/internal/platform/config"
	"mixtape/internal/platform/logger"
	"mixtape/internal/platform/store"
)

// Deps are the shared handles a module is built from
// CH is nil when clickhouse is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
