// Package repokit holds the seams repos are written against so they never import a driver
package repokit

import "mixtape/internal/platform/store"

type (
	// Queryer is the read and write surface a bound repo runs on, a pool or a tx
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner

	// Rows is a result set
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag reports what a write touched
	CommandTag = store.CommandTag
)
