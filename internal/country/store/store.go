// Package store persists canonical country records.
package store

import (
	"countryapi/pkg/platform/sentinel"
)

// ErrNotFound is returned when a name lookup or delete matches no row.
var ErrNotFound = sentinel.ErrNotFound

// columns per upserted row; Postgres caps a statement at 65535 bind parameters.
const (
	upsertColumns = 8
	maxUpsertRows = 65535 / upsertColumns
)
