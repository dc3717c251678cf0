package repository

import "errors"

// ErrDatabaseUnavailable is returned by every repository when no connection
// pool is configured. The process runs without a pool when POSTGRES_DSN is
// unset; read paths treat this as an empty data set, not a failure.
var ErrDatabaseUnavailable = errors.New("database not configured")
