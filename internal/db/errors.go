package db

import "errors"

// ErrKeyNotFound is returned by KV reads of a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the failed command for error context. Redis ops use command names,
// SQL ops use the statement verb.
const (
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpScan    = "SCAN"
	OpGet     = "GET"
	OpSet     = "SET"

	OpPing   = "PING"
	OpSelect = "SELECT"
	OpInsert = "INSERT"
	OpCreate = "CREATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
