package database

import (
	"errors"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/lib/pq"
)

// classifyWriteError maps a driver error to the engine's error kinds. A
// Postgres-reported error (constraint, permission, bad value) is a store
// denial the caller must not retry; anything else is treated as transient
// I/O.
func classifyWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &engine.WriteRejectedError{Reason: pqErr.Message}
	}
	return &engine.TransientError{Op: op, Err: err}
}
