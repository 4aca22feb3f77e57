// Package tx defines the transaction management contract the domain
// layer depends on. The PostgreSQL implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction: rollback on
// error, commit on success. Nested calls reuse the transaction already
// carried by the context.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support
// for queries that must see a consistent view without taking locks.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
