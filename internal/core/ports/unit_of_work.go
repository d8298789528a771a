package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command execution.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes the order writes of one command to a single transaction.
// Without Begin the repository reads straight from the pool; the fulfillment
// pipeline commits one short transaction per completed step.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit and Rollback fail when no transaction is open.
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
}
