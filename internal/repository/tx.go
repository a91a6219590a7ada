package repository

import "context"

// Tx is the common surface of a database transaction. Callers must always
// Commit or Rollback; Rollback after Commit is a no-op.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
