package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opennergame/boxgame-server/internal/repository"
)

// Store implements repository.Ledger on PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// BeginTx starts a ledger transaction.
func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextBeginTx, err)
	}
	return &StoreTx{tx: tx}, nil
}

// MarketStore widens Store with listing persistence. Both views share the
// same pool; the split only exists to keep the two interfaces separate.
type MarketStore struct {
	*Store
}

// NewMarketStore creates a MarketStore over the same pool.
func NewMarketStore(db *pgxpool.Pool) *MarketStore {
	return &MarketStore{Store: NewStore(db)}
}

// BeginTx starts a market transaction.
func (s *MarketStore) BeginTx(ctx context.Context) (repository.MarketTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextBeginTx, err)
	}
	return &StoreTx{tx: tx}, nil
}

// StoreTx implements repository.MarketTx (and so repository.LedgerTx) over
// one open pgx transaction.
type StoreTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *StoreTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction; safe to defer after Commit.
func (t *StoreTx) Rollback(ctx context.Context) error {
	SafeRollback(ctx, t.tx)
	return nil
}
