package pgsql

import (
	"context"

	"github.com/exchangehouse/exchange_house_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// txKey is the context key an enclosing transaction travels under.
type txKey struct{}

// WithTx returns a context carrying tx so nested repository calls join it
// instead of opening a second transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// runInTx executes fn inside a transaction. If the context already carries one
// it is joined and commit/rollback stays with the outermost caller; otherwise a
// new transaction is opened and committed on success.
func (r *BaseRepository) runInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if tx, ok := txFromContext(ctx); ok {
		return fn(tx)
	}

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Rollback after a successful commit returns ErrTxClosed, which is ignored.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
