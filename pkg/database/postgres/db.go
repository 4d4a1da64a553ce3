package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrAlreadyInTx = errors.New("already executing in existing db tx")
	ErrNotInTx     = errors.New("not executing in existing db tx")
)

type ctxTxKey struct{}

// scopedTx is the transaction carried through a context by ExecuteTxWithinCtx.
type scopedTx struct {
	tx        *sqlx.Tx
	isolation sql.IsolationLevel
}

// ExecuteTxWithinCtx opens a transaction, passes it to fn through the context
// and commits when fn succeeds. Store calls made with that context through
// ExecuteInTx join the same transaction.
func ExecuteTxWithinCtx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(context.Context) error) error {
	if ctx.Value(ctxTxKey{}) != nil {
		return ErrAlreadyInTx
	}

	isolation = withPostgresDefault(isolation)
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}

	scoped := context.WithValue(ctx, ctxTxKey{}, &scopedTx{tx: tx, isolation: isolation})
	return finish(tx, fn(scoped))
}

// ExecuteInTx runs fn against the transaction in ctx if there is one, or in a
// new transaction otherwise. Only a transaction started here is committed or
// rolled back here.
func ExecuteInTx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	isolation = withPostgresDefault(isolation)

	existing, err := txFromCtx(ctx, isolation)
	switch {
	case err == nil:
		return fn(existing)
	case !errors.Is(err, ErrNotInTx):
		return err
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return err
	}
	return finish(tx, fn(tx))
}

// finish commits tx, or rolls it back when fnErr is set. The rollback always
// runs so the connection goes back to the pool.
func finish(tx *sqlx.Tx, fnErr error) error {
	if fnErr == nil {
		return tx.Commit()
	}
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return fnErr
}

func withPostgresDefault(isolation sql.IsolationLevel) sql.IsolationLevel {
	if isolation == sql.LevelDefault {
		return sql.LevelReadCommitted
	}
	return isolation
}

func txFromCtx(ctx context.Context, required sql.IsolationLevel) (*sqlx.Tx, error) {
	val := ctx.Value(ctxTxKey{})
	if val == nil {
		return nil, ErrNotInTx
	}

	scoped, ok := val.(*scopedTx)
	if !ok {
		return nil, errors.New("invalid type for scoped tx")
	}
	if scoped.isolation < required {
		return nil, fmt.Errorf("scoped tx isolation %s is weaker than %s", scoped.isolation, required)
	}
	return scoped.tx, nil
}
