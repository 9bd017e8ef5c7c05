package repository

import (
	"context"
	"fmt"

	"hotel-pms/pkg/database"

	"go.uber.org/zap"
)

type pgxTxRunner struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTxRunner) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return translateError(fmt.Errorf("begin transaction: %w", err))
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	txRepo := newRepositories(tx, t.log)
	txRepo.Tx = Joined{Repo: txRepo}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return translateError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
