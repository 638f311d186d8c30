package repository

import (
	"context"
	"errors"
	"fmt"

	"sound-byte/internal/domain"
	"sound-byte/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type txKey struct{}

func txFrom(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

// GetExecutor returns the transaction carried by ctx, or db when there is none.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db
}

type sqlxTransactionManager struct {
	db *sqlx.DB
}

// NewTransactionManagerAdapter returns a domain.TransactionManager on db.
// Nested WithTransaction calls join the outermost transaction.
func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &sqlxTransactionManager{db: db}
}

func (m *sqlxTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Get().Error("Transaction rollback failed", zap.Error(rbErr))
			if p == nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		committed = true
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
