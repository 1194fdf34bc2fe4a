package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

const txCtxKey ctxKey = "tx"

// TxManager runs a function inside a single database transaction. The
// transaction handle travels through the context so repositories picked up
// inside fn share it transparently.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txCtxKey, tx))
	})
}

// dbFrom returns the transaction from ctx when inside RunInTx, the root
// handle otherwise.
func dbFrom(ctx context.Context, root *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return root.WithContext(ctx)
}
