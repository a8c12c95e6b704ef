package db

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type txKey struct{}

// txState is the transaction carried by a context plus the callbacks queued
// to run once it commits.
type txState struct {
	tx *gorm.DB

	mu          sync.Mutex
	afterCommit []func(context.Context)
}

// TxManager runs functions inside a gorm transaction carried by the context.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn in a transaction. Repositories obtain the transaction
// through Conn. A nested call joins the outer transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	state := &txState{}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}

	// コミット後のみ実行する
	state.mu.Lock()
	hooks := state.afterCommit
	state.afterCommit = nil
	state.mu.Unlock()
	for _, h := range hooks {
		h(ctx)
	}
	return nil
}

// AfterCommit runs fn once the transaction in ctx commits, or immediately
// when ctx carries no transaction. fn is dropped on rollback.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		fn(ctx)
		return
	}
	state.mu.Lock()
	state.afterCommit = append(state.afterCommit, fn)
	state.mu.Unlock()
}

// Conn returns the transaction stored in ctx, or fallback bound to ctx.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}
