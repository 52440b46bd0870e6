package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes a function within a read-write transaction
	ExecTx(ctx context.Context, fn TxFn) error

	// ExecReadOnlyTx executes a function within a transaction that rejects writes
	ExecReadOnlyTx(ctx context.Context, fn TxFn) error
}
