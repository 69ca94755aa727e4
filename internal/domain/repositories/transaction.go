package repositories

import "context"

// TxFn runs within a transaction. Returning an error rolls everything back.
type TxFn func(ctx context.Context) error

// TransactionManager brackets a function in a single atomic transaction.
// Bulk saves depend on this: a failed save must leave the prior tree intact.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
