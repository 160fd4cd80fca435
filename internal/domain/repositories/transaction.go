package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a database transaction.
// Used by the workspace hard-delete cascade so files, folders, collaborator
// rows and the workspace row go away atomically.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
