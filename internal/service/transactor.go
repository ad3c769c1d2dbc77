// internal/service/transactor.go
package service

import (
	"context"
	"fmt"

	"chads-social/internal/repository"
	"chads-social/pkg/db"
)

// Transactor runs a unit of work inside one database transaction. The begin,
// commit and rollback steps are injected so tests can substitute a mock
// controller.
type Transactor struct {
	dbBeginner db.DBTxBeginner
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewTransactor creates a Transactor.
func NewTransactor(dbBeginner db.DBTxBeginner, beginTx db.BeginTxFunc, commitTx db.CommitTxFunc, rollbackTx db.RollbackTxFunc) *Transactor {
	return &Transactor{
		dbBeginner: dbBeginner,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// WithinTx begins a transaction, hands its executor to fn and commits if fn
// succeeds. Any error returned by fn leaves the deferred rollback to undo the
// work. op prefixes the errors produced here.
func (t *Transactor) WithinTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := t.beginTx(ctx, t.dbBeginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer t.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := t.commitTx(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}
