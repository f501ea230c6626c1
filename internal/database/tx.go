package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// inTransaction runs f inside a transaction on conn. The transaction
// is committed only when f returns nil; every other exit path rolls
// back.
func inTransaction(ctx context.Context, conn *sql.Conn, f func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(rbErr, "could not rollback transaction after error: %s", err)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "could not commit transaction")
	}

	return nil
}
