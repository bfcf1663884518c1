package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// withTx runs fn inside a transaction, rolling back on any error.
func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

// conditions accumulates WHERE clauses with positional arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, value interface{}) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) raw(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// versionedUpdate executes a named UPDATE guarded by the row version and reports a
// conflict when nothing matched.
func versionedUpdate(ctx context.Context, tx *sqlx.Tx, query string, arg interface{}) error {
	res, err := tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}
