package sqlwriter

import (
	"context"
	"database/sql"
	"fmt"
)

// ConnWriter executes statements against a live *sql.Tx/*sql.DB instead of
// rendering them to text. Comments and section separators are no-ops, since
// a live connection has nothing to print them to; WriteAbort records
// nothing and only makes the writer refuse further statements.
type ConnWriter struct {
	execer  interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	}
	aborted bool
	log     []string // statements executed, retained for diagnostics/tests
}

// NewConnWriter wraps any ExecContext-capable handle: *sql.DB or *sql.Tx.
func NewConnWriter(execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}) *ConnWriter {
	return &ConnWriter{execer: execer}
}

var _ Writer = (*ConnWriter)(nil)

func (c *ConnWriter) WriteStatement(ctx context.Context, stmt string) error {
	if c.aborted {
		return fmt.Errorf("sqlwriter: writer aborted, refusing further statements")
	}
	if _, err := c.execer.ExecContext(ctx, stmt); err != nil {
		return err
	}
	c.log = append(c.log, stmt)
	return nil
}

func (c *ConnWriter) WriteComment(string) error { return nil }

func (c *ConnWriter) WriteSectionSeparator(string) error { return nil }

func (c *ConnWriter) WriteAlignmentStatements(ctx context.Context, stmts []string) error {
	for _, s := range stmts {
		if err := c.WriteStatement(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConnWriter) WriteAbort(context.Context, string) error {
	c.aborted = true
	return nil
}

func (c *ConnWriter) Close() error { return nil }

// Executed returns the statements successfully executed so far, in order.
// Exposed for tests asserting on emission order (Testable Property 3).
func (c *ConnWriter) Executed() []string { return append([]string(nil), c.log...) }
