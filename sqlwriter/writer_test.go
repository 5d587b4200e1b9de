package sqlwriter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/sqlwriter"
)

func TestTextWriter(t *testing.T) {
	var buf strings.Builder
	w := sqlwriter.NewTextWriter(dialect.PostgresDialect{}, &buf)

	require.NoError(t, w.WriteComment("header"))
	require.NoError(t, w.WriteStatement(context.Background(), `INSERT INTO "users"("name") VALUES ('alice')`))
	require.NoError(t, w.WriteSectionSeparator("orders"))
	require.NoError(t, w.WriteAlignmentStatements(context.Background(), []string{"SELECT setval('users_id_seq', 1)"}))

	out := buf.String()
	assert.Contains(t, out, "-- header")
	assert.Contains(t, out, `INSERT INTO "users"("name") VALUES ('alice');`)
	assert.Contains(t, out, "-- orders")
	assert.Contains(t, out, "setval('users_id_seq', 1);")
}

func TestTextWriterAbort(t *testing.T) {
	var buf strings.Builder
	w := sqlwriter.NewTextWriter(dialect.PostgresDialect{}, &buf)
	require.NoError(t, w.WriteAbort(context.Background(), "stack trace here"))
	assert.Contains(t, buf.String(), sqlwriter.AbortMarker)
	assert.Contains(t, buf.String(), "stack trace here")
}

func TestConnWriterExecutesAndStops(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(1, 1))

	w := sqlwriter.NewConnWriter(db)
	require.NoError(t, w.WriteStatement(context.Background(), "INSERT INTO users(name) VALUES ('alice')"))
	assert.Equal(t, []string{"INSERT INTO users(name) VALUES ('alice')"}, w.Executed())

	require.NoError(t, w.WriteAbort(context.Background(), "boom"))
	err = w.WriteStatement(context.Background(), "INSERT INTO users(name) VALUES ('bob')")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
