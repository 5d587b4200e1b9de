package idgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/idgen"
)

func TestSequenceNextValueExpr(t *testing.T) {
	s := idgen.NewSequence("users_id_seq", dialect.PostgresDialect{})
	assert.Equal(t, "nextval('users_id_seq')", s.NextValueExpr())

	_, ok := s.CurrentValue()
	assert.False(t, ok)

	s.Advance(42)
	v, ok := s.CurrentValue()
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestTableGeneratorStatements(t *testing.T) {
	tg := idgen.NewTable("users", "hibernate_sequences", "next_val", dialect.MySQLDialect{})
	assert.Equal(t, "UPDATE `hibernate_sequences` SET `next_val` = `next_val` + 1 WHERE name = 'users'", tg.UpdateStatement())
	assert.Equal(t, "(SELECT `next_val` FROM `hibernate_sequences` WHERE name = 'users')", tg.SelectExpr())
	assert.Equal(t, tg.SelectExpr(), tg.NextValueExpr())
}

func TestIdentityHasNoInsertExpression(t *testing.T) {
	id := idgen.NewIdentity()
	assert.Equal(t, "", id.NextValueExpr())

	_, ok := id.CurrentValue()
	assert.False(t, ok)
	id.Advance(7)
	v, ok := id.CurrentValue()
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestAssignedUUIDDefaultFunc(t *testing.T) {
	a := idgen.NewAssignedUUID()
	assert.NotNil(t, a.DefaultFunc)
	v := a.DefaultFunc()
	assert.Len(t, v.(interface{ String() string }).String(), 36)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "sequence", idgen.KindSequence.String())
	assert.Equal(t, "table", idgen.KindTable.String())
	assert.Equal(t, "identity", idgen.KindIdentity.String())
	assert.Equal(t, "assigned", idgen.KindAssigned.String())
}
