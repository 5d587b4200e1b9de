package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/registry"
)

func TestTableIdentityIsCanonical(t *testing.T) {
	r := registry.New(dialect.PostgresDialect{})
	a := r.Table("Users")
	b := r.Table("users")
	assert.Same(t, a, b, "case-insensitive dialect must fold identifiers")
}

func TestCaseSensitiveDialectDoesNotFold(t *testing.T) {
	r := registry.New(dialect.SQLiteDialect{})
	a := r.Table("Users")
	b := r.Table("users")
	assert.NotSame(t, a, b)
}

func TestColumnIdentityAndOrder(t *testing.T) {
	r := registry.New(dialect.PostgresDialect{})
	tbl := r.Table("users")
	c1 := tbl.Column("name")
	c2 := tbl.Column("NAME")
	assert.Same(t, c1, c2)

	tbl.Column("email")
	names := make([]string, 0)
	for _, c := range tbl.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"name", "email"}, names)
}

func TestColumnFoldMatchesTableFoldPerDialect(t *testing.T) {
	r := registry.New(dialect.SQLiteDialect{})
	tbl := r.Table("users")
	c1 := tbl.Column("name")
	c2 := tbl.Column("NAME")
	assert.NotSame(t, c1, c2, "a case-sensitive dialect must not fold column identifiers either")
}

func TestDefaultTableName(t *testing.T) {
	assert.Equal(t, "people", registry.DefaultTableName("Person"))
	assert.Equal(t, "order_items", registry.DefaultTableName("OrderItem"))
}

func TestDefaultColumnName(t *testing.T) {
	assert.Equal(t, "country_id", registry.DefaultColumnName("CountryID"))
}
