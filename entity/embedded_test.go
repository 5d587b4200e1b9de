package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/registry"
)

type embeddedAddress struct {
	Street string
	City   string
}

type embeddedCustomer struct {
	ID      int64
	Address *embeddedAddress
}

func newEmbeddedProp(tbl *registry.Table) *Embedded {
	return NewEmbedded("address", false, []Property{
		NewPrimitive(fieldDesc("street"), tbl.Column("street")),
		NewPrimitive(fieldDesc("city"), tbl.Column("city")),
	})
}

func TestEmbeddedAddsSubPropertyColumns(t *testing.T) {
	d := dialect.PostgresDialect{}
	reg := registry.New(d)
	tbl := reg.Table("customers")
	emb := newEmbeddedProp(tbl)

	customer := &embeddedCustomer{ID: 1, Address: &embeddedAddress{Street: "Rue Lafayette", City: "Paris"}}
	ic := &InsertContext{Dialect: d, Entity: customer}
	var cols, vals []string
	require.NoError(t, emb.AddInsertExpression(ic, &cols, &vals))
	require.Equal(t, []string{`"street"`, `"city"`}, cols)
	require.Equal(t, []string{"'Rue Lafayette'", "'Paris'"}, vals)
}

func TestEmbeddedNilOptionalSkipsColumns(t *testing.T) {
	d := dialect.PostgresDialect{}
	reg := registry.New(d)
	tbl := reg.Table("customers")
	emb := newEmbeddedProp(tbl)

	customer := &embeddedCustomer{ID: 2}
	ic := &InsertContext{Dialect: d, Entity: customer}
	var cols, vals []string
	require.NoError(t, emb.AddInsertExpression(ic, &cols, &vals))
	require.Empty(t, cols)
	require.Empty(t, vals)
}

func TestEmbeddedRequiredNilIsError(t *testing.T) {
	d := dialect.PostgresDialect{}
	reg := registry.New(d)
	tbl := reg.Table("customers")
	emb := NewEmbedded("address", true, []Property{
		NewPrimitive(fieldDesc("street"), tbl.Column("street")),
	})

	customer := &embeddedCustomer{ID: 3}
	ic := &InsertContext{Dialect: d, Entity: customer}
	var cols, vals []string
	err := emb.AddInsertExpression(ic, &cols, &vals)
	require.Error(t, err)
}

func TestEmbeddedFindReferencedEntitiesAggregatesSubProperties(t *testing.T) {
	d := dialect.PostgresDialect{}
	reg := registry.New(d)
	tbl := reg.Table("customers")
	emb := newEmbeddedProp(tbl)

	customer := &embeddedCustomer{ID: 4, Address: &embeddedAddress{Street: "Baker St", City: "London"}}
	require.Empty(t, emb.FindReferencedEntities(customer))
}
