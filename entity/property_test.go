package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/entity"
	"github.com/fastnate-go/seedgen/registry"
	"github.com/fastnate-go/seedgen/schema"
)

func TestPrimitiveAddInsertExpression(t *testing.T) {
	d := dialect.PostgresDialect{}
	reg := registry.New(d)
	col := reg.Table("widgets").Column("name")
	desc := &schema.FieldDescriptor{Name: "name", Info: &schema.TypeInfo{Type: schema.TypeString}}
	p := entity.NewPrimitive(desc, col)

	type widget struct{ Name string }
	w := &widget{Name: "gizmo"}
	ic := &entity.InsertContext{Dialect: d, Entity: w}
	var cols, vals []string
	require.NoError(t, p.AddInsertExpression(ic, &cols, &vals))
	require.Equal(t, []string{`"name"`}, cols)
	require.Equal(t, []string{"'gizmo'"}, vals)
}

func TestPrimitiveRequiredFromOptionalFlag(t *testing.T) {
	required := &schema.FieldDescriptor{Name: "a", Info: &schema.TypeInfo{Type: schema.TypeString}}
	optional := &schema.FieldDescriptor{Name: "b", Info: &schema.TypeInfo{Type: schema.TypeString}, Optional: true}
	reg := registry.New(dialect.PostgresDialect{})
	tbl := reg.Table("t")
	require.True(t, entity.NewPrimitive(required, tbl.Column("a")).IsRequired())
	require.False(t, entity.NewPrimitive(optional, tbl.Column("b")).IsRequired())
}

func TestVersionUpdateExpression(t *testing.T) {
	d := dialect.PostgresDialect{}
	reg := registry.New(d)
	col := reg.Table("widgets").Column("version")
	desc := &schema.FieldDescriptor{Name: "version", Info: &schema.TypeInfo{Type: schema.TypeInt64}}
	v := entity.NewVersion(entity.NewPrimitive(desc, col))
	require.Equal(t, `"version" = "version" + 1`, v.UpdateExpression(d.QuoteIdentifier))
}

