package entity

import (
	"fmt"

	"github.com/fastnate-go/seedgen/registry"
	"github.com/fastnate-go/seedgen/schema"
)

// Primitive contributes exactly one column to the owning row's INSERT
// (spec §4.5): a plain scalar attribute.
type Primitive struct {
	name    string
	info    *schema.TypeInfo
	column  *registry.Column
	desc    *schema.FieldDescriptor
	evalDefault bool // true if desc.Default is a func() any to call when the field is zero
}

// NewPrimitive builds a Primitive property from a resolved field
// descriptor and its canonical column.
func NewPrimitive(desc *schema.FieldDescriptor, column *registry.Column) *Primitive {
	_, isFunc := desc.Default.(func() any)
	return &Primitive{name: desc.Name, info: desc.Info, column: column, desc: desc, evalDefault: isFunc}
}

var _ Property = (*Primitive)(nil)

func (p *Primitive) Name() string { return p.name }

func (p *Primitive) IsRequired() bool {
	return !p.desc.Optional && !p.desc.Nillable
}

func (p *Primitive) IsTableColumn() bool { return true }

func (p *Primitive) AddInsertExpression(ic *InsertContext, cols, vals *[]string) error {
	expr, err := p.GetExpression(ic, false)
	if err != nil {
		return err
	}
	*cols = append(*cols, ic.Dialect.QuoteIdentifier(p.column.Name))
	*vals = append(*vals, expr)
	return nil
}

func (p *Primitive) CreatePreInsertStatements(*InsertContext) ([]string, error) { return nil, nil }

func (p *Primitive) CreatePostInsertStatements(*InsertContext) ([]string, error) { return nil, nil }

func (p *Primitive) FindReferencedEntities(any) []any { return nil }

func (p *Primitive) GetExpression(ic *InsertContext, _ bool) (string, error) {
	v, err := fieldValue(ic.Entity, p.name)
	if err != nil {
		return "", err
	}
	if p.evalDefault && v.IsZero() {
		return ic.Dialect.FormatLiteral(literalKindFor(p.info.Type), p.desc.Default.(func() any)())
	}
	return formatValue(ic.Dialect, p.info.Type, v)
}

func (p *Primitive) GetPredicate(ic *InsertContext) (string, error) {
	expr, err := p.GetExpression(ic, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", ic.Dialect.QuoteIdentifier(p.column.Name), expr), nil
}
