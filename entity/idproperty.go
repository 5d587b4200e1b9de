package entity

import (
	"fmt"
	"reflect"

	"github.com/fastnate-go/seedgen/idgen"
)

// IDProperty is the entity's identifier property (spec §4.6, stages 3 and
// 6): identical to Primitive for every purpose except AddInsertExpression,
// where a generated id contributes the generator's next-value expression
// (or nothing at all, for an Identity column) instead of reading the
// entity's own Go field.
type IDProperty struct {
	*Primitive
	generator idgen.Generator
}

// NewIDProperty wraps p as the identifier property, backed by generator.
func NewIDProperty(p *Primitive, generator idgen.Generator) *IDProperty {
	return &IDProperty{Primitive: p, generator: generator}
}

var _ Property = (*IDProperty)(nil)

// Generator exposes the backing generator, e.g. for sqlgen to Advance it
// once the corresponding row is actually written.
func (p *IDProperty) Generator() idgen.Generator { return p.generator }

func (p *IDProperty) AddInsertExpression(ic *InsertContext, cols, vals *[]string) error {
	switch p.generator.Kind() {
	case idgen.KindIdentity:
		return nil
	case idgen.KindSequence, idgen.KindTable:
		expr := p.generator.NextValueExpr()
		if expr == "" {
			return nil
		}
		*cols = append(*cols, ic.Dialect.QuoteIdentifier(p.column.Name))
		*vals = append(*vals, expr)
		return nil
	default: // KindAssigned: the caller supplies (or already supplied) the value
		return p.Primitive.AddInsertExpression(ic, cols, vals)
	}
}

// CreatePreInsertStatements emits the counter-table UPDATE a Table
// generator needs before the row's own INSERT.
func (p *IDProperty) CreatePreInsertStatements(ic *InsertContext) ([]string, error) {
	if t, ok := p.generator.(*idgen.Table); ok {
		return []string{t.UpdateStatement()}, nil
	}
	return nil, nil
}

// AssignSimulatedValue writes value into entity's own id field and advances
// the generator with it. Since this module renders a SQL script rather than
// executing one, the actual database-assigned id is never read back; a
// locally simulated monotonic counter standing in for it is what lets the
// currval shortcut of GetEntityReference (spec §4.8) recognize "this
// entity's id matches what its generator would just have produced" and
// lets a literal-fallback reference show the same value the script's own
// INSERT would eventually receive. Assigned ids (including UUID-defaulted
// ones) are left untouched: their value is already known.
func (p *IDProperty) AssignSimulatedValue(e any, value int64) error {
	if p.generator.Kind() == idgen.KindAssigned {
		return nil
	}
	v, err := fieldValue(e, p.name)
	if err != nil {
		return err
	}
	if !v.CanSet() {
		return fmt.Errorf("entity: id field %q is not settable", p.name)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(value))
	default:
		return fmt.Errorf("entity: id field %q has non-integer kind %s", p.name, v.Kind())
	}
	p.generator.Advance(value)
	return nil
}
