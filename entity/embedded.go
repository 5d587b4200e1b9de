package entity

import (
	"fmt"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Embedded groups a nested struct's own properties under one attribute
// (spec §4.5): each sub-property runs against the embedded value instead
// of the owner directly, but still contributes its column(s) to the
// owner's own row.
type Embedded struct {
	name       string
	required   bool
	properties *orderedmap.OrderedMap[string, Property]
}

// NewEmbedded builds an Embedded property wrapping the given sub-properties
// in declaration order.
func NewEmbedded(name string, required bool, props []Property) *Embedded {
	om := orderedmap.New[string, Property]()
	for _, p := range props {
		om.Set(p.Name(), p)
	}
	return &Embedded{name: name, required: required, properties: om}
}

var _ Property = (*Embedded)(nil)

func (e *Embedded) Name() string        { return e.name }
func (e *Embedded) IsRequired() bool    { return e.required }
func (e *Embedded) IsTableColumn() bool { return true }

// embeddedValue returns a pointer to the nested struct value, and false
// when the attribute is a nil pointer (nothing is allocated).
func (e *Embedded) embeddedValue(owner any) (any, bool, error) {
	v, err := fieldValue(owner, e.name)
	if err != nil {
		return nil, false, err
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false, nil
		}
		return v.Interface(), true, nil
	}
	if !v.CanAddr() {
		return nil, false, fmt.Errorf("entity: embedded field %q is not addressable", e.name)
	}
	return v.Addr().Interface(), true, nil
}

func (e *Embedded) AddInsertExpression(ic *InsertContext, cols, vals *[]string) error {
	embedded, present, err := e.embeddedValue(ic.Entity)
	if err != nil {
		return err
	}
	if !present {
		if e.required {
			return fmt.Errorf("entity: required embedded value %q is nil", e.name)
		}
		return nil
	}
	subIC := *ic
	subIC.Entity = embedded
	for pair := e.properties.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.AddInsertExpression(&subIC, cols, vals); err != nil {
			return err
		}
	}
	return nil
}

func (e *Embedded) CreatePreInsertStatements(ic *InsertContext) ([]string, error) {
	embedded, present, err := e.embeddedValue(ic.Entity)
	if err != nil || !present {
		return nil, err
	}
	subIC := *ic
	subIC.Entity = embedded
	var stmts []string
	for pair := e.properties.Oldest(); pair != nil; pair = pair.Next() {
		ss, err := pair.Value.CreatePreInsertStatements(&subIC)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ss...)
	}
	return stmts, nil
}

func (e *Embedded) CreatePostInsertStatements(ic *InsertContext) ([]string, error) {
	embedded, present, err := e.embeddedValue(ic.Entity)
	if err != nil || !present {
		return nil, err
	}
	subIC := *ic
	subIC.Entity = embedded
	var stmts []string
	for pair := e.properties.Oldest(); pair != nil; pair = pair.Next() {
		ss, err := pair.Value.CreatePostInsertStatements(&subIC)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ss...)
	}
	return stmts, nil
}

func (e *Embedded) FindReferencedEntities(owner any) []any {
	embedded, present, err := e.embeddedValue(owner)
	if err != nil || !present {
		return nil
	}
	var out []any
	for pair := e.properties.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.FindReferencedEntities(embedded)...)
	}
	return out
}

func (e *Embedded) GetExpression(*InsertContext, bool) (string, error) {
	return "", fmt.Errorf("entity: embedded property %q has no single scalar expression", e.name)
}

func (e *Embedded) GetPredicate(*InsertContext) (string, error) {
	return "", fmt.Errorf("entity: embedded property %q has no single predicate", e.name)
}
