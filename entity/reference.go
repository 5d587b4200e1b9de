package entity

import (
	"fmt"

	"github.com/fastnate-go/seedgen"
	"github.com/fastnate-go/seedgen/registry"
)

// EntityReference is a singular association to another entity (spec §4.5).
// On insert it writes either the referenced entity's id-expression (target
// already Persisted) or NULL plus a deferred UPDATE registered against the
// target's pending-action list (target not yet written — the cyclic
// reference case, Scenario B).
type EntityReference struct {
	name           string
	column         *registry.Column
	required       bool
	targetEntity   string
	ownerDesc      *ClassDescriptor
}

// NewEntityReference builds an EntityReference property for the named
// attribute, backed by column, pointing at the entity named targetEntity.
func NewEntityReference(name string, column *registry.Column, required bool, targetEntity string) *EntityReference {
	return &EntityReference{name: name, column: column, required: required, targetEntity: targetEntity}
}

var (
	_ Property     = (*EntityReference)(nil)
	_ ownerBinder  = (*EntityReference)(nil)
	_ DeferredRenderer = (*EntityReference)(nil)
)

func (r *EntityReference) bindOwner(d *ClassDescriptor) { r.ownerDesc = d }

func (r *EntityReference) Name() string       { return r.name }
func (r *EntityReference) IsRequired() bool   { return r.required }
func (r *EntityReference) IsTableColumn() bool { return true }

// referencedEntity reads the pointer-valued association field off entity.
// A nil interface result means "no reference set".
func (r *EntityReference) referencedEntity(owner any) (any, error) {
	v, err := fieldValue(owner, r.name)
	if err != nil {
		return nil, err
	}
	if isNilValue(v) {
		return nil, nil
	}
	return v.Interface(), nil
}

func (r *EntityReference) AddInsertExpression(ic *InsertContext, cols, vals *[]string) error {
	target, err := r.referencedEntity(ic.Entity)
	if err != nil {
		return err
	}
	colName := ic.Dialect.QuoteIdentifier(r.column.Name)
	if target == nil {
		if r.required {
			return seedgen.NewModelError(r.targetEntity, fmt.Sprintf("required reference %q is nil", r.name))
		}
		*cols = append(*cols, colName)
		*vals = append(*vals, "NULL")
		return nil
	}

	targetDesc, err := ic.Resolve(r.targetEntity)
	if err != nil {
		return err
	}
	key := NewIdentityKey(target)
	if targetDesc.stateOf(key) == StatePersisted {
		expr, err := targetDesc.GetEntityReference(ic, target, false)
		if err != nil {
			return err
		}
		*cols = append(*cols, colName)
		*vals = append(*vals, expr)
		return nil
	}

	// Target not yet written: emit NULL now, defer the UPDATE until the
	// target's CreatePostInsertStatements flushes it (spec §4.7).
	*cols = append(*cols, colName)
	*vals = append(*vals, "NULL")
	targetDesc.markPendingUpdates(key, ic.Entity, r)
	return nil
}

func (r *EntityReference) CreatePreInsertStatements(*InsertContext) ([]string, error) { return nil, nil }

func (r *EntityReference) CreatePostInsertStatements(*InsertContext) ([]string, error) { return nil, nil }

func (r *EntityReference) FindReferencedEntities(owner any) []any {
	target, err := r.referencedEntity(owner)
	if err != nil || target == nil {
		return nil
	}
	return []any{target}
}

func (r *EntityReference) GetExpression(ic *InsertContext, forWhereClause bool) (string, error) {
	target, err := r.referencedEntity(ic.Entity)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "NULL", nil
	}
	targetDesc, err := ic.Resolve(r.targetEntity)
	if err != nil {
		return "", err
	}
	return targetDesc.GetEntityReference(ic, target, forWhereClause)
}

func (r *EntityReference) GetPredicate(ic *InsertContext) (string, error) {
	expr, err := r.GetExpression(ic, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", ic.Dialect.QuoteIdentifier(r.column.Name), expr), nil
}

// RenderDeferredUpdate implements DeferredRenderer: once the target
// reaches Persisted, emit the UPDATE that stores its id into the owner's
// FK column.
func (r *EntityReference) RenderDeferredUpdate(ic *InsertContext, owner any, resolvedTargetExpr string) (string, error) {
	if r.ownerDesc == nil {
		return "", fmt.Errorf("entity: %s.%s has no bound owner descriptor", r.targetEntity, r.name)
	}
	where, err := r.ownerDesc.OwnRowPredicate(ic, owner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s",
		ic.Dialect.QuoteIdentifier(r.ownerDesc.tableName()),
		ic.Dialect.QuoteIdentifier(r.column.Name), resolvedTargetExpr, where), nil
}
