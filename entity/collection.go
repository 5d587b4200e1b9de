package entity

import (
	"fmt"
	"reflect"
)

// Collection is a multi-valued many-to-many association materialized
// through a join table (spec §4.5). It contributes no column to the
// owner's own INSERT; once the owner's row is written it emits one INSERT
// per associated entity into the join table, deferring any member not yet
// persisted the same way EntityReference defers a singular one.
type Collection struct {
	name         string
	targetEntity string
	joinTable    string
	ownerColumn  string
	targetColumn string
	ownerDesc    *ClassDescriptor
}

// NewCollection builds a Collection property for the named slice-valued
// attribute, materialized through joinTable(ownerColumn, targetColumn).
func NewCollection(name, targetEntity, joinTable, ownerColumn, targetColumn string) *Collection {
	return &Collection{name: name, targetEntity: targetEntity, joinTable: joinTable, ownerColumn: ownerColumn, targetColumn: targetColumn}
}

var (
	_ Property         = (*Collection)(nil)
	_ ownerBinder      = (*Collection)(nil)
	_ DeferredRenderer = (*Collection)(nil)
)

func (c *Collection) bindOwner(d *ClassDescriptor) { c.ownerDesc = d }

func (c *Collection) Name() string        { return c.name }
func (c *Collection) IsRequired() bool    { return false }
func (c *Collection) IsTableColumn() bool { return false }

func (c *Collection) AddInsertExpression(*InsertContext, *[]string, *[]string) error {
	return nil
}

func (c *Collection) CreatePreInsertStatements(*InsertContext) ([]string, error) { return nil, nil }

// members reads the declared slice attribute off owner, returning each
// element addressed as a pointer (addressable elements are used as-is).
func (c *Collection) members(owner any) ([]any, error) {
	v, err := fieldValue(owner, c.name)
	if err != nil {
		return nil, err
	}
	if v.Kind() != reflect.Slice || v.IsNil() {
		return nil, nil
	}
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() != reflect.Pointer && elem.CanAddr() {
			elem = elem.Addr()
		}
		out[i] = elem.Interface()
	}
	return out, nil
}

func (c *Collection) insertStatement(ic *InsertContext, ownerExpr, targetExpr string) string {
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (%s, %s)",
		ic.Dialect.QuoteIdentifier(c.joinTable),
		ic.Dialect.QuoteIdentifier(c.ownerColumn), ic.Dialect.QuoteIdentifier(c.targetColumn),
		ownerExpr, targetExpr)
}

func (c *Collection) CreatePostInsertStatements(ic *InsertContext) ([]string, error) {
	owner := ic.Entity
	members, err := c.members(owner)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	targetDesc, err := ic.Resolve(c.targetEntity)
	if err != nil {
		return nil, err
	}
	ownerExpr, err := c.ownerDesc.GetEntityReference(ic, owner, false)
	if err != nil {
		return nil, err
	}

	var stmts []string
	for _, member := range members {
		key := NewIdentityKey(member)
		if targetDesc.stateOf(key) == StatePersisted {
			targetExpr, err := targetDesc.GetEntityReference(ic, member, false)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, c.insertStatement(ic, ownerExpr, targetExpr))
			continue
		}
		targetDesc.markPendingUpdates(key, owner, c)
	}
	return stmts, nil
}

func (c *Collection) FindReferencedEntities(owner any) []any {
	members, err := c.members(owner)
	if err != nil {
		return nil
	}
	return members
}

func (c *Collection) GetExpression(*InsertContext, bool) (string, error) {
	return "", fmt.Errorf("entity: collection property %q has no scalar expression", c.name)
}

func (c *Collection) GetPredicate(*InsertContext) (string, error) {
	return "", fmt.Errorf("entity: collection property %q has no predicate", c.name)
}

// RenderDeferredUpdate implements DeferredRenderer: once a member that was
// not yet persisted reaches StatePersisted, emit its join-table row. owner
// is the collection's owning entity, resolved fresh here since the pending
// action was queued before the owner's own reference expression mattered.
func (c *Collection) RenderDeferredUpdate(ic *InsertContext, owner any, resolvedTargetExpr string) (string, error) {
	ownerExpr, err := c.ownerDesc.GetEntityReference(ic, owner, false)
	if err != nil {
		return "", err
	}
	return c.insertStatement(ic, ownerExpr, resolvedTargetExpr), nil
}
