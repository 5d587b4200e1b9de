package entity

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/fastnate-go/seedgen"
	"github.com/fastnate-go/seedgen/idgen"
	"github.com/fastnate-go/seedgen/registry"
)

// InheritanceType names the inheritance strategy an entity hierarchy uses
// (spec §4.6, stage 4).
type InheritanceType int

const (
	InheritanceNone InheritanceType = iota
	InheritanceSingleTable
	InheritanceJoined
	InheritanceTablePerClass
)

// ClassDescriptor is the fully resolved metamodel for one entity (spec §3):
// the output of Builder.Build.
type ClassDescriptor struct {
	entityName string
	table      *registry.Table

	inheritance   InheritanceType
	hierarchyRoot *ClassDescriptor
	joinedParent  *ClassDescriptor

	discriminatorColumn *registry.Column
	discriminatorExpr   string

	idProperty  Property
	idColumn    *registry.Column
	idGenerator idgen.Generator

	// properties preserves declaration order (spec invariant: "collection
	// properties must preserve the entity's declared property order"),
	// while still allowing lookup by name during the build phase.
	properties *orderedmap.OrderedMap[string, Property]
	uniqueKey  *UniqueKey

	mu     sync.Mutex
	states map[IdentityKey]*entityState
}

func (d *ClassDescriptor) tableName() string { return d.table.Name }

// TableName returns the resolved table name backing this descriptor.
func (d *ClassDescriptor) TableName() string { return d.table.Name }

// EntityName returns the declared entity name this descriptor was built for.
func (d *ClassDescriptor) EntityName() string { return d.entityName }

// Properties returns the descriptor's properties in declaration order.
func (d *ClassDescriptor) Properties() []Property {
	out := make([]Property, 0, d.properties.Len())
	for pair := d.properties.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Property looks up a declared property by its attribute name.
func (d *ClassDescriptor) Property(name string) (Property, bool) {
	return d.properties.Get(name)
}

// UniqueKey returns the chosen unique-key alternate, or nil if none
// qualified (spec §4.6, stage 8).
func (d *ClassDescriptor) UniqueKey() *UniqueKey { return d.uniqueKey }

// IDGenerator exposes the identifier generator backing this entity's id
// property, so sqlgen can Advance it once a row is actually written.
func (d *ClassDescriptor) IDGenerator() idgen.Generator { return d.idGenerator }

// IDProperty exposes the descriptor's identifier property.
func (d *ClassDescriptor) IDProperty() Property { return d.idProperty }

func (d *ClassDescriptor) stateFor(key IdentityKey) *entityState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.states[key]
	if !ok {
		st = &entityState{}
		d.states[key] = st
	}
	return st
}

// stateOf reports the lifecycle state of the entity identified by key,
// without creating a state entry for keys never seen (spec §4.7).
func (d *ClassDescriptor) stateOf(key IdentityKey) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.states[key]
	if !ok {
		return StateUnknown
	}
	return st.state
}

// IsNew reports whether entity has not yet reached StatePersisted.
func (d *ClassDescriptor) IsNew(entity any) bool {
	return d.stateOf(NewIdentityKey(entity)) != StatePersisted
}

// ResidualPending returns one ReferenceError for every entity of this class
// still at StatePending: something queued a deferred action against it (it
// was referenced) but its own row was never written before the run ended
// (spec §7, Testable Property 2). The property name on each ReferenceError
// is recovered from the queued action's renderer when it identifies itself
// as a Property; left empty otherwise.
func (d *ClassDescriptor) ResidualPending() []error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, st := range d.states {
		if st.state != StatePending {
			continue
		}
		if len(st.pending) == 0 {
			errs = append(errs, seedgen.NewReferenceError(d.entityName, ""))
			continue
		}
		for _, a := range st.pending {
			propName := ""
			if p, ok := a.Renderer.(Property); ok {
				propName = p.Name()
			}
			errs = append(errs, seedgen.NewReferenceError(d.entityName, propName))
		}
	}
	return errs
}

// markPendingUpdates queues a deferred action against the entity identified
// by key, to run once that entity reaches StatePersisted (spec §4.7). The
// key's state advances to at least StatePending.
func (d *ClassDescriptor) markPendingUpdates(key IdentityKey, entityToUpdate any, renderer any, args ...any) {
	st := d.stateFor(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	if st.state == StateUnknown {
		st.state = StatePending
	}
	st.pending = append(st.pending, PendingAction{EntityToUpdate: entityToUpdate, Renderer: renderer, Args: args})
}

// MarkExistingEntity records that entity's row already exists in the
// database outside this run (spec §4.7, scenario D): its state advances
// directly to StatePersisted. Per invariant 4 the state only ever advances;
// an entity already StatePersisted is left untouched. Any actions already
// queued against it (it was referenced before being marked existing) are
// flushed and returned as deferred UPDATE statements, exactly as a normal
// insert's post-insert flush would.
func (d *ClassDescriptor) MarkExistingEntity(ic *InsertContext, entity any) ([]string, error) {
	key := NewIdentityKey(entity)
	st := d.stateFor(key)

	d.mu.Lock()
	if st.state == StatePersisted {
		d.mu.Unlock()
		return nil, nil
	}
	st.state = StatePersisted
	st.preExisting = true
	actions := st.pending
	st.pending = nil
	d.mu.Unlock()

	return d.renderPending(ic, entity, actions)
}

// CreatePostInsertStatements runs once entity's own row has been written: it
// advances entity's state to StatePersisted, collects every property's own
// post-insert statements (join-table rows for Collection/Map properties),
// then flushes and renders any pending deferred UPDATEs other entities
// queued against entity while it was still unwritten (spec §4.7).
func (d *ClassDescriptor) CreatePostInsertStatements(ic *InsertContext, entity any) ([]string, error) {
	key := NewIdentityKey(entity)
	st := d.stateFor(key)

	d.mu.Lock()
	if st.state == StatePersisted {
		d.mu.Unlock()
		return nil, nil
	}
	st.state = StatePersisted
	actions := st.pending
	st.pending = nil
	d.mu.Unlock()

	var stmts []string
	for pair := d.properties.Oldest(); pair != nil; pair = pair.Next() {
		entityIC := *ic
		entityIC.Entity = entity
		ss, err := pair.Value.CreatePostInsertStatements(&entityIC)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ss...)
	}

	rendered, err := d.renderPending(ic, entity, actions)
	if err != nil {
		return nil, err
	}
	return append(stmts, rendered...), nil
}

// renderPending renders every queued action against target, which has just
// reached StatePersisted, in FIFO order (spec §4.7 tie-break rule).
func (d *ClassDescriptor) renderPending(ic *InsertContext, target any, actions []PendingAction) ([]string, error) {
	var stmts []string
	for _, a := range actions {
		renderer, ok := a.Renderer.(DeferredRenderer)
		if !ok {
			continue
		}
		targetIC := *ic
		targetIC.Entity = target
		targetExpr, err := d.GetEntityReference(&targetIC, target, false)
		if err != nil {
			return nil, err
		}
		stmt, err := renderer.RenderDeferredUpdate(ic, a.EntityToUpdate, targetExpr)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// AssignGeneratedID writes a simulated next-value into entity's id field
// and advances the identifier generator (see IDProperty.AssignSimulatedValue).
// A no-op if this descriptor's id property is not an *IDProperty or its
// generator is Assigned. A joined child holds its parent's *IDProperty, so
// calling this on it advances the shared generator; sqlgen therefore skips
// the call for joined children.
func (d *ClassDescriptor) AssignGeneratedID(entity any, value int64) error {
	idProp, ok := d.idProperty.(*IDProperty)
	if !ok {
		return nil
	}
	return idProp.AssignSimulatedValue(entity, value)
}

// JoinedParent returns the ancestor descriptor this one delegates its
// primary key to under JOINED inheritance (spec §4.6, stage 4), or nil if
// this descriptor has no parent or uses a different strategy.
func (d *ClassDescriptor) JoinedParent() *ClassDescriptor { return d.joinedParent }

// PrimaryKeyJoinExpression returns the column/value pair a JOINED child's
// own INSERT uses for its primaryKeyJoinColumn (spec §8 Scenario C): the id
// value already assigned to entity by its root ancestor's own INSERT,
// rendered as a literal. It deliberately bypasses IDProperty's generator
// branch, which would otherwise contribute a second nextval() expression
// for the same sequence.
func (d *ClassDescriptor) PrimaryKeyJoinExpression(ic *InsertContext, entity any) (column, value string, err error) {
	idProp, ok := d.idProperty.(*IDProperty)
	if !ok || idProp == nil {
		return "", "", fmt.Errorf("entity: %s has no identifier property for joined insert", d.entityName)
	}
	entityIC := *ic
	entityIC.Entity = entity
	var cols, vals []string
	if err := idProp.Primitive.AddInsertExpression(&entityIC, &cols, &vals); err != nil {
		return "", "", err
	}
	if len(cols) == 0 {
		return "", "", nil
	}
	return cols[0], vals[0], nil
}

// OwnRowPredicate returns the "id column = expression" fragment identifying
// entity's own row, used by a DeferredRenderer to target its UPDATE.
func (d *ClassDescriptor) OwnRowPredicate(ic *InsertContext, entity any) (string, error) {
	if d.idProperty == nil {
		return "", fmt.Errorf("entity: %s has no identifier property", d.entityName)
	}
	entityIC := *ic
	entityIC.Entity = entity
	return d.idProperty.GetPredicate(&entityIC)
}

// GetEntityReference resolves the SQL expression that stands in for entity
// when it is referenced from another row's INSERT or UPDATE (spec §4.8),
// trying each strategy in priority order:
//
//  1. Joined-inheritance delegation: a JOINED subclass shares its parent's
//     primary key, so the reference is always resolved against the
//     hierarchy's root descriptor.
//  2. currval shortcut: if entity's own generated id matches the
//     generator's last-advanced value and the dialect supports reading it
//     back, use that session-local expression instead of a sub-select.
//  3. Unique-key sub-select: if every component of the chosen unique-key
//     alternate has a non-null value on entity, reference it by a
//     "(SELECT id FROM table WHERE ...)" sub-select.
//  4. Literal fallback: render entity's own id property's expression
//     directly.
func (d *ClassDescriptor) GetEntityReference(ic *InsertContext, entity any, forWhereClause bool) (string, error) {
	if d.joinedParent != nil {
		return d.joinedParent.GetEntityReference(ic, entity, forWhereClause)
	}

	if d.idGenerator != nil && ic.Dialect.Flags().SupportsCurrval && d.idProperty != nil {
		if cur, ok := d.idGenerator.CurrentValue(); ok {
			entityIC := *ic
			entityIC.Entity = entity
			v, err := fieldValue(entity, d.idProperty.Name())
			if err == nil {
				if iv, ok := toInt64(v); ok && iv == cur {
					return ic.Dialect.CurrvalExpr(d.idGenerator.Name()), nil
				}
			}
		}
	}

	if d.uniqueKey != nil {
		entityIC := *ic
		entityIC.Entity = entity
		preds := make([]string, 0, len(d.uniqueKey.Properties))
		complete := true
		for _, p := range d.uniqueKey.Properties {
			pred, err := p.GetPredicate(&entityIC)
			if err != nil {
				return "", err
			}
			if strings.HasSuffix(pred, "NULL") {
				complete = false
				break
			}
			preds = append(preds, pred)
		}
		if complete {
			where := strings.Join(preds, " AND ")
			if d.discriminatorColumn != nil {
				where += fmt.Sprintf(" AND %s = %s", ic.Dialect.QuoteIdentifier(d.discriminatorColumn.Name), d.discriminatorExpr)
			}
			return fmt.Sprintf("(SELECT %s FROM %s WHERE %s)",
				ic.Dialect.QuoteIdentifier(d.idColumn.Name), ic.Dialect.QuoteIdentifier(d.tableName()), where), nil
		}
	}

	entityIC := *ic
	entityIC.Entity = entity
	return d.idProperty.GetExpression(&entityIC, forWhereClause)
}

// toInt64 converts v's underlying numeric value to int64, for comparing an
// entity's own id field against a generator's last-advanced value.
func toInt64(v reflect.Value) (int64, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), true
	default:
		return 0, false
	}
}
