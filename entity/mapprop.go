package entity

import (
	"fmt"
	"reflect"

	"github.com/fastnate-go/seedgen/dialect"
)

// mapEntry pairs a discovered map key with its associated entity, carried
// through CreatePostInsertStatements/RenderDeferredUpdate so the deferred
// path still knows which key to write.
type mapEntry struct {
	key    string
	target any
}

// Map is a key-valued association materialized through a join table with
// an extra key column (spec §4.5): the Map analogue of Collection.
type Map struct {
	name         string
	targetEntity string
	joinTable    string
	ownerColumn  string
	keyColumn    string
	targetColumn string
	ownerDesc    *ClassDescriptor
}

// NewMap builds a Map property for the named map-valued attribute,
// materialized through joinTable(ownerColumn, keyColumn, targetColumn).
func NewMap(name, targetEntity, joinTable, ownerColumn, keyColumn, targetColumn string) *Map {
	return &Map{name: name, targetEntity: targetEntity, joinTable: joinTable, ownerColumn: ownerColumn, keyColumn: keyColumn, targetColumn: targetColumn}
}

var (
	_ Property         = (*Map)(nil)
	_ ownerBinder      = (*Map)(nil)
	_ DeferredRenderer = (*Map)(nil)
)

func (m *Map) bindOwner(d *ClassDescriptor) { m.ownerDesc = d }

func (m *Map) Name() string        { return m.name }
func (m *Map) IsRequired() bool    { return false }
func (m *Map) IsTableColumn() bool { return false }

func (m *Map) AddInsertExpression(*InsertContext, *[]string, *[]string) error { return nil }
func (m *Map) CreatePreInsertStatements(*InsertContext) ([]string, error)     { return nil, nil }

// entries reads the declared map attribute off owner, sorted by key for
// deterministic output.
func (m *Map) entries(owner any) ([]mapEntry, error) {
	v, err := fieldValue(owner, m.name)
	if err != nil {
		return nil, err
	}
	if v.Kind() != reflect.Map || v.IsNil() {
		return nil, nil
	}
	keys := v.MapKeys()
	out := make([]mapEntry, 0, len(keys))
	for _, k := range keys {
		elem := v.MapIndex(k)
		if elem.Kind() != reflect.Pointer && elem.CanAddr() {
			elem = elem.Addr()
		}
		out = append(out, mapEntry{key: fmt.Sprint(k.Interface()), target: elem.Interface()})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].key > out[j].key; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func (m *Map) insertStatement(ic *InsertContext, ownerExpr, key, targetExpr string) (string, error) {
	keyLit, err := ic.Dialect.FormatLiteral(dialect.LiteralString, key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (%s, %s, %s)",
		ic.Dialect.QuoteIdentifier(m.joinTable),
		ic.Dialect.QuoteIdentifier(m.ownerColumn), ic.Dialect.QuoteIdentifier(m.keyColumn), ic.Dialect.QuoteIdentifier(m.targetColumn),
		ownerExpr, keyLit, targetExpr), nil
}

func (m *Map) CreatePostInsertStatements(ic *InsertContext) ([]string, error) {
	owner := ic.Entity
	entries, err := m.entries(owner)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	targetDesc, err := ic.Resolve(m.targetEntity)
	if err != nil {
		return nil, err
	}
	ownerExpr, err := m.ownerDesc.GetEntityReference(ic, owner, false)
	if err != nil {
		return nil, err
	}

	var stmts []string
	for _, entry := range entries {
		key := NewIdentityKey(entry.target)
		if targetDesc.stateOf(key) == StatePersisted {
			targetExpr, err := targetDesc.GetEntityReference(ic, entry.target, false)
			if err != nil {
				return nil, err
			}
			stmt, err := m.insertStatement(ic, ownerExpr, entry.key, targetExpr)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			continue
		}
		targetDesc.markPendingUpdates(key, owner, &mapDeferred{m: m, key: entry.key})
	}
	return stmts, nil
}

func (m *Map) FindReferencedEntities(owner any) []any {
	entries, err := m.entries(owner)
	if err != nil {
		return nil
	}
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.target
	}
	return out
}

func (m *Map) GetExpression(*InsertContext, bool) (string, error) {
	return "", fmt.Errorf("entity: map property %q has no scalar expression", m.name)
}

func (m *Map) GetPredicate(*InsertContext) (string, error) {
	return "", fmt.Errorf("entity: map property %q has no predicate", m.name)
}

// RenderDeferredUpdate satisfies DeferredRenderer for direct (non-keyed)
// use; Map always queues a mapDeferred wrapper instead, so this is never
// actually invoked, but is required to let Map itself serve as a fallback
// Property value in tests.
func (m *Map) RenderDeferredUpdate(ic *InsertContext, owner any, resolvedTargetExpr string) (string, error) {
	return "", fmt.Errorf("entity: map property %q must defer through mapDeferred", m.name)
}

// mapDeferred carries the map key alongside the Map property so the
// deferred join-table row names the right key once the target is
// persisted.
type mapDeferred struct {
	m   *Map
	key string
}

var _ DeferredRenderer = (*mapDeferred)(nil)

func (d *mapDeferred) RenderDeferredUpdate(ic *InsertContext, owner any, resolvedTargetExpr string) (string, error) {
	ownerExpr, err := d.m.ownerDesc.GetEntityReference(ic, owner, false)
	if err != nil {
		return "", err
	}
	return d.m.insertStatement(ic, ownerExpr, d.key, resolvedTargetExpr)
}
