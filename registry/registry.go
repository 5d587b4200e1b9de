// Package registry canonicalizes table and column identities by name so
// that every other component can compare them by pointer rather than by
// string, once resolved (component C).
package registry

import (
	"strings"
	"sync"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"

	"github.com/fastnate-go/seedgen/dialect"
)

// Table is a canonicalized table identity. Two resolutions of the same
// (dialect-folded) name always return the same *Table.
type Table struct {
	// Name is the name as declared (case as written).
	Name string
	// fold is the same dialect-aware folding function the owning Registry
	// used to canonicalize this Table's own name (spec §4.3: "compared per
	// the dialect's identifier-folding rule"), reused here so column
	// identity resolution respects the same case-sensitivity flag as table
	// identity resolution.
	fold    func(string) string
	mu      sync.Mutex
	columns map[string]*Column
	order   []string
}

// Column is a canonicalized (table, name) identity.
type Column struct {
	Name  string
	Table *Table
}

// Registry is the process-wide table/column canonicalizer for one
// GeneratorContext.
type Registry struct {
	dialect dialect.Dialect
	fold    func(string) string
	mu      sync.Mutex
	tables  map[string]*Table
}

// New creates a Registry that folds identifiers per d's case-sensitivity
// flag before using them as map keys.
func New(d dialect.Dialect) *Registry {
	r := &Registry{dialect: d, tables: map[string]*Table{}}
	if d.Flags().CaseInsensitiveIdentifiers {
		folder := cases.Fold()
		r.fold = func(s string) string { return folder.String(s) }
	} else {
		r.fold = func(s string) string { return s }
	}
	return r
}

// Table resolves (and lazily creates) the table with the given name.
func (r *Registry) Table(name string) *Table {
	key := r.fold(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tables[key]; ok {
		return t
	}
	t := &Table{Name: name, fold: r.fold, columns: map[string]*Column{}}
	r.tables[key] = t
	return t
}

// Column resolves (and lazily creates) the column with the given name on t,
// folded through the same dialect-aware rule its owning Registry resolved
// this table's own name with.
func (t *Table) Column(name string) *Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.fold(name)
	if c, ok := t.columns[key]; ok {
		return c
	}
	c := &Column{Name: name, Table: t}
	t.columns[key] = c
	t.order = append(t.order, key)
	return c
}

// Columns returns the columns of t in first-resolved order.
func (t *Table) Columns() []*Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Column, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.columns[key])
	}
	return out
}

// rules provides English pluralization, grounded on the same
// go-openapi/inflect ruleset the teacher's code generator uses to derive a
// table name from an entity name.
var rules = inflect.NewDefaultRuleset()

// DefaultTableName derives the default table name for an entity named
// entityName: the pluralized, snake_case form of the entity name (component
// F, build stage 1: "Resolve initial table name (annotation or entity
// name)").
func DefaultTableName(entityName string) string {
	return snake(rules.Pluralize(entityName))
}

// DefaultColumnName derives the default column name for a Go-style
// identifier such as a field or association name.
func DefaultColumnName(name string) string {
	return snake(name)
}

// snake converts a PascalCase or camelCase identifier to snake_case,
// keeping acronym runs such as "ID" or "URL" together as one word the way
// common Go strcase implementations do.
func snake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
