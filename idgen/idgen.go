// Package idgen implements the identifier-generator variants (component D):
// sequence, table, identity and assigned generators, each tracking its
// current value well enough to support currval-style back-references.
package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fastnate-go/seedgen/dialect"
)

// Kind identifies a generator variant.
type Kind int

const (
	KindSequence Kind = iota
	KindTable
	KindIdentity
	KindAssigned
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindTable:
		return "table"
	case KindIdentity:
		return "identity"
	case KindAssigned:
		return "assigned"
	default:
		return "unknown"
	}
}

// Generator produces the expression used to populate a generated
// identifier column, and tracks enough state to answer CurrentValue for a
// currval-style back-reference (spec §4.4, §4.8).
type Generator interface {
	Kind() Kind
	Name() string
	// NextValueExpr returns the dialect expression to place in the INSERT's
	// value list for this identifier. An empty string means "omit the
	// column from the INSERT" (Identity and Assigned-without-literal
	// variants), and the post-insert step must look the value up another
	// way.
	NextValueExpr() string
	// Advance records that a value has just been produced (called once per
	// row inserted with this generator), for generators that track a
	// monotonic counter.
	Advance(value int64)
	// CurrentValue returns the last value Advance recorded, or ok=false if
	// none has been produced yet.
	CurrentValue() (int64, bool)
}

// Sequence wraps a dialect sequence object.
type Sequence struct {
	name    string
	dialect dialect.Dialect
	mu      sync.Mutex
	current int64
	hasVal  bool
}

// NewSequence creates a sequence-backed generator named name.
func NewSequence(name string, d dialect.Dialect) *Sequence {
	return &Sequence{name: name, dialect: d}
}

var _ Generator = (*Sequence)(nil)

func (s *Sequence) Kind() Kind   { return KindSequence }
func (s *Sequence) Name() string { return s.name }

func (s *Sequence) NextValueExpr() string {
	return s.dialect.NextSequenceExpr(s.name)
}

func (s *Sequence) Advance(value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.hasVal = value, true
}

func (s *Sequence) CurrentValue() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasVal
}

// Table emulates a sequence using a dedicated counter table, for dialects
// without native sequences. The UPDATE+SELECT pattern is delegated to the
// caller (sqlgen) because it requires two statements rather than a single
// expression; NextValueExpr therefore returns the SELECT half, and the
// caller is responsible for emitting the UPDATE pre-insert statement first.
type Table struct {
	name      string
	tableName string
	column    string
	dialect   dialect.Dialect
	mu        sync.Mutex
	current   int64
	hasVal    bool
}

// NewTable creates a table-backed generator reading/writing column in
// tableName.
func NewTable(name, tableName, column string, d dialect.Dialect) *Table {
	return &Table{name: name, tableName: tableName, column: column, dialect: d}
}

var _ Generator = (*Table)(nil)

func (t *Table) Kind() Kind   { return KindTable }
func (t *Table) Name() string { return t.name }

// UpdateStatement returns the pre-insert UPDATE that advances the counter.
func (t *Table) UpdateStatement() string {
	col := t.dialect.QuoteIdentifier(t.column)
	return fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE name = %s",
		t.dialect.QuoteIdentifier(t.tableName), col, col, mustLiteral(t.dialect, t.name))
}

// SelectExpr returns the sub-select expression read after the UPDATE.
func (t *Table) SelectExpr() string {
	return fmt.Sprintf("(SELECT %s FROM %s WHERE name = %s)",
		t.dialect.QuoteIdentifier(t.column), t.dialect.QuoteIdentifier(t.tableName), mustLiteral(t.dialect, t.name))
}

func (t *Table) NextValueExpr() string { return t.SelectExpr() }

func (t *Table) Advance(value int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current, t.hasVal = value, true
}

func (t *Table) CurrentValue() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.hasVal
}

func mustLiteral(d dialect.Dialect, s string) string {
	lit, err := d.FormatLiteral(dialect.LiteralString, s)
	if err != nil {
		// Every dialect in this module supports string literals; a failure
		// here indicates a broken Dialect implementation, not bad input.
		panic(err)
	}
	return lit
}

// Identity models an auto-increment/IDENTITY column. It never emits an
// explicit insert value; the post-insert step reads the database's
// last-insert-id expression via the dialect.
type Identity struct {
	mu      sync.Mutex
	current int64
	hasVal  bool
}

// NewIdentity creates an identity-backed generator.
func NewIdentity() *Identity { return &Identity{} }

var _ Generator = (*Identity)(nil)

func (i *Identity) Kind() Kind          { return KindIdentity }
func (i *Identity) Name() string        { return "" }
func (i *Identity) NextValueExpr() string { return "" }

func (i *Identity) Advance(value int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.current, i.hasVal = value, true
}

func (i *Identity) CurrentValue() (int64, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current, i.hasVal
}

// Assigned models a caller-provided literal identifier (including
// UUID-valued identifiers). No tracking occurs: the value is always
// already known.
type Assigned struct {
	// DefaultFunc holds a value supplier (uuid.New for NewAssignedUUID).
	// No component in this module calls it: an Assigned id is rendered
	// from the entity's own field as it is.
	DefaultFunc func() any
}

// NewAssignedUUID returns an Assigned generator whose DefaultFunc returns
// a random UUID.
func NewAssignedUUID() *Assigned {
	return &Assigned{DefaultFunc: func() any { return uuid.New() }}
}

var _ Generator = (*Assigned)(nil)

func (*Assigned) Kind() Kind            { return KindAssigned }
func (*Assigned) Name() string          { return "" }
func (*Assigned) NextValueExpr() string { return "" }
func (*Assigned) Advance(int64)         {}
func (*Assigned) CurrentValue() (int64, bool) { return 0, false }
