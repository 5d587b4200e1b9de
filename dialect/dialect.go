// Package dialect provides the SQL-dialect abstraction that every other
// generation component consumes. No other package in this module is allowed
// to special-case a database vendor: literal formatting, identifier
// quoting, sequence semantics and feature flags are all funneled through a
// single Dialect implementation, so the emitted script stays portable.
package dialect

import "fmt"

// Dialect names, matching the driver names the connected writer accepts.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// LiteralKind selects which literal-formatting rule FormatLiteral applies.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralDecimal
	LiteralBoolean
	LiteralString
	LiteralDateTime
	LiteralBinary
	LiteralUUID
)

// Flags reports dialect capabilities that drive branch-free decisions
// elsewhere in the importer.
type Flags struct {
	// SupportsSequences reports whether the dialect has first-class
	// sequence objects (Postgres) as opposed to emulated ones (MySQL
	// auto_increment, SQLite rowid).
	SupportsSequences bool
	// SupportsCurrval reports whether a just-advanced sequence value can be
	// read back in the same session via a currval-style expression.
	SupportsCurrval bool
	// NeedsJoinedDiscriminator reports whether JOINED inheritance requires
	// a discriminator column even though the table is already 1:1 keyed to
	// its parent.
	NeedsJoinedDiscriminator bool
	// MaxStringLength is the default cap used to truncate string
	// discriminator expressions when the declarative model does not
	// specify one explicitly.
	MaxStringLength int
	// CaseInsensitiveIdentifiers reports whether unquoted identifiers are
	// folded to a single case by the server, so the registry must fold
	// names before comparing them.
	CaseInsensitiveIdentifiers bool
}

// Dialect is the read-only adapter every component consumes instead of
// branching on a database vendor directly.
type Dialect interface {
	// Name returns the dialect identifier (one of the constants above).
	Name() string
	// Flags reports this dialect's capabilities.
	Flags() Flags
	// QuoteIdentifier quotes a table or column name per the dialect's
	// quoting rule.
	QuoteIdentifier(name string) string
	// FormatLiteral renders value as a SQL literal of the given kind.
	FormatLiteral(kind LiteralKind, value any) (string, error)
	// NextSequenceExpr returns the expression that advances and yields the
	// next value of the named sequence, e.g. "nextval('seq')".
	NextSequenceExpr(seqName string) string
	// CurrvalExpr returns the expression that reads back the last value
	// produced by NextSequenceExpr in the current session. Only called
	// when Flags().SupportsCurrval is true.
	CurrvalExpr(seqName string) string
	// AlignSequenceStatement returns the trailing statement that advances
	// the named sequence past nextValue, the highest value simulated
	// during this run (spec §4.9, "alignment statement"). Returns "" when
	// Flags().SupportsSequences is false, since there is no sequence
	// object to realign.
	AlignSequenceStatement(seqName string, nextValue int64) string
	// CommentPrefix/CommentSuffix bracket a single-line SQL comment.
	CommentPrefix() string
	CommentSuffix() string
	// StatementTerminator is appended after every emitted statement.
	StatementTerminator() string
}

// ErrUnsupportedLiteral is returned by FormatLiteral when a dialect cannot
// render the requested literal kind at all (e.g. no native boolean type).
type ErrUnsupportedLiteral struct {
	Dialect string
	Kind    LiteralKind
}

func (e *ErrUnsupportedLiteral) Error() string {
	return fmt.Sprintf("dialect %s: unsupported literal kind %d", e.Dialect, e.Kind)
}
