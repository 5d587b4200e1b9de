package dialect

import "strings"

// SQLiteDialect implements Dialect for the pure-Go modernc.org/sqlite driver.
//
// SQLite has no sequence objects either; rowid-backed INTEGER PRIMARY KEY
// columns are modeled with idgen.Identity and last_insert_rowid(). Because
// every SQLite table is ultimately rowid-addressable, JOINED inheritance
// does not require a discriminator column to disambiguate storage, but one
// is still useful to disambiguate the logical subclass, so this dialect
// reports NeedsJoinedDiscriminator=false in line with the engine's own
// lack of a structural need for it.
type SQLiteDialect struct{}

var _ Dialect = SQLiteDialect{}

func (SQLiteDialect) Name() string { return SQLite }

func (SQLiteDialect) Flags() Flags {
	return Flags{
		SupportsSequences:          false,
		SupportsCurrval:            false,
		NeedsJoinedDiscriminator:   false,
		MaxStringLength:            31,
		CaseInsensitiveIdentifiers: false,
	}
}

func (SQLiteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d SQLiteDialect) FormatLiteral(kind LiteralKind, value any) (string, error) {
	return formatLiteralStandard(d, kind, value)
}

func (SQLiteDialect) NextSequenceExpr(string) string { return "" }

func (SQLiteDialect) CurrvalExpr(string) string {
	return "last_insert_rowid()"
}

// AlignSequenceStatement returns "": SQLite has no sequence object either.
func (SQLiteDialect) AlignSequenceStatement(string, int64) string { return "" }

func (SQLiteDialect) CommentPrefix() string       { return "-- " }
func (SQLiteDialect) CommentSuffix() string        { return "" }
func (SQLiteDialect) StatementTerminator() string { return ";" }
