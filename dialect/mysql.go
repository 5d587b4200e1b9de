package dialect

import (
	"fmt"
	"strings"
)

// MySQLDialect implements Dialect for MySQL / MariaDB targets.
//
// MySQL has no native sequence object; IDENTITY-style auto_increment columns
// are modeled as an idgen.Identity generator that reads back
// last_insert_id() instead of a sequence nextval. JOINED inheritance still
// needs a discriminator column on MySQL because there is no portable way to
// derive the concrete subclass from the table alone when multiple JOINED
// children share the root's table space.
type MySQLDialect struct{}

var _ Dialect = MySQLDialect{}

func (MySQLDialect) Name() string { return MySQL }

func (MySQLDialect) Flags() Flags {
	return Flags{
		SupportsSequences:          false,
		SupportsCurrval:            false,
		NeedsJoinedDiscriminator:   true,
		MaxStringLength:            31,
		CaseInsensitiveIdentifiers: true,
	}
}

func (MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d MySQLDialect) FormatLiteral(kind LiteralKind, value any) (string, error) {
	if kind == LiteralString {
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%s: FormatLiteral(string): got %T", d.Name(), value)
		}
		return mysqlQuoteString(s), nil
	}
	return formatLiteralStandard(d, kind, value)
}

func (MySQLDialect) NextSequenceExpr(string) string {
	// MySQL has no sequence object; auto_increment columns are handled by
	// idgen.Identity, which emits no explicit value here.
	return ""
}

func (MySQLDialect) CurrvalExpr(string) string {
	return "LAST_INSERT_ID()"
}

// AlignSequenceStatement returns "": MySQL has no sequence object, so
// auto_increment realignment would need the owning table/column, not just
// a generator name, and is out of scope for a generator with no sequence
// semantics to begin with.
func (MySQLDialect) AlignSequenceStatement(string, int64) string { return "" }

func (MySQLDialect) CommentPrefix() string       { return "-- " }
func (MySQLDialect) CommentSuffix() string        { return "" }
func (MySQLDialect) StatementTerminator() string { return ";" }

// mysqlQuoteString escapes both single quotes and backslashes, matching the
// escaping idiom used by the driver layer this dialect pairs with.
func mysqlQuoteString(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return "'" + s + "'"
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}
