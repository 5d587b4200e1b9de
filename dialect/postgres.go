package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostgresDialect implements Dialect for PostgreSQL / pgx / lib/pq targets.
type PostgresDialect struct{}

var _ Dialect = PostgresDialect{}

func (PostgresDialect) Name() string { return Postgres }

func (PostgresDialect) Flags() Flags {
	return Flags{
		SupportsSequences:          true,
		SupportsCurrval:            true,
		NeedsJoinedDiscriminator:   false,
		MaxStringLength:            31,
		CaseInsensitiveIdentifiers: true,
	}
}

func (PostgresDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d PostgresDialect) FormatLiteral(kind LiteralKind, value any) (string, error) {
	return formatLiteralStandard(d, kind, value)
}

func (PostgresDialect) NextSequenceExpr(seqName string) string {
	return fmt.Sprintf("nextval(%s)", quoteSeqLiteral(seqName))
}

func (PostgresDialect) CurrvalExpr(seqName string) string {
	return fmt.Sprintf("currval(%s)", quoteSeqLiteral(seqName))
}

func (PostgresDialect) AlignSequenceStatement(seqName string, nextValue int64) string {
	return fmt.Sprintf("SELECT setval(%s, %d)", quoteSeqLiteral(seqName), nextValue)
}

func (PostgresDialect) CommentPrefix() string       { return "-- " }
func (PostgresDialect) CommentSuffix() string        { return "" }
func (PostgresDialect) StatementTerminator() string { return ";" }

func quoteSeqLiteral(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// formatLiteralStandard implements the ANSI-ish literal formatting shared by
// Postgres and SQLite; MySQL overrides string escaping for backslashes.
func formatLiteralStandard(d Dialect, kind LiteralKind, value any) (string, error) {
	if value == nil {
		return "NULL", nil
	}
	switch kind {
	case LiteralBoolean:
		b, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("%s: FormatLiteral(bool): got %T", d.Name(), value)
		}
		if b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case LiteralInteger:
		return fmt.Sprintf("%d", value), nil
	case LiteralDecimal:
		switch v := value.(type) {
		case decimal.Decimal:
			return v.String(), nil
		case float32:
			return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		default:
			return fmt.Sprintf("%v", v), nil
		}
	case LiteralString:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%s: FormatLiteral(string): got %T", d.Name(), value)
		}
		return quoteString(s), nil
	case LiteralDateTime:
		t, ok := value.(time.Time)
		if !ok {
			return "", fmt.Errorf("%s: FormatLiteral(datetime): got %T", d.Name(), value)
		}
		return quoteString(t.UTC().Format("2006-01-02 15:04:05.999999-07")), nil
	case LiteralUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return quoteString(v.String()), nil
		case string:
			return quoteString(v), nil
		default:
			return "", fmt.Errorf("%s: FormatLiteral(uuid): got %T", d.Name(), value)
		}
	case LiteralBinary:
		b, ok := value.([]byte)
		if !ok {
			return "", fmt.Errorf("%s: FormatLiteral(binary): got %T", d.Name(), value)
		}
		return formatBinary(d.Name(), b), nil
	default:
		return "", &ErrUnsupportedLiteral{Dialect: d.Name(), Kind: kind}
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatBinary(dialectName string, b []byte) string {
	switch dialectName {
	case MySQL, SQLite:
		return "X'" + fmt.Sprintf("%x", b) + "'"
	default: // Postgres bytea hex format
		return "'\\x" + fmt.Sprintf("%x", b) + "'"
	}
}
