package entity

import (
	"fmt"
	"reflect"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/schema"
)

// goFieldName derives the exported Go struct field name from a declared
// attribute name by PascalCasing its underscore-separated segments, with
// an "id" segment written as the Go initialism "ID" (field.Int64("user_id")
// maps to the Go field UserID, field.Int64("id") to ID).
func goFieldName(attr string) string {
	out := make([]byte, 0, len(attr))
	upperNext := true
	for i := 0; i < len(attr); i++ {
		c := attr[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext && c == 'i' && i+1 < len(attr) && attr[i+1] == 'd' && (i+2 == len(attr) || attr[i+2] == '_') {
			out = append(out, 'I', 'D')
			i++
			upperNext = false
			continue
		}
		if upperNext && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		out = append(out, c)
	}
	return string(out)
}

// isNilValue reports whether v holds a nil pointer, interface, map or
// slice — the kinds an association field can legitimately be unset with.
func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// fieldValue reads the named attribute's value off entity, which must be a
// pointer to a struct.
func fieldValue(entityPtr any, attr string) (reflect.Value, error) {
	rv := reflect.ValueOf(entityPtr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("entity: expected non-nil pointer to struct, got %T", entityPtr)
	}
	elem := rv.Elem()
	fv := elem.FieldByName(goFieldName(attr))
	if !fv.IsValid() {
		return reflect.Value{}, fmt.Errorf("entity: field %q (%s) not found on %T", attr, goFieldName(attr), entityPtr)
	}
	return fv, nil
}

// literalKindFor maps a declared field type to the dialect literal kind
// used to format its value.
func literalKindFor(t schema.Type) dialect.LiteralKind {
	switch t {
	case schema.TypeBool:
		return dialect.LiteralBoolean
	case schema.TypeTime:
		return dialect.LiteralDateTime
	case schema.TypeUUID:
		return dialect.LiteralUUID
	case schema.TypeBytes:
		return dialect.LiteralBinary
	case schema.TypeDecimal, schema.TypeFloat32, schema.TypeFloat64:
		return dialect.LiteralDecimal
	case schema.TypeString, schema.TypeText, schema.TypeEnum, schema.TypeJSON, schema.TypeOther:
		return dialect.LiteralString
	default:
		if t.Numeric() {
			return dialect.LiteralInteger
		}
		return dialect.LiteralString
	}
}

// formatValue renders v (read via fieldValue) as a dialect literal; a nil
// pointer renders as NULL.
func formatValue(d dialect.Dialect, t schema.Type, v reflect.Value) (string, error) {
	var value any
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "NULL", nil
		}
		value = v.Elem().Interface()
	} else {
		value = v.Interface()
	}
	return d.FormatLiteral(literalKindFor(t), value)
}
