// Package field provides fluent builders for declaring entity fields.
//
//	field.String("email").Unique().MaxLen(255)
//	field.Int64("balance").Default(0)
//	field.Time("created_at").Immutable()
//	field.UUID("id", uuid.UUID{}).Default(uuid.New)
//	field.Enum("status").Values("pending", "active", "closed")
//	field.Decimal("price").Precision(10, 2)
package field

import (
	"github.com/fastnate-go/seedgen/schema"
)

// Re-exported so callers can write field.TypeString instead of importing
// the schema package separately.
const (
	TypeInvalid      = schema.TypeInvalid
	TypeBool         = schema.TypeBool
	TypeInt8         = schema.TypeInt8
	TypeInt16        = schema.TypeInt16
	TypeInt32        = schema.TypeInt32
	TypeInt64        = schema.TypeInt64
	TypeInt          = schema.TypeInt
	TypeUint8        = schema.TypeUint8
	TypeUint16       = schema.TypeUint16
	TypeUint32       = schema.TypeUint32
	TypeUint64       = schema.TypeUint64
	TypeUint         = schema.TypeUint
	TypeFloat32      = schema.TypeFloat32
	TypeFloat64      = schema.TypeFloat64
	TypeDecimal      = schema.TypeDecimal
	TypeString       = schema.TypeString
	TypeText         = schema.TypeText
	TypeBytes        = schema.TypeBytes
	TypeTime         = schema.TypeTime
	TypeUUID         = schema.TypeUUID
	TypeEnum         = schema.TypeEnum
	TypeJSON         = schema.TypeJSON
	TypeOther        = schema.TypeOther
	TypeValueScanner = schema.TypeValueScanner
)

// Type is an alias of schema.Type, re-exported for convenience.
type Type = schema.Type

// builder is the common fluent core shared by every typed field constructor.
// It implements schema.Field.
type builder struct {
	desc schema.FieldDescriptor
}

func newBuilder(name string, typ Type, ident string) *builder {
	return &builder{desc: schema.FieldDescriptor{
		Name: name,
		Info: &schema.TypeInfo{Type: typ, Ident: ident},
	}}
}

// Descriptor implements schema.Field.
func (b *builder) Descriptor() *schema.FieldDescriptor { return &b.desc }

func (b *builder) Unique() *builder    { b.desc.Unique = true; return b }
func (b *builder) Optional() *builder  { b.desc.Optional = true; return b }
func (b *builder) Nillable() *builder  { b.desc.Nillable = true; b.desc.Info.Nillable = true; return b }
func (b *builder) Immutable() *builder { b.desc.Immutable = true; return b }
func (b *builder) Sensitive() *builder { b.desc.Sensitive = true; return b }
func (b *builder) Comment(text string) *builder {
	b.desc.Comment = text
	return b
}
func (b *builder) Default(v any) *builder {
	b.desc.Default = v
	return b
}
func (b *builder) UpdateDefault(v any) *builder {
	b.desc.UpdateDefault = v
	return b
}
func (b *builder) SchemaType(byDialect map[string]string) *builder {
	b.desc.SchemaType = byDialect
	return b
}
func (b *builder) Annotations(annotations ...schema.Annotation) *builder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// ID marks this field as the entity's identifier property.
func (b *builder) ID() *builder { b.desc.ID = true; return b }

// Generated marks this field as identity-generated. On a dialect with
// sequences the INSERT takes the value from the column's implicit sequence
// (<table>_<column>_seq); elsewhere it comes from the database's
// auto-increment column and the INSERT omits the column.
func (b *builder) Generated() *builder {
	b.desc.Generated = true
	b.desc.GeneratorKind = "identity"
	return b
}

// GeneratedBy marks this field as generated by the named sequence or
// counter table, kind being "sequence" or "table".
func (b *builder) GeneratedBy(kind, name string) *builder {
	b.desc.Generated = true
	b.desc.GeneratorKind = kind
	b.desc.GeneratorName = name
	return b
}

// Version marks an integer field as an optimistic-lock version column.
func (b *builder) Version() *builder {
	b.desc.IsVersion = true
	return b
}
func (b *builder) validator(v schema.Validator) *builder {
	b.desc.Validators = append(b.desc.Validators, v)
	return b
}
func (b *builder) MinLen(n int) *builder   { return b.validator(schema.Validator{Kind: "min", Min: float64(n)}) }
func (b *builder) MaxLen(n int) *builder   { return b.validator(schema.Validator{Kind: "max", Max: float64(n)}) }
func (b *builder) NotEmpty() *builder      { return b.validator(schema.Validator{Kind: "notempty"}) }
func (b *builder) Match(re string) *builder {
	return b.validator(schema.Validator{Kind: "match", Text: re})
}
func (b *builder) Min(n float64) *builder { return b.validator(schema.Validator{Kind: "min", Min: n}) }
func (b *builder) Max(n float64) *builder { return b.validator(schema.Validator{Kind: "max", Max: n}) }
func (b *builder) Range(lo, hi float64) *builder {
	return b.validator(schema.Validator{Kind: "range", Min: lo, Max: hi})
}
func (b *builder) Positive() *builder     { return b.Min(1) }
func (b *builder) NonNegative() *builder  { return b.Min(0) }
func (b *builder) ValidateCreate(tag string) *builder {
	return b.validator(schema.Validator{Kind: "tag", Text: tag})
}

var _ schema.Field = (*builder)(nil)

// Bool declares a boolean field.
func Bool(name string) *builder { return newBuilder(name, TypeBool, "bool") }

// String declares a bounded VARCHAR-style string field.
func String(name string) *builder { return newBuilder(name, TypeString, "string") }

// Text declares an unbounded text field.
func Text(name string) *builder { return newBuilder(name, TypeText, "string") }

// Bytes declares a binary field.
func Bytes(name string) *builder { return newBuilder(name, TypeBytes, "[]byte") }

// Int declares a platform-width integer field.
func Int(name string) *builder { return newBuilder(name, TypeInt, "int") }

// Int8/Int16/Int32/Int64 declare fixed-width signed integer fields.
func Int8(name string) *builder  { return newBuilder(name, TypeInt8, "int8") }
func Int16(name string) *builder { return newBuilder(name, TypeInt16, "int16") }
func Int32(name string) *builder { return newBuilder(name, TypeInt32, "int32") }
func Int64(name string) *builder { return newBuilder(name, TypeInt64, "int64") }

// Uint/Uint8/Uint16/Uint32/Uint64 declare unsigned integer fields.
func Uint(name string) *builder   { return newBuilder(name, TypeUint, "uint") }
func Uint8(name string) *builder  { return newBuilder(name, TypeUint8, "uint8") }
func Uint16(name string) *builder { return newBuilder(name, TypeUint16, "uint16") }
func Uint32(name string) *builder { return newBuilder(name, TypeUint32, "uint32") }
func Uint64(name string) *builder { return newBuilder(name, TypeUint64, "uint64") }

// Float32/Float64 declare floating point fields.
func Float32(name string) *builder { return newBuilder(name, TypeFloat32, "float32") }
func Float64(name string) *builder { return newBuilder(name, TypeFloat64, "float64") }

// Time declares a timestamp field.
func Time(name string) *builder { return newBuilder(name, TypeTime, "time.Time") }

// UUID declares a UUID field. goType is used only to pick an Ident string;
// pass uuid.UUID{}.
func UUID(name string, goType any) *builder {
	return newBuilder(name, TypeUUID, "uuid.UUID")
}

// decimalBuilder adds Precision/Scale on top of the common builder, for
// exact-numeric fields backed by shopspring/decimal.
type decimalBuilder struct {
	*builder
	precision, scale int
}

// Decimal declares an exact-numeric field (shopspring/decimal-backed).
func Decimal(name string) *decimalBuilder {
	return &decimalBuilder{builder: newBuilder(name, TypeDecimal, "decimal.Decimal")}
}

// Precision sets the total digit count and scale (digits after the point).
func (d *decimalBuilder) Precision(precision, scale int) *decimalBuilder {
	d.precision, d.scale = precision, scale
	return d
}

// Precision and Scale report the values set via Precision.
func (d *decimalBuilder) DecimalPrecision() (precision, scale int) { return d.precision, d.scale }

// enumBuilder adds Values on top of the common builder.
type enumBuilder struct {
	*builder
}

// Enum declares a field restricted to a fixed set of string values.
func Enum(name string) *enumBuilder {
	return &enumBuilder{builder: newBuilder(name, TypeEnum, "string")}
}

// Values sets the allowed enum members.
func (e *enumBuilder) Values(values ...string) *enumBuilder {
	e.desc.Info.Values = values
	return e
}

// JSON declares a field serialized as JSON. goType is used only to describe
// the Go shape in generated documentation.
func JSON(name string, goType any) *builder {
	return newBuilder(name, TypeJSON, "json")
}

// Other declares a field with a custom Go type requiring a dialect-specific
// SchemaType override and its own value scanning.
func Other(name string, goType any) *builder {
	return newBuilder(name, TypeOther, "any")
}
