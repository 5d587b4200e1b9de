// Package schema provides the building blocks for declaring entity
// metamodels: fields, edges (associations), indexes and mixins. Field names
// follow database conventions (snake_case); the corresponding Go struct
// field name is derived by the entity package from the same name.
//
// Declare an entity schema by embedding schema.Schema and implementing the
// methods you need:
//
//	type User struct{ schema.Schema }
//
//	func (User) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.String("email").Unique().MaxLen(255),
//	        field.String("name").NotEmpty().MaxLen(100),
//	    }
//	}
//
//	func (User) Edges() []schema.Edge {
//	    return []schema.Edge{
//	        edge.To("orders", Order.Type),
//	    }
//	}
//
// See the field, edge, index and mixin subpackages for the builders.
package schema

// FieldDescriptor is the fully resolved description of one declared field,
// produced by a Field builder's Descriptor method.
type FieldDescriptor struct {
	Name          string
	Info          *TypeInfo
	Nillable      bool
	Optional      bool
	Unique        bool
	Immutable     bool
	Sensitive     bool
	Default       any
	UpdateDefault any
	Comment       string
	SchemaType    map[string]string // dialect name -> column type override
	Validators    []Validator
	Annotations   []Annotation

	// Generated marks an identifier field whose value is produced by a
	// generator rather than supplied by the caller (spec §4.6 stage 6).
	Generated     bool
	// GeneratorKind is one of "sequence", "table", "identity", "assigned".
	// Empty means "identity" when Generated is true.
	GeneratorKind string
	// GeneratorName names the backing sequence/table, when applicable.
	GeneratorName string
	// ID marks this field as the entity's identifier property.
	ID bool
	// IsVersion marks this field as an optimistic-lock version column.
	IsVersion bool
}

// TypeInfo describes the Go and database shape of a field's value.
type TypeInfo struct {
	Type     Type
	Ident    string // Go type identifier, e.g. "string", "time.Time"
	Nillable bool   // true when Ident is itself a pointer or nil-able type
	Values   []string // enum members, valid when Type == TypeEnum
}

// Validator is a single validation rule attached to a field. Kind
// distinguishes which argument slot is meaningful.
type Validator struct {
	Kind string // "min", "max", "range", "match", "notempty", "tag"
	Min  float64
	Max  float64
	Text string
}

// Field is implemented by every field builder.
type Field interface {
	Descriptor() *FieldDescriptor
}

// EdgeDescriptor is the fully resolved description of one declared edge.
type EdgeDescriptor struct {
	Name        string
	Type        string // target entity name
	Ref         string // name of the inverse edge, set by edge.From
	Unique      bool
	Required    bool
	Immutable   bool
	Field       string // owning-side foreign key column, if overridden
	Through     string // join entity name, for many-to-many edges
	Comment     string
	Annotations []Annotation
}

// Edge is implemented by every edge builder.
type Edge interface {
	Descriptor() *EdgeDescriptor
}

// IndexDescriptor is the fully resolved description of one declared index.
type IndexDescriptor struct {
	Fields      []string
	Edges       []string
	Unique      bool
	StorageKey  string // custom index name override
	Annotations []Annotation
}

// Index is implemented by every index builder.
type Index interface {
	Descriptor() *IndexDescriptor
}

// Annotation carries generator-specific metadata attached to a field, edge
// or mixin. Name identifies the annotation's namespace so the consumer of
// the annotation can find it by type-asserting the concrete type.
type Annotation interface {
	Name() string
}

// Merger is implemented by annotations that know how to combine with a
// prior annotation of the same name, e.g. when a mixin's annotation and the
// embedding schema's own annotation both apply to one field.
type Merger interface {
	Merge(other Annotation) Annotation
}

// Mixin is a reusable bundle of fields, edges and indexes that can be
// embedded into more than one entity schema.
type Mixin interface {
	Fields() []Field
	Edges() []Edge
	Indexes() []Index
}

// Interface is implemented by a type declaring an entity schema.
type Interface interface {
	Fields() []Field
	Edges() []Edge
	Indexes() []Index
	Mixin() []Mixin
	Annotations() []Annotation
}

// Schema is the default implementation of Interface; embed it in a schema
// struct and override only the methods that apply.
type Schema struct{}

func (Schema) Fields() []Field            { return nil }
func (Schema) Edges() []Edge              { return nil }
func (Schema) Indexes() []Index           { return nil }
func (Schema) Mixin() []Mixin             { return nil }
func (Schema) Annotations() []Annotation  { return nil }

var _ Interface = (*Schema)(nil)

// CommentAnnotation attaches a free-text comment to a field, edge or
// schema, propagated into generated SQL as a column/table comment.
type CommentAnnotation struct {
	Text string
}

// Name implements Annotation.
func (*CommentAnnotation) Name() string { return "Comment" }

// Comment is a convenience constructor for CommentAnnotation.
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}

var _ Annotation = (*CommentAnnotation)(nil)
