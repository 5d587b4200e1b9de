// Package mixin provides reusable bundles of fields, edges and indexes that
// can be embedded into more than one entity schema.
//
//	type AuditMixin struct {
//	    mixin.Schema
//	}
//
//	func (AuditMixin) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.Time("created_at").Default(time.Now).Immutable(),
//	        field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
//	    }
//	}
//
// Built-in mixins cover the common id and timestamp patterns: ID, UUIDID,
// Time, CreateTime, UpdateTime and SoftDelete.
package mixin

import (
	"time"

	"github.com/google/uuid"

	"github.com/fastnate-go/seedgen/schema"
	"github.com/fastnate-go/seedgen/schema/field"
)

// Schema is the default implementation of schema.Mixin; embed it in custom
// mixin definitions and override only the methods you need.
type Schema struct{}

func (Schema) Fields() []schema.Field   { return nil }
func (Schema) Edges() []schema.Edge     { return nil }
func (Schema) Indexes() []schema.Index  { return nil }

var _ schema.Mixin = (*Schema)(nil)

// ID adds an int64 auto-increment primary key field named id.
type ID struct {
	Schema
}

func (ID) Fields() []schema.Field {
	return []schema.Field{
		field.Int64("id").ID().Generated().Immutable().Comment("Auto-incrementing primary key"),
	}
}

// UUIDID adds a UUID primary key field named id, defaulting to uuid.New.
type UUIDID struct {
	Schema
}

func (UUIDID) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id", uuid.UUID{}).ID().Default(uuid.New).Immutable(),
	}
}

// Time adds created_at and updated_at timestamp fields.
type Time struct {
	Schema
}

func (Time) Fields() []schema.Field {
	return []schema.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Comment("Timestamp when the entity was created"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("Timestamp when the entity was last updated"),
	}
}

// CreateTime adds only a created_at field.
type CreateTime struct {
	Schema
}

func (CreateTime) Fields() []schema.Field {
	return []schema.Field{
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

// UpdateTime adds only an updated_at field.
type UpdateTime struct {
	Schema
}

func (UpdateTime) Fields() []schema.Field {
	return []schema.Field{
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

// SoftDelete adds a nullable deleted_at field.
type SoftDelete struct {
	Schema
}

func (SoftDelete) Fields() []schema.Field {
	return []schema.Field{
		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("Timestamp when the entity was soft deleted (nil means not deleted)"),
	}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct {
	Schema
}

func (TimeSoftDelete) Fields() []schema.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// AnnotateFields wraps a mixin and adds annotations to all its fields.
func AnnotateFields(m schema.Mixin, annotations ...schema.Annotation) schema.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

// AnnotateEdges wraps a mixin and adds annotations to all its edges.
func AnnotateEdges(m schema.Mixin, annotations ...schema.Annotation) schema.Mixin {
	return edgeAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	schema.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []schema.Field {
	fields := a.Mixin.Fields()
	for i := range fields {
		desc := fields[i].Descriptor()
		desc.Annotations = append(desc.Annotations, a.annotations...)
	}
	return fields
}

type edgeAnnotator struct {
	schema.Mixin
	annotations []schema.Annotation
}

func (a edgeAnnotator) Edges() []schema.Edge {
	edges := a.Mixin.Edges()
	for i := range edges {
		desc := edges[i].Descriptor()
		desc.Annotations = append(desc.Annotations, a.annotations...)
	}
	return edges
}
