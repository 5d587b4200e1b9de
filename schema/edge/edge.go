// Package edge provides fluent builders for declaring entity associations.
//
//	edge.To("orders", Order.Type)                      // one-to-many
//	edge.To("profile", Profile.Type).Unique()          // one-to-one
//	edge.From("author", User.Type).Ref("posts")         // inverse of a To edge
//	edge.To("tags", Tag.Type).Through("post_tags", PostTag.Type) // many-to-many
package edge

import "github.com/fastnate-go/seedgen/schema"

type builder struct {
	desc schema.EdgeDescriptor
}

// Descriptor implements schema.Edge.
func (b *builder) Descriptor() *schema.EdgeDescriptor { return &b.desc }

// To declares the owning side of an association to the named target entity
// type. target is conventionally written as TargetEntity.Type, a sentinel
// value whose only purpose is to name the target at the call site.
func To(name string, target any) *builder {
	return &builder{desc: schema.EdgeDescriptor{Name: name, Type: typeName(target)}}
}

// From declares the inverse side of an association declared with To
// elsewhere; Ref must name that edge.
func From(name string, target any) *builder {
	return &builder{desc: schema.EdgeDescriptor{Name: name, Type: typeName(target)}}
}

func (b *builder) Ref(edgeName string) *builder {
	b.desc.Ref = edgeName
	return b
}

func (b *builder) Unique() *builder   { b.desc.Unique = true; return b }
func (b *builder) Required() *builder { b.desc.Required = true; return b }
func (b *builder) Immutable() *builder { b.desc.Immutable = true; return b }
func (b *builder) Comment(text string) *builder {
	b.desc.Comment = text
	return b
}

// Field names the owning-side foreign-key column explicitly, overriding the
// default derived from the edge name.
func (b *builder) Field(column string) *builder {
	b.desc.Field = column
	return b
}

// Through declares a many-to-many edge realized via the named join entity.
func (b *builder) Through(joinTable string, joinEntity any) *builder {
	b.desc.Through = joinTable
	return b
}

func (b *builder) Annotations(annotations ...schema.Annotation) *builder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

var _ schema.Edge = (*builder)(nil)

// typeName extracts a printable entity name from the sentinel value passed
// as an edge's target, without requiring reflection on a full type.
func typeName(target any) string {
	if s, ok := target.(string); ok {
		return s
	}
	if n, ok := target.(interface{ EntityName() string }); ok {
		return n.EntityName()
	}
	return ""
}
