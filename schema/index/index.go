// Package index provides fluent builders for declaring database indexes.
//
//	index.Fields("email").Unique()
//	index.Fields("status", "created_at")
//	index.Edges("parent")
package index

import "github.com/fastnate-go/seedgen/schema"

type builder struct {
	desc schema.IndexDescriptor
}

// Descriptor implements schema.Index.
func (b *builder) Descriptor() *schema.IndexDescriptor { return &b.desc }

// Fields declares an index over the named field columns.
func Fields(names ...string) *builder {
	return &builder{desc: schema.IndexDescriptor{Fields: names}}
}

// Edges declares an index over the foreign-key columns of the named edges.
func Edges(names ...string) *builder {
	return &builder{desc: schema.IndexDescriptor{Edges: names}}
}

func (b *builder) Fields(names ...string) *builder {
	b.desc.Fields = append(b.desc.Fields, names...)
	return b
}

func (b *builder) Edges(names ...string) *builder {
	b.desc.Edges = append(b.desc.Edges, names...)
	return b
}

func (b *builder) Unique() *builder { b.desc.Unique = true; return b }

// StorageKey overrides the generated index name.
func (b *builder) StorageKey(name string) *builder {
	b.desc.StorageKey = name
	return b
}

func (b *builder) Annotations(annotations ...schema.Annotation) *builder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

var _ schema.Index = (*builder)(nil)
