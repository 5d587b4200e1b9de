package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastnate-go/seedgen/schema/index"
)

func TestFieldsIndex(t *testing.T) {
	d := index.Fields("first", "last").Descriptor()
	assert.Equal(t, []string{"first", "last"}, d.Fields)
	assert.False(t, d.Unique)
}

func TestUniqueIndex(t *testing.T) {
	d := index.Fields("email").Unique().Descriptor()
	assert.True(t, d.Unique)
}

func TestEdgesIndex(t *testing.T) {
	d := index.Edges("parent").Descriptor()
	assert.Equal(t, []string{"parent"}, d.Edges)
}

func TestMixedFieldsAndEdges(t *testing.T) {
	d := index.Fields("name").Edges("parent").Descriptor()
	assert.Equal(t, []string{"name"}, d.Fields)
	assert.Equal(t, []string{"parent"}, d.Edges)
}

func TestStorageKey(t *testing.T) {
	d := index.Fields("name").Unique().StorageKey("idx_name").Descriptor()
	assert.Equal(t, "idx_name", d.StorageKey)
	assert.True(t, d.Unique)
}
