package edge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastnate-go/seedgen/schema/edge"
)

func TestToBuilder(t *testing.T) {
	d := edge.To("orders", "Order").Unique().Required().Comment("the order").Descriptor()

	assert.Equal(t, "orders", d.Name)
	assert.Equal(t, "Order", d.Type)
	assert.True(t, d.Unique)
	assert.True(t, d.Required)
	assert.Equal(t, "the order", d.Comment)
}

func TestFromRef(t *testing.T) {
	d := edge.From("author", "User").Ref("posts").Field("author_id").Descriptor()

	assert.Equal(t, "posts", d.Ref)
	assert.Equal(t, "author_id", d.Field)
}

func TestThrough(t *testing.T) {
	d := edge.To("tags", "Tag").Through("post_tags", "PostTag").Descriptor()
	assert.Equal(t, "post_tags", d.Through)
}

func TestImmutable(t *testing.T) {
	d := edge.To("creator", "User").Immutable().Descriptor()
	assert.True(t, d.Immutable)
}
