package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/idgen"
	"github.com/fastnate-go/seedgen/registry"
)

type collectionTag struct {
	ID   int64
	Name string
}

type collectionPost struct {
	ID   int64
	Tags []*collectionTag
}

func newCollectionFixture(t *testing.T) (d dialect.Dialect, tagDesc, postDesc *ClassDescriptor) {
	t.Helper()
	d = dialect.PostgresDialect{}
	reg := registry.New(d)

	tagTable := reg.Table("tags")
	tagIDCol := tagTable.Column("id")
	tagGen := idgen.NewSequence("tags_id_seq", d)
	tagIDProp := NewIDProperty(NewPrimitive(idFieldDesc("id"), tagIDCol), tagGen)
	tagProps := newOrderedProps(tagIDProp, NewPrimitive(fieldDesc("name"), tagTable.Column("name")))
	tagDesc = &ClassDescriptor{
		entityName: "Tag", table: tagTable,
		idProperty: tagIDProp, idColumn: tagIDCol, idGenerator: tagGen,
		properties: tagProps, states: map[IdentityKey]*entityState{},
	}

	postTable := reg.Table("posts")
	postIDCol := postTable.Column("id")
	postGen := idgen.NewSequence("posts_id_seq", d)
	postIDProp := NewIDProperty(NewPrimitive(idFieldDesc("id"), postIDCol), postGen)
	coll := NewCollection("tags", "Tag", "post_tags", "post_id", "tag_id")
	postProps := newOrderedProps(postIDProp, coll)
	postDesc = &ClassDescriptor{
		entityName: "Post", table: postTable,
		idProperty: postIDProp, idColumn: postIDCol, idGenerator: postGen,
		properties: postProps, states: map[IdentityKey]*entityState{},
	}
	coll.bindOwner(postDesc)
	return d, tagDesc, postDesc
}

func resolverFor(descs map[string]*ClassDescriptor) func(string) (*ClassDescriptor, error) {
	return func(name string) (*ClassDescriptor, error) {
		d, ok := descs[name]
		if !ok {
			return nil, errEntityNotFound(name)
		}
		return d, nil
	}
}

func TestCollectionEmitsJoinRowForPersistedMember(t *testing.T) {
	d, tagDesc, postDesc := newCollectionFixture(t)
	resolve := resolverFor(map[string]*ClassDescriptor{"Tag": tagDesc, "Post": postDesc})

	tag := &collectionTag{ID: 7, Name: "go"}
	tagDesc.stateFor(NewIdentityKey(tag)).state = StatePersisted
	tagDesc.IDGenerator().Advance(7)

	post := &collectionPost{ID: 1, Tags: []*collectionTag{tag}}
	postDesc.stateFor(NewIdentityKey(post)).state = StatePersisted

	ic := &InsertContext{Dialect: d, Resolve: resolve, Entity: post}
	prop, ok := postDesc.Property("tags")
	require.True(t, ok)
	stmts, err := prop.CreatePostInsertStatements(ic)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Contains(t, stmts[0], `INSERT INTO "post_tags"`)
	require.Contains(t, stmts[0], "currval('tags_id_seq')")
}

func TestCollectionDefersUnpersistedMember(t *testing.T) {
	d, tagDesc, postDesc := newCollectionFixture(t)
	resolve := resolverFor(map[string]*ClassDescriptor{"Tag": tagDesc, "Post": postDesc})

	tag := &collectionTag{Name: "rust"}
	post := &collectionPost{ID: 2, Tags: []*collectionTag{tag}}
	postDesc.stateFor(NewIdentityKey(post)).state = StatePersisted

	ic := &InsertContext{Dialect: d, Resolve: resolve, Entity: post}
	prop, ok := postDesc.Property("tags")
	require.True(t, ok)
	stmts, err := prop.CreatePostInsertStatements(ic)
	require.NoError(t, err)
	require.Empty(t, stmts)
	require.True(t, tagDesc.IsNew(tag))

	tag.ID = 9
	tagDesc.IDGenerator().Advance(9)
	tagIC := &InsertContext{Dialect: d, Resolve: resolve, Entity: tag}
	rendered, err := tagDesc.CreatePostInsertStatements(tagIC, tag)
	require.NoError(t, err)
	require.Len(t, rendered, 1)
	require.Contains(t, rendered[0], `INSERT INTO "post_tags"`)
}
