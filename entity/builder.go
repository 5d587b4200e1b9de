package entity

import (
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/singleflight"

	"github.com/fastnate-go/seedgen"
	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/idgen"
	"github.com/fastnate-go/seedgen/registry"
	"github.com/fastnate-go/seedgen/schema"
)

// SchemaParent is implemented by an entity schema that extends another
// entity (spec §4.6, stage 4): Parent names the ancestor entity and the
// inheritance strategy reaching it. An empty entityName means "no parent".
type SchemaParent interface {
	Parent() (entityName string, strategy InheritanceType)
}

// SchemaDiscriminator is implemented by a single-table-inheritance leaf
// schema to declare its discriminator column and literal value (spec §4.6,
// stage 5).
type SchemaDiscriminator interface {
	Discriminator() (column, value string)
}

// SchemaTableName is implemented by a schema definition that overrides the
// default pluralized table name (spec §4.6, stage 1).
type SchemaTableName interface {
	TableName() string
}

// BuildConfig tunes the unique-key alternate selection (spec §4.6, stage 8).
type BuildConfig struct {
	// MinUniqueKeyQuality is the lowest-ranked alternate the build phase
	// accepts; candidates ranked below it are ignored. The zero value,
	// QualityAllowsNulls, accepts any candidate.
	MinUniqueKeyQuality Quality
	// MaxUniqueProperties caps the column count of a unique-key alternate
	// candidate (spec §4.6, stage 8: "every @UniqueConstraint whose column
	// count <= maxUniqueProperties"); 0 disables alternates entirely (spec
	// §6).
	MaxUniqueProperties int
}

// Builder resolves schema.Interface definitions into ClassDescriptors,
// memoizing each entity name's build so that concurrent first references
// never duplicate work (spec invariant 1: "descriptor construction is
// idempotent and memoized").
type Builder struct {
	dialect  dialect.Dialect
	registry *registry.Registry
	cfg      BuildConfig

	group singleflight.Group

	mu    sync.Mutex
	defs  map[string]schema.Interface
	cache map[string]*ClassDescriptor
}

// NewBuilder creates a Builder that resolves column identities against reg
// and renders literals/expressions against d.
func NewBuilder(reg *registry.Registry, d dialect.Dialect, cfg BuildConfig) *Builder {
	return &Builder{
		dialect:  d,
		registry: reg,
		cfg:      cfg,
		defs:     map[string]schema.Interface{},
		cache:    map[string]*ClassDescriptor{},
	}
}

// Descriptors returns every ClassDescriptor built so far, for an
// end-of-run residual-pending-state scan (spec §7).
func (b *Builder) Descriptors() []*ClassDescriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*ClassDescriptor, 0, len(b.cache))
	for _, d := range b.cache {
		out = append(out, d)
	}
	return out
}

// Register associates an entity name with its schema definition. Every
// entity reachable through an EntityReference, Collection or Map property
// must be registered before any of them are built, since Build resolves
// those targets by looking the name up here.
func (b *Builder) Register(entityName string, def schema.Interface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defs[entityName] = def
}

// Resolve implements the InsertContext.Resolve contract: build, or fetch the
// already-built descriptor for, the named entity.
func (b *Builder) Resolve(entityName string) (*ClassDescriptor, error) {
	return b.Build(entityName)
}

// Build resolves the ClassDescriptor for the named entity, running the
// eight-stage build process exactly once even under concurrent callers.
func (b *Builder) Build(entityName string) (*ClassDescriptor, error) {
	// An already cached descriptor, including a shell whose fill is still
	// running further up this call stack, is returned directly: a nested
	// group.Do on the same key would wait on its own in-flight call.
	b.mu.Lock()
	if d, ok := b.cache[entityName]; ok {
		b.mu.Unlock()
		return d, nil
	}
	b.mu.Unlock()

	v, err, _ := b.group.Do(entityName, func() (any, error) {
		b.mu.Lock()
		if d, ok := b.cache[entityName]; ok {
			b.mu.Unlock()
			return d, nil
		}
		def, ok := b.defs[entityName]
		if !ok {
			b.mu.Unlock()
			return nil, seedgen.NewModelError(entityName, "no schema registered for this entity")
		}
		d := &ClassDescriptor{entityName: entityName, states: map[IdentityKey]*entityState{}}
		// Cache the shell immediately: a cyclic Parent()/edge reference back
		// to entityName during fill resolves to this same instance instead
		// of recursing forever.
		b.cache[entityName] = d
		b.mu.Unlock()

		if err := b.fill(d, def); err != nil {
			return nil, err
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ClassDescriptor), nil
}

// fill runs the build process against the freshly allocated shell d (spec
// §4.6).
func (b *Builder) fill(d *ClassDescriptor, def schema.Interface) error {
	// Stage 1: resolve the table name (annotation or entity name).
	tableName := registry.DefaultTableName(d.entityName)
	if tn, ok := def.(SchemaTableName); ok {
		tableName = tn.TableName()
	}
	d.table = b.registry.Table(tableName)

	// Stage 4: inheritance resolution, tolerant of a cycle resolving back
	// to the shell already cached for this entity name.
	d.inheritance = InheritanceNone
	d.hierarchyRoot = d
	if sp, ok := def.(SchemaParent); ok {
		parentName, strategy := sp.Parent()
		if parentName != "" {
			parent, err := b.Build(parentName)
			if err != nil {
				return fmt.Errorf("entity: %s: resolving parent %q: %w", d.entityName, parentName, err)
			}
			d.inheritance = strategy
			if strategy == InheritanceJoined {
				d.joinedParent = parent
			}
			if parent.hierarchyRoot != nil {
				d.hierarchyRoot = parent.hierarchyRoot
			} else {
				d.hierarchyRoot = parent
			}
		}
	}

	// Stage 5: discriminator.
	if disc, ok := def.(SchemaDiscriminator); ok {
		column, value := disc.Discriminator()
		if column != "" {
			d.discriminatorColumn = d.table.Column(column)
			lit, err := b.dialect.FormatLiteral(dialect.LiteralString, value)
			if err != nil {
				return err
			}
			d.discriminatorExpr = lit
		}
	}

	// Stage 2: gather fields/edges/indexes, mixins resolving first so a
	// schema's own declaration with the same name takes precedence.
	fields := collectFields(def)
	edges := collectEdges(def)
	indexes := collectIndexes(def)

	d.properties = orderedmap.New[string, Property]()

	// Stages 3 and 6: identifier property and its generator.
	for _, f := range fields {
		desc := f.Descriptor()
		if !desc.ID {
			continue
		}
		column := d.table.Column(registry.DefaultColumnName(desc.Name))
		prim := NewPrimitive(desc, column)
		gen, err := b.buildGenerator(desc, d.table.Name, column.Name)
		if err != nil {
			return err
		}
		idProp := NewIDProperty(prim, gen)
		d.idProperty = idProp
		d.idColumn = column
		d.idGenerator = gen
		d.properties.Set(desc.Name, idProp)
		break
	}
	if d.idProperty == nil && d.joinedParent != nil {
		d.idProperty = d.joinedParent.idProperty
		d.idColumn = d.joinedParent.idColumn
		d.idGenerator = d.joinedParent.idGenerator
	}

	// Stage 7: remaining properties, in declared order.
	for _, f := range fields {
		desc := f.Descriptor()
		if desc.ID {
			continue
		}
		column := d.table.Column(registry.DefaultColumnName(desc.Name))
		prim := NewPrimitive(desc, column)
		var prop Property = prim
		if desc.IsVersion {
			prop = NewVersion(prim)
		}
		d.properties.Set(desc.Name, prop)
	}

	for _, e := range edges {
		desc := e.Descriptor()
		if desc.Ref != "" {
			// Inverse/view-only declaration: the owning-side column lives
			// on the referenced entity's own schema.
			continue
		}
		if desc.Unique {
			columnName := desc.Field
			if columnName == "" {
				columnName = registry.DefaultColumnName(desc.Name) + "_id"
			}
			column := d.table.Column(columnName)
			d.properties.Set(desc.Name, NewEntityReference(desc.Name, column, desc.Required, desc.Type))
			continue
		}
		if desc.Through != "" {
			ownerColumn := registry.DefaultColumnName(d.entityName) + "_id"
			targetColumn := registry.DefaultColumnName(desc.Type) + "_id"
			d.properties.Set(desc.Name, NewCollection(desc.Name, desc.Type, desc.Through, ownerColumn, targetColumn))
			continue
		}
		// A plain (non-unique, non-Through) forward edge is the "one" side
		// of a one-to-many relation whose foreign key lives on the target
		// entity's own schema; it contributes no property here.
	}

	for pair := d.properties.Oldest(); pair != nil; pair = pair.Next() {
		if ob, ok := pair.Value.(ownerBinder); ok {
			ob.bindOwner(d)
		}
	}

	// Stage 8: unique-key alternate selection.
	d.uniqueKey = b.selectUniqueKey(d, fields, indexes)

	return nil
}

// buildGenerator constructs the identifier generator a field descriptor
// calls for (spec §4.6, stage 6).
func (b *Builder) buildGenerator(desc *schema.FieldDescriptor, tableName, columnName string) (idgen.Generator, error) {
	if !desc.Generated {
		if desc.Info != nil && desc.Info.Type == schema.TypeUUID {
			return idgen.NewAssignedUUID(), nil
		}
		return &idgen.Assigned{}, nil
	}
	switch desc.GeneratorKind {
	case "sequence":
		name := desc.GeneratorName
		if name == "" {
			name = tableName + "_" + columnName + "_seq"
		}
		return idgen.NewSequence(name, b.dialect), nil
	case "table":
		name := desc.GeneratorName
		if name == "" {
			name = tableName
		}
		return idgen.NewTable(name, "id_generators", "next_value", b.dialect), nil
	case "identity", "":
		// On a dialect with sequences the identity column is driven through
		// its own implicit sequence, named <table>_<column>_seq.
		if b.dialect.Flags().SupportsSequences {
			return idgen.NewSequence(tableName+"_"+columnName+"_seq", b.dialect), nil
		}
		return idgen.NewIdentity(), nil
	default:
		return nil, fmt.Errorf("entity: %s.%s: unknown generator kind %q", tableName, columnName, desc.GeneratorKind)
	}
}

// collectFields flattens a schema definition's own fields with every
// mixin's, mixins resolving first so the definition's own field with the
// same name overrides the mixin's (spec §4.6, stage 2).
func collectFields(def schema.Interface) []schema.Field {
	var out []schema.Field
	for _, m := range def.Mixin() {
		out = append(out, m.Fields()...)
	}
	out = append(out, def.Fields()...)
	return dedupeFields(out)
}

func dedupeFields(fields []schema.Field) []schema.Field {
	seen := map[string]int{}
	out := make([]schema.Field, 0, len(fields))
	for _, f := range fields {
		name := f.Descriptor().Name
		if idx, ok := seen[name]; ok {
			out[idx] = f
			continue
		}
		seen[name] = len(out)
		out = append(out, f)
	}
	return out
}

func collectEdges(def schema.Interface) []schema.Edge {
	var out []schema.Edge
	for _, m := range def.Mixin() {
		out = append(out, m.Edges()...)
	}
	return append(out, def.Edges()...)
}

func collectIndexes(def schema.Interface) []schema.Index {
	var out []schema.Index
	for _, m := range def.Mixin() {
		out = append(out, m.Indexes()...)
	}
	return append(out, def.Indexes()...)
}

// selectUniqueKey gathers unique-key alternate candidates from individually
// unique fields and unique composite indexes, then picks the best-ranked
// candidate meeting the configured quality threshold (spec §4.6, stage 8).
func (b *Builder) selectUniqueKey(d *ClassDescriptor, fields []schema.Field, indexes []schema.Index) *UniqueKey {
	if b.cfg.MaxUniqueProperties == 0 {
		return nil
	}
	var best *UniqueKey
	consider := func(props []Property) {
		if len(props) == 0 || len(props) > b.cfg.MaxUniqueProperties {
			return
		}
		q := qualityOf(props)
		if q < b.cfg.MinUniqueKeyQuality {
			return
		}
		if best == nil || q > best.Quality {
			best = &UniqueKey{Properties: props, Quality: q}
		}
	}

	for _, f := range fields {
		desc := f.Descriptor()
		if !desc.Unique || desc.ID {
			continue
		}
		if p, ok := d.properties.Get(desc.Name); ok {
			consider([]Property{p})
		}
	}

	for _, idx := range indexes {
		desc := idx.Descriptor()
		if !desc.Unique || len(desc.Fields) == 0 {
			continue
		}
		props := make([]Property, 0, len(desc.Fields))
		complete := true
		for _, name := range desc.Fields {
			p, ok := d.properties.Get(name)
			if !ok {
				complete = false
				break
			}
			props = append(props, p)
		}
		if complete {
			consider(props)
		}
	}

	return best
}
