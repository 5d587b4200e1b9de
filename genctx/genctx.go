// Package genctx implements the generator context (component G): the
// process-wide coordination point a single generation run shares — the
// descriptor builder/cache, the table/column registry, the active dialect,
// and the configured build settings. It is created once at startup and torn
// down once at flush, and passed by explicit parameter everywhere, never
// held as a package-level global, so that multiple pipelines can run
// side by side in the same process (spec §9, "Global context").
package genctx

import (
	"fmt"

	"github.com/fastnate-go/seedgen"
	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/entity"
	"github.com/fastnate-go/seedgen/registry"
	"github.com/fastnate-go/seedgen/schema"
)

// Settings carries the subset of the configuration map (spec §6) that
// influences descriptor construction rather than output routing.
type Settings struct {
	// MaxUniqueProperties caps the column count of a unique-key alternate
	// candidate considered during descriptor build (spec §4.6, stage 8); 0
	// disables alternates entirely.
	MaxUniqueProperties int
	// MinUniqueKeyQuality is the lowest-ranked alternate the build phase
	// accepts.
	MinUniqueKeyQuality entity.Quality
	// WriteRelativeIDs records the write-relative-ids key. No component
	// reads it: entity.ClassDescriptor.GetEntityReference always tries the
	// currval shortcut, then the unique-key sub-select, then the literal id.
	WriteRelativeIDs bool
	// PreferSequenceCurrentValue records the prefer-sequence-current-value
	// key. No component reads it: the currval shortcut applies whenever the
	// dialect supports currval and the id matches the generator's current
	// value, whatever this setting says.
	PreferSequenceCurrentValue bool
}

// DefaultSettings returns the zero-configuration defaults: no unique-key
// alternates beyond single-column ones, accept any quality, and both
// reference-style flags off.
func DefaultSettings() Settings {
	return Settings{
		MaxUniqueProperties:        1,
		MinUniqueKeyQuality:        entity.QualityAllowsNulls,
		WriteRelativeIDs:           false,
		PreferSequenceCurrentValue: false,
	}
}

// Context is the process-wide state S of spec §3 ("GeneratorContext"):
// descriptor cache by class, table registry, dialect handle, configuration
// flags, per-descriptor state map. The per-descriptor state maps
// themselves live on each entity.ClassDescriptor (spec §4.7); Context's job
// is to own the Builder that produces and caches those descriptors.
type Context struct {
	Dialect  dialect.Dialect
	Registry *registry.Registry
	Builder  *entity.Builder
	Settings Settings

	torndown bool
}

// New initializes a Context: constructs the table registry and descriptor
// builder against d, ready for schemas to be Registered and resolved.
func New(d dialect.Dialect, settings Settings) *Context {
	reg := registry.New(d)
	builder := entity.NewBuilder(reg, d, entity.BuildConfig{
		MinUniqueKeyQuality: settings.MinUniqueKeyQuality,
		MaxUniqueProperties: settings.MaxUniqueProperties,
	})
	return &Context{Dialect: d, Registry: reg, Builder: builder, Settings: settings}
}

// Register associates an entity name with its schema definition, delegating
// to the underlying Builder. Every entity reachable through an association
// property must be registered before any descriptor referencing it builds.
func (c *Context) Register(entityName string, def schema.Interface) {
	c.Builder.Register(entityName, def)
}

// Resolve builds (or returns the memoized) descriptor for entityName. It
// satisfies entity.InsertContext.Resolve.
func (c *Context) Resolve(entityName string) (*entity.ClassDescriptor, error) {
	return c.Builder.Build(entityName)
}

// NewInsertContext creates the per-entity InsertContext used while
// generating one row's statements (spec §4.5): the dialect and registry
// handles, this Context's Resolve as the cross-reference lookup, and
// entity as the receiver every property reads from.
func (c *Context) NewInsertContext(e any) *entity.InsertContext {
	return &entity.InsertContext{Dialect: c.Dialect, Registry: c.Registry, Resolve: c.Resolve, Entity: e}
}

// ResidualPending scans every descriptor this Context's Builder has
// resolved for entities still at StatePending and aggregates them into a
// single error (spec §7, Testable Property 2: "For every Pending state at
// orchestrator shutdown: either the target reached Persisted and the list
// is empty, or a ReferenceError is raised"). Returns nil when no residual
// pending state remains.
func (c *Context) ResidualPending() error {
	var errs []error
	for _, d := range c.Builder.Descriptors() {
		errs = append(errs, d.ResidualPending()...)
	}
	return seedgen.NewAggregateError(errs...)
}

// Teardown flushes any process-wide state that needs an explicit close.
// Currently a no-op beyond guarding against double teardown, since
// descriptor/state maps are plain in-memory structures with nothing to
// release; it exists so a connection-backed dialect implementation added
// later has a defined place to close its pool.
func (c *Context) Teardown() error {
	if c.torndown {
		return fmt.Errorf("genctx: context already torn down")
	}
	c.torndown = true
	return nil
}
