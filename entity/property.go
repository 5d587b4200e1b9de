package entity

import (
	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/registry"
)

// InsertContext carries everything a Property needs to contribute to, or
// react to, one entity's insertion (spec §4.5). It is created fresh for
// each entity by the entity SQL generator (sqlgen).
type InsertContext struct {
	Dialect  dialect.Dialect
	Registry *registry.Registry
	// Entity is a pointer to the struct instance currently being
	// processed; properties read their own value off it via reflection.
	Entity any
	// Resolve looks up the descriptor for another entity's declared Go
	// type name, for properties that reference other entities.
	Resolve func(entityName string) (*ClassDescriptor, error)
}

// Property is the shared contract every property variant implements (spec
// §3, §4.5): Primitive, Version, Embedded, EntityReference, Collection,
// Map.
type Property interface {
	// Name returns the declared attribute name.
	Name() string

	// IsRequired reports whether the property must always have a
	// non-null value.
	IsRequired() bool

	// IsTableColumn reports whether this property contributes a column
	// to the owning row's INSERT (false for Collection/Map; an inverse-side
	// edge produces no property at all).
	IsTableColumn() bool

	// AddInsertExpression appends this property's column name(s) and
	// value expression(s) to cols/vals for the owning row's INSERT.
	AddInsertExpression(ic *InsertContext, cols, vals *[]string) error

	// CreatePreInsertStatements returns any statements that must run
	// before the owning row's INSERT (e.g. a Table id generator's
	// UPDATE).
	CreatePreInsertStatements(ic *InsertContext) ([]string, error)

	// CreatePostInsertStatements returns any statements that must run
	// after the owning row's INSERT (e.g. join-table rows for a
	// Collection, or a deferred FK UPDATE once the owner's id is known).
	CreatePostInsertStatements(ic *InsertContext) ([]string, error)

	// FindReferencedEntities returns every other entity this property
	// reads off entity, used to prioritize insertion order.
	FindReferencedEntities(entity any) []any

	// GetExpression returns the dialect expression for this property's
	// value. forWhereClause selects literal-id form over a generator's
	// next-value expression where the two differ (spec §4.4).
	GetExpression(ic *InsertContext, forWhereClause bool) (string, error)

	// GetPredicate returns a "column = expression" fragment usable in a
	// WHERE clause, for unique-key sub-selects (spec §4.8).
	GetPredicate(ic *InsertContext) (string, error)
}

// ownerBinder is implemented by properties that need a back-reference to
// their owning ClassDescriptor, bound once the descriptor finishes
// building (see Builder.fill, after stage 7).
type ownerBinder interface {
	bindOwner(d *ClassDescriptor)
}

// DeferredRenderer is implemented by properties that can appear inside a
// PendingAction: once their referenced target reaches StatePersisted, they
// render the UPDATE that stores the target's id into the owner's row.
type DeferredRenderer interface {
	RenderDeferredUpdate(ic *InsertContext, owner any, resolvedTargetExpr string) (string, error)
}
