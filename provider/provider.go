// Package provider implements the data-provider orchestrator (component I):
// discovering registered data-building components, ordering them so that
// declared priority and declared dependency never disagree, then driving
// each through BuildEntities followed by WriteEntities (spec §4.9).
package provider

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fastnate-go/seedgen"
	"github.com/fastnate-go/seedgen/genctx"
	"github.com/fastnate-go/seedgen/sqlgen"
	"github.com/fastnate-go/seedgen/sqlwriter"
)

// DataProvider is a user-supplied component that builds a batch of entity
// instances and then emits them through the generator (spec glossary,
// "Provider"). BuildEntities runs once per provider, in execution order;
// WriteEntities runs once per provider, also in execution order, and is
// where the provider calls sqlgen.Generator.InsertEntity/MarkExisting for
// every entity it built.
type DataProvider interface {
	BuildEntities(ctx context.Context, gctx *genctx.Context) error
	WriteEntities(ctx context.Context, gctx *genctx.Context, gen *sqlgen.Generator) error
}

// Factory constructs a DataProvider once its declared dependencies have all
// been instantiated. deps is keyed by the same name each dependency was
// registered under, holding the already-built DataProvider values.
type Factory func(deps map[string]DataProvider) (DataProvider, error)

// registration is one entry in the static registry populated by Register,
// typically from package init() functions (spec §9 Design Notes, option
// (c): an explicit registration API substituting for the source's
// reflection-based package scan, since Go has no analogue of it).
type registration struct {
	name    string
	order   int
	deps    []string
	factory Factory
}

var registry []registration

// Register adds a provider under name, with declared priority order and
// dependency names deps, built by factory once every named dependency has
// been instantiated. Typically called from an init() function.
func Register(name string, order int, deps []string, factory Factory) {
	registry = append(registry, registration{name: name, order: order, deps: deps, factory: factory})
}

// ResetForTest clears the static registry. Exported for this package's own
// tests, which each need a clean slate regardless of registration order
// across the test binary; not meant for use outside tests.
func ResetForTest() {
	registry = nil
}

// instantiated pairs a built DataProvider with the order it resolved to,
// for the final ordering pass.
type instantiated struct {
	name     string
	order    int
	provider DataProvider
}

// instantiateAll runs the round-based discovery of spec §4.9: in each
// round, any remaining registration whose dependencies have all already
// been instantiated is built via its factory. A round that instantiates
// nothing is a fatal configuration error (an unsatisfiable or cyclic
// dependency), reported as a ModelError per spec §7.
func instantiateAll() ([]instantiated, error) {
	remaining := make([]registration, len(registry))
	copy(remaining, registry)

	built := map[string]DataProvider{}
	var out []instantiated

	for len(remaining) > 0 {
		var next []registration
		progressed := false

		for _, reg := range remaining {
			deps, ok := collectDeps(reg, built)
			if !ok {
				next = append(next, reg)
				continue
			}
			p, err := reg.factory(deps)
			if err != nil {
				return nil, fmt.Errorf("provider: %s: %w", reg.name, err)
			}
			built[reg.name] = p
			out = append(out, instantiated{name: reg.name, order: reg.order, provider: p})
			progressed = true
		}

		if !progressed {
			names := make([]string, len(remaining))
			for i, reg := range remaining {
				names[i] = reg.name
			}
			return nil, seedgen.NewModelError("", fmt.Sprintf("providers %v have unsatisfiable or cyclic dependencies", names))
		}
		remaining = next
	}
	return out, nil
}

// collectDeps reports whether every dependency reg declares has already
// been built, returning the resolved subset keyed by name.
func collectDeps(reg registration, built map[string]DataProvider) (map[string]DataProvider, bool) {
	deps := make(map[string]DataProvider, len(reg.deps))
	for _, d := range reg.deps {
		p, ok := built[d]
		if !ok {
			return nil, false
		}
		deps[d] = p
	}
	return deps, true
}

// orderExecutionList sorts instantiated providers so that (a) declared
// order is respected and (b) a provider never precedes a dependency it
// declared, even when the two disagree (spec Invariant 6: "Providers
// appear in the execution list in an order consistent with both their
// declared priority and the priority of every provider they depend on").
// Rather than the source's leftmost-insertion-position algorithm (spec
// §4.9), this runs Kahn's algorithm: repeatedly pick, among providers
// whose dependencies have all already been placed, the one with the
// lowest declared order (name as tiebreak), and place it next. This is a
// plain topological sort using declared order as the tie-breaking
// priority, which satisfies both halves of Invariant 6 at once —
// dependency order is structural (an unplaced dependency blocks
// eligibility), declared order only decides between providers that are
// otherwise free to run in either order — documented as an Open Question
// resolution in DESIGN.md in place of the source's bespoke insertion-point
// search.
func orderExecutionList(items []instantiated) []instantiated {
	byName := make(map[string]*instantiated, len(items))
	depsByName := make(map[string][]string, len(registry))
	for i := range items {
		byName[items[i].name] = &items[i]
	}
	for _, reg := range registry {
		depsByName[reg.name] = reg.deps
	}

	placed := make(map[string]bool, len(items))
	var sorted []instantiated

	for len(sorted) < len(items) {
		var eligible []string
		for name := range byName {
			if placed[name] {
				continue
			}
			ready := true
			for _, dep := range depsByName[name] {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				eligible = append(eligible, name)
			}
		}
		sort.Slice(eligible, func(i, j int) bool {
			oi, oj := byName[eligible[i]].order, byName[eligible[j]].order
			if oi != oj {
				return oi < oj
			}
			return eligible[i] < eligible[j]
		})
		sorted = append(sorted, *byName[eligible[0]])
		placed[eligible[0]] = true
	}
	return sorted
}

// Run executes the full orchestration: instantiate every registered
// provider, order the execution list, then drive BuildEntities on every
// provider before WriteEntities on any (spec §5: "For any pair of
// providers P1, P2 with order(P1) < order(P2), P1.buildEntities
// completes-before P2.buildEntities, and P1.writeEntities completes-before
// P2.writeEntities" — satisfied trivially here since both passes run
// sequentially over the same ordered list). After the last provider's
// WriteEntities, a final writeAlignmentStatements emits any sequence
// realignment (spec §4.9), followed by a residual-Pending-state scan (spec
// §7, Testable Property 2) that raises a fatal ReferenceError/AggregateError
// if any deferred reference was never resolved. Any write-pass or residual
// reference error is logged and re-raised after the writer emits the abort
// marker (spec §4.9/§7); this is the only layer permitted to write it.
func Run(ctx context.Context, gctx *genctx.Context, gen *sqlgen.Generator, w sqlwriter.Writer) error {
	raw, err := instantiateAll()
	if err != nil {
		logrus.WithError(err).Error("provider: instantiation failed")
		return err
	}
	ordered := orderExecutionList(raw)

	names := make([]string, len(ordered))
	for i, it := range ordered {
		names[i] = it.name
	}
	logrus.WithField("providers", names).Info("provider: execution order resolved")

	for _, it := range ordered {
		logrus.WithField("provider", it.name).Info("provider: building entities")
		if err := it.provider.BuildEntities(ctx, gctx); err != nil {
			logrus.WithField("provider", it.name).WithError(err).Error("provider: build failed")
			return fmt.Errorf("provider: %s: build: %w", it.name, err)
		}
	}

	for _, it := range ordered {
		logrus.WithField("provider", it.name).Info("provider: writing entities")
		if err := w.WriteSectionSeparator(it.name); err != nil {
			return writeFailed(ctx, w, it.name, err)
		}
		if err := w.WriteComment(fmt.Sprintf("provider: %s", it.name)); err != nil {
			return writeFailed(ctx, w, it.name, err)
		}
		if err := it.provider.WriteEntities(ctx, gctx, gen); err != nil {
			return writeFailed(ctx, w, it.name, err)
		}
	}

	if err := w.WriteAlignmentStatements(ctx, gen.AlignmentStatements()); err != nil {
		return writeFailed(ctx, w, "", err)
	}

	// spec §7, Testable Property 2: a cyclic or otherwise unresolved
	// deferred reference leaves its target at StatePending forever; catch
	// it here instead of completing the run silently.
	if err := gctx.ResidualPending(); err != nil {
		return writeFailed(ctx, w, "residual-pending", err)
	}
	return nil
}

// writeFailed emits the abort marker and a stack trace comment, logs the
// failure, and wraps err for the caller (spec §4.9/§7: "emits a
// section-separator, a well-known aborted-generation marker comment, and a
// textual stack trace, then re-raises").
func writeFailed(ctx context.Context, w sqlwriter.Writer, providerName string, cause error) error {
	logrus.WithField("provider", providerName).WithError(cause).Error("provider: write failed, aborting")
	trace := fmt.Sprintf("%+v", cause)
	if abortErr := w.WriteAbort(ctx, trace); abortErr != nil {
		logrus.WithError(abortErr).Error("provider: failed to write abort marker")
	}
	if providerName == "" {
		return fmt.Errorf("provider: alignment statements: %w", cause)
	}
	return fmt.Errorf("provider: %s: write: %w", providerName, cause)
}
