package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen"
	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/genctx"
	"github.com/fastnate-go/seedgen/provider"
	"github.com/fastnate-go/seedgen/schema"
	"github.com/fastnate-go/seedgen/schema/edge"
	"github.com/fastnate-go/seedgen/schema/field"
	"github.com/fastnate-go/seedgen/sqlgen"
	"github.com/fastnate-go/seedgen/sqlwriter"
)

// memWriter is a minimal in-memory sqlwriter.Writer recording every call,
// for asserting orchestration order and abort behavior without any I/O.
type memWriter struct {
	stmts     []string
	sections  []string
	comments  []string
	aborted   bool
	abortText string
	aligned   []string
}

func (w *memWriter) WriteStatement(_ context.Context, stmt string) error {
	w.stmts = append(w.stmts, stmt)
	return nil
}
func (w *memWriter) WriteComment(text string) error {
	w.comments = append(w.comments, text)
	return nil
}
func (w *memWriter) WriteSectionSeparator(banner string) error {
	w.sections = append(w.sections, banner)
	return nil
}
func (w *memWriter) WriteAlignmentStatements(_ context.Context, stmts []string) error {
	w.aligned = stmts
	return nil
}
func (w *memWriter) WriteAbort(_ context.Context, stackTrace string) error {
	w.aborted = true
	w.abortText = stackTrace
	return nil
}
func (w *memWriter) Close() error { return nil }

var _ sqlwriter.Writer = (*memWriter)(nil)

type providerWidget struct {
	ID   int64
	Name string
}

type providerWidgetSchema struct{ schema.Schema }

func (providerWidgetSchema) Fields() []schema.Field {
	return []schema.Field{
		field.Int64("id").ID().Generated(),
		field.String("name"),
	}
}

// recordingProvider logs BuildEntities/WriteEntities calls against a shared
// trace slice, so tests can assert cross-provider ordering.
type recordingProvider struct {
	name  string
	trace *[]string
}

func (p *recordingProvider) BuildEntities(context.Context, *genctx.Context) error {
	*p.trace = append(*p.trace, p.name+":build")
	return nil
}

func (p *recordingProvider) WriteEntities(ctx context.Context, gctx *genctx.Context, gen *sqlgen.Generator) error {
	*p.trace = append(*p.trace, p.name+":write")
	desc, err := gctx.Resolve("Widget")
	if err != nil {
		return err
	}
	return gen.InsertEntity(ctx, desc, &providerWidget{Name: p.name})
}

func newFixture(t *testing.T) (*genctx.Context, *sqlgen.Generator, *memWriter) {
	t.Helper()
	gctx := genctx.New(dialect.PostgresDialect{}, genctx.DefaultSettings())
	gctx.Register("Widget", providerWidgetSchema{})
	w := &memWriter{}
	return gctx, sqlgen.New(gctx, w), w
}

func TestRunOrdersByDeclaredOrderWhenNoDependencies(t *testing.T) {
	var trace []string
	provider.ResetForTest()
	provider.Register("users", 10, nil, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		return &recordingProvider{name: "users", trace: &trace}, nil
	})
	provider.Register("orders", 20, nil, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		return &recordingProvider{name: "orders", trace: &trace}, nil
	})

	gctx, gen, w := newFixture(t)
	require.NoError(t, provider.Run(context.Background(), gctx, gen, w))
	require.Equal(t, []string{"users:build", "orders:build", "users:write", "orders:write"}, trace)
	require.Len(t, w.stmts, 2)
}

func TestRunDependencyWinsOverContradictingOrder(t *testing.T) {
	var trace []string
	provider.ResetForTest()
	// orders declares a lower order than users but depends on it: the
	// dependency must still run first (spec Invariant 6).
	provider.Register("orders", 5, []string{"users"}, func(deps map[string]provider.DataProvider) (provider.DataProvider, error) {
		require.Contains(t, deps, "users")
		return &recordingProvider{name: "orders", trace: &trace}, nil
	})
	provider.Register("users", 20, nil, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		return &recordingProvider{name: "users", trace: &trace}, nil
	})

	gctx, gen, w := newFixture(t)
	require.NoError(t, provider.Run(context.Background(), gctx, gen, w))
	require.Equal(t, []string{"users:build", "orders:build", "users:write", "orders:write"}, trace)
}

func TestRunUnsatisfiableDependencyIsModelError(t *testing.T) {
	provider.ResetForTest()
	provider.Register("orders", 10, []string{"ghost"}, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		t.Fatal("factory should never run for an unsatisfiable dependency")
		return nil, nil
	})

	gctx, gen, w := newFixture(t)
	err := provider.Run(context.Background(), gctx, gen, w)
	require.Error(t, err)
	require.True(t, seedgen.IsModelError(err), "expected a ModelError, got %v", err)
}

func TestRunAbortsAndWritesMarkerOnWriteFailure(t *testing.T) {
	provider.ResetForTest()
	provider.Register("broken", 10, nil, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		return brokenProvider{}, nil
	})

	gctx, gen, w := newFixture(t)
	err := provider.Run(context.Background(), gctx, gen, w)
	require.Error(t, err)
	require.True(t, w.aborted)
	require.NotEmpty(t, w.abortText)
}

type brokenProvider struct{}

func (brokenProvider) BuildEntities(context.Context, *genctx.Context) error { return nil }
func (brokenProvider) WriteEntities(context.Context, *genctx.Context, *sqlgen.Generator) error {
	return errBrokenWrite
}

var errBrokenWrite = errors.New("provider_test: simulated write failure")

type providerNote struct {
	ID     int64
	Widget *providerWidget
}

type providerNoteSchema struct{ schema.Schema }

func (providerNoteSchema) Fields() []schema.Field {
	return []schema.Field{field.Int64("id").ID().Generated()}
}

func (providerNoteSchema) Edges() []schema.Edge {
	return []schema.Edge{edge.To("widget", "Widget").Unique().Required()}
}

// danglingReferenceProvider inserts a Note that references a brand new
// Widget it never itself writes, leaving the Widget's entity state at
// StatePending forever (spec §8 Testable Property 2).
type danglingReferenceProvider struct{}

func (danglingReferenceProvider) BuildEntities(context.Context, *genctx.Context) error { return nil }

func (danglingReferenceProvider) WriteEntities(ctx context.Context, gctx *genctx.Context, gen *sqlgen.Generator) error {
	desc, err := gctx.Resolve("Note")
	if err != nil {
		return err
	}
	note := &providerNote{Widget: &providerWidget{Name: "never written"}}
	return gen.InsertEntity(ctx, desc, note)
}

func TestRunRaisesReferenceErrorForResidualPendingState(t *testing.T) {
	provider.ResetForTest()
	provider.Register("dangling", 10, nil, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		return danglingReferenceProvider{}, nil
	})

	gctx, gen, w := newFixture(t)
	gctx.Register("Note", providerNoteSchema{})

	err := provider.Run(context.Background(), gctx, gen, w)
	require.Error(t, err)
	require.True(t, seedgen.IsReferenceError(err), "expected a ReferenceError, got %v", err)
	require.True(t, w.aborted)
}
