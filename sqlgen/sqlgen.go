// Package sqlgen implements the entity SQL generator (component H):
// orchestrating the emission of one entity's statements — any pre-insert
// statements its properties need, its own INSERT row, any post-insert
// statements (join-table rows, deferred UPDATEs), in that order, as one
// atomic unit from the orchestrator's perspective (spec §5).
package sqlgen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fastnate-go/seedgen/entity"
	"github.com/fastnate-go/seedgen/genctx"
	"github.com/fastnate-go/seedgen/idgen"
	"github.com/fastnate-go/seedgen/sqlwriter"
)

// Generator drives one entity's insertion against a shared Context and
// Writer. It is not safe for concurrent use: spec §5 requires the
// pre-inserts/main-row/post-inserts/pending-flush sequence for any single
// entity to be atomic and non-interleaved, which a single Generator
// enforces simply by being called from one goroutine at a time.
type Generator struct {
	ctx    *genctx.Context
	writer sqlwriter.Writer

	mu       sync.Mutex
	counters map[idgen.Generator]*int64
}

// New creates a Generator that resolves descriptors and dialect/registry
// state from ctx, writing statements to w.
func New(ctx *genctx.Context, w sqlwriter.Writer) *Generator {
	return &Generator{ctx: ctx, writer: w, counters: map[idgen.Generator]*int64{}}
}

// nextSimulatedValue returns the next value to simulate for gen's
// identifier, a process-local monotonic counter standing in for the value
// a real database would assign (see entity.IDProperty.AssignSimulatedValue).
func (g *Generator) nextSimulatedValue(gen idgen.Generator) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.counters[gen]
	if !ok {
		c = new(int64)
		g.counters[gen] = c
	}
	*c++
	return *c
}

// InsertEntity runs the full insertion sequence for one entity against its
// descriptor: pre-insert statements, the main INSERT, the simulated id
// assignment, then post-insert statements (join rows, deferred UPDATE
// flush). A no-op if entity is no longer new (already persisted or marked
// pre-existing), so callers may call it unconditionally for every entity a
// provider discovers.
func (g *Generator) InsertEntity(ctx context.Context, desc *entity.ClassDescriptor, e any) error {
	if !desc.IsNew(e) {
		return nil
	}

	// JOINED inheritance (spec §8 Scenario C): the ancestor's row must exist,
	// with its id assigned, before this row's own INSERT can reference it
	// through the shared primaryKeyJoinColumn.
	if parent := desc.JoinedParent(); parent != nil {
		if err := g.InsertEntity(ctx, parent, e); err != nil {
			return err
		}
	}

	ic := g.ctx.NewInsertContext(e)

	var pre []string
	for _, p := range desc.Properties() {
		ss, err := p.CreatePreInsertStatements(ic)
		if err != nil {
			return fmt.Errorf("sqlgen: %s: pre-insert: %w", desc.EntityName(), err)
		}
		pre = append(pre, ss...)
	}
	for _, s := range pre {
		if err := g.writer.WriteStatement(ctx, s); err != nil {
			return fmt.Errorf("sqlgen: %s: %w", desc.EntityName(), err)
		}
	}

	insertStmt, err := g.buildInsert(ic, desc, e)
	if err != nil {
		return fmt.Errorf("sqlgen: %s: %w", desc.EntityName(), err)
	}
	if err := g.writer.WriteStatement(ctx, insertStmt); err != nil {
		return fmt.Errorf("sqlgen: %s: %w", desc.EntityName(), err)
	}

	// A joined child shares its root ancestor's generator and already has its
	// id assigned from that ancestor's own insert above; assigning again
	// here would both reissue a second nextval() and re-advance the
	// generator's simulated counter for the same logical row.
	if desc.JoinedParent() == nil {
		if gen := desc.IDGenerator(); gen != nil {
			if err := desc.AssignGeneratedID(e, g.nextSimulatedValue(gen)); err != nil {
				return fmt.Errorf("sqlgen: %s: %w", desc.EntityName(), err)
			}
		}
	}

	post, err := desc.CreatePostInsertStatements(ic, e)
	if err != nil {
		return fmt.Errorf("sqlgen: %s: post-insert: %w", desc.EntityName(), err)
	}
	for _, s := range post {
		if err := g.writer.WriteStatement(ctx, s); err != nil {
			return fmt.Errorf("sqlgen: %s: %w", desc.EntityName(), err)
		}
	}
	return nil
}

// buildInsert assembles the "INSERT INTO table (cols) VALUES (vals)"
// statement from every table-column property's contribution, in the
// descriptor's declared property order.
func (g *Generator) buildInsert(ic *entity.InsertContext, desc *entity.ClassDescriptor, e any) (string, error) {
	var cols, vals []string

	if desc.JoinedParent() != nil {
		col, val, err := desc.PrimaryKeyJoinExpression(ic, e)
		if err != nil {
			return "", err
		}
		if col != "" {
			cols = append(cols, col)
			vals = append(vals, val)
		}
	}

	for _, p := range desc.Properties() {
		if !p.IsTableColumn() {
			continue
		}
		if err := p.AddInsertExpression(ic, &cols, &vals); err != nil {
			return "", err
		}
	}
	table := g.ctx.Dialect.QuoteIdentifier(desc.TableName())
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", table), nil
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(vals, ", ")), nil
}

// AlignmentStatements returns the trailing statements that advance every
// sequence-backed generator touched by this Generator past the highest
// simulated value it assigned (spec §4.9). Table- and Identity-backed
// generators have no sequence object to realign and contribute nothing;
// dialects without sequences (MySQL, SQLite) report "" from
// dialect.AlignSequenceStatement and are skipped the same way.
func (g *Generator) AlignmentStatements() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	type aligned struct {
		name  string
		value int64
	}
	var pending []aligned
	for gen, counter := range g.counters {
		name := gen.Name()
		if gen.Kind() != idgen.KindSequence || name == "" {
			continue
		}
		pending = append(pending, aligned{name, *counter})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].name < pending[j].name })

	var stmts []string
	for _, a := range pending {
		if stmt := g.ctx.Dialect.AlignSequenceStatement(a.name, a.value); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// MarkExisting records that entity's row already exists outside this run
// (spec §4.7 scenario D) and writes any deferred UPDATEs that were already
// queued against it.
func (g *Generator) MarkExisting(ctx context.Context, desc *entity.ClassDescriptor, e any) error {
	ic := g.ctx.NewInsertContext(e)
	stmts, err := desc.MarkExistingEntity(ic, e)
	if err != nil {
		return fmt.Errorf("sqlgen: %s: mark-existing: %w", desc.EntityName(), err)
	}
	for _, s := range stmts {
		if err := g.writer.WriteStatement(ctx, s); err != nil {
			return fmt.Errorf("sqlgen: %s: %w", desc.EntityName(), err)
		}
	}
	return nil
}
