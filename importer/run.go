package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fastnate-go/seedgen/dialect"
	"github.com/fastnate-go/seedgen/genctx"
	"github.com/fastnate-go/seedgen/provider"
	"github.com/fastnate-go/seedgen/sqlgen"
	"github.com/fastnate-go/seedgen/sqlwriter"
)

// resolveDialect maps Config.Dialect to its concrete dialect.Dialect value
// (spec §1: "The SQL dialect adapter (treated as an interface)" — the
// importer is the one component allowed to pick a concrete instance).
func resolveDialect(name string) (dialect.Dialect, error) {
	switch name {
	case dialect.Postgres:
		return dialect.PostgresDialect{}, nil
	case dialect.MySQL:
		return dialect.MySQLDialect{}, nil
	case dialect.SQLite:
		return dialect.SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("importer: unrecognized dialect %q", name)
	}
}

// NewContext builds the genctx.Context this run will use from cfg, ready
// for the caller to Register entity schemas before Run is called.
func NewContext(cfg *Config) (*genctx.Context, error) {
	d, err := resolveDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	quality, err := cfg.Quality()
	if err != nil {
		return nil, err
	}
	settings := genctx.Settings{
		MaxUniqueProperties:        cfg.MaxUniqueProperties,
		MinUniqueKeyQuality:        quality,
		WriteRelativeIDs:           cfg.WriteRelativeIDs,
		PreferSequenceCurrentValue: cfg.PreferSequenceCurrentValue,
	}
	return genctx.New(d, settings), nil
}

// Summary reports the operational statistics SPEC_FULL.md §7 supplements:
// logged at the end of a run, never written to the SQL output, so it
// cannot affect determinism (Testable Property 6).
type Summary struct {
	Providers  int
	Statements int
	Elapsed    time.Duration
}

// Run binds dialect, registry, generator context, SQL generator and
// provider orchestrator together (spec §4/component J): it resolves
// gctx's descriptors, drives provider.Run against a writer built from
// cfg.OutputFile, wraps the provider output with cfg.Prefix/cfg.Postfix,
// and returns a run Summary. In DryRun mode (SPEC_FULL.md §7), both
// provider passes run against a discarding writer: no output file is
// created and no statement is written.
func Run(ctx context.Context, cfg *Config, gctx *genctx.Context, fs afero.Fs) (*Summary, error) {
	start := timeNow()

	if cfg.DryRun {
		n, err := dryRun(ctx, gctx)
		if err != nil {
			return nil, err
		}
		logrus.WithField("providers", n).Info("importer: dry-run completed, no statements written")
		return &Summary{Providers: n}, nil
	}

	out, err := fs.Create(cfg.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("importer: creating %s: %w", cfg.OutputFile, err)
	}
	defer out.Close()

	tw := sqlwriter.NewTextWriter(gctx.Dialect, out)
	defer tw.Close()
	w := &countingWriter{TextWriter: tw}

	if err := writePrefixOrPostfix(fs, tw, cfg.Prefix, "prefix"); err != nil {
		return nil, err
	}

	gen := sqlgen.New(gctx, w)
	if err := provider.Run(ctx, gctx, gen, w); err != nil {
		return nil, err
	}

	if err := writePrefixOrPostfix(fs, tw, cfg.Postfix, "postfix"); err != nil {
		return nil, err
	}

	if err := gctx.Teardown(); err != nil {
		return nil, err
	}

	summary := &Summary{Statements: w.statements, Elapsed: timeNow().Sub(start)}
	logrus.WithField("elapsed", summary.Elapsed).
		WithField("statements", summary.Statements).
		Info("importer: run completed")
	return summary, nil
}

// countingWriter wraps a *sqlwriter.TextWriter, counting statements for
// the run summary (SPEC_FULL.md §7) without affecting the emitted output.
type countingWriter struct {
	*sqlwriter.TextWriter
	statements int
}

func (c *countingWriter) WriteStatement(ctx context.Context, stmt string) error {
	if err := c.TextWriter.WriteStatement(ctx, stmt); err != nil {
		return err
	}
	c.statements++
	return nil
}

var _ sqlwriter.Writer = (*countingWriter)(nil)

// timeNow is a seam so tests can avoid depending on wall-clock time; it is
// the only place in this module that touches real time.
var timeNow = func() time.Time { return time.Now() }

// dryRun runs every registered provider's BuildEntities and WriteEntities
// without creating an output file (SPEC_FULL.md §7). It reuses
// provider.Run's instantiation/ordering logic by driving a writer that
// never actually opens a sink: a discarding Writer lets WriteEntities
// still run (exercising provider code paths end to end) while guaranteeing
// no output is ever produced, matching "without writing any statements".
func dryRun(ctx context.Context, gctx *genctx.Context) (int, error) {
	w := &discardWriter{}
	gen := sqlgen.New(gctx, w)
	if err := provider.Run(ctx, gctx, gen, w); err != nil {
		return 0, err
	}
	return w.sections, nil
}

// discardWriter accepts every call and keeps only a section count, used by
// dry-run to let providers build and write their entities against a real
// generator while producing no output (SPEC_FULL.md §7). provider.Run
// writes exactly one section separator per provider's WriteEntities call,
// so the count doubles as the provider count for the dry-run summary.
type discardWriter struct{ sections int }

func (d *discardWriter) WriteStatement(context.Context, string) error { return nil }
func (d *discardWriter) WriteComment(string) error                    { return nil }
func (d *discardWriter) WriteSectionSeparator(string) error           { d.sections++; return nil }
func (d *discardWriter) WriteAlignmentStatements(context.Context, []string) error {
	return nil
}
func (d *discardWriter) WriteAbort(context.Context, string) error { return nil }
func (d *discardWriter) Close() error                             { return nil }

var _ sqlwriter.Writer = (*discardWriter)(nil)

// writePrefixOrPostfix implements spec §6's prefix/postfix semantics:
// value is either a literal SQL fragment, or a semicolon/newline-separated
// list of .sql file paths whose contents are inlined as a comment header
// plus their contents.
func writePrefixOrPostfix(fs afero.Fs, w *sqlwriter.TextWriter, value, label string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if err := w.WriteSectionSeparator(label); err != nil {
		return err
	}
	paths := splitPaths(value)
	if len(paths) == 0 {
		return w.WriteRaw(value + "\n")
	}
	for _, p := range paths {
		if err := inlineFile(fs, w, p); err != nil {
			return fmt.Errorf("importer: %s: %w", label, err)
		}
	}
	return nil
}

// splitPaths recognizes value as a list of .sql file paths only when every
// non-empty entry carries that extension; otherwise value is a literal SQL
// fragment and splitPaths returns nil.
func splitPaths(value string) []string {
	var candidates []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == '\n' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		candidates = append(candidates, part)
	}
	for _, c := range candidates {
		if !strings.HasSuffix(c, ".sql") {
			return nil
		}
	}
	return candidates
}

// inlineFile writes path's contents as-is (not re-parsed into statements),
// preceded by a comment naming the source file.
func inlineFile(fs afero.Fs, w *sqlwriter.TextWriter, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.WriteComment(fmt.Sprintf("from %s", path)); err != nil {
		return err
	}
	contents, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	return w.WriteRaw(string(contents) + "\n")
}
