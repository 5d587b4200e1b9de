package sqlwriter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fastnate-go/seedgen/dialect"
)

// TextWriter renders statements as SQL text into an io.Writer (typically an
// afero.File). It is the default shape used when the importer is asked to
// produce a script rather than execute it live.
type TextWriter struct {
	dialect dialect.Dialect
	w       io.Writer
	closer  io.Closer
}

// NewTextWriter wraps w. If w also implements io.Closer, Close will close it.
func NewTextWriter(d dialect.Dialect, w io.Writer) *TextWriter {
	tw := &TextWriter{dialect: d, w: w}
	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}
	return tw
}

var _ Writer = (*TextWriter)(nil)

func (t *TextWriter) WriteStatement(_ context.Context, stmt string) error {
	_, err := fmt.Fprintf(t.w, "%s%s\n", stmt, t.dialect.StatementTerminator())
	return err
}

func (t *TextWriter) WriteComment(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if _, err := fmt.Fprintf(t.w, "%s%s%s\n", t.dialect.CommentPrefix(), line, t.dialect.CommentSuffix()); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextWriter) WriteSectionSeparator(banner string) error {
	if _, err := fmt.Fprintln(t.w); err != nil {
		return err
	}
	return t.WriteComment(banner)
}

func (t *TextWriter) WriteAlignmentStatements(ctx context.Context, stmts []string) error {
	if len(stmts) == 0 {
		return nil
	}
	if err := t.WriteSectionSeparator("Alignment statements"); err != nil {
		return err
	}
	for _, s := range stmts {
		if err := t.WriteStatement(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextWriter) WriteAbort(_ context.Context, stackTrace string) error {
	if err := t.WriteSectionSeparator(""); err != nil {
		return err
	}
	if err := t.WriteComment("\n" + AbortMarker + "\n"); err != nil {
		return err
	}
	return t.WriteComment(stackTrace)
}

// WriteRaw writes text to the underlying sink unmodified, with no
// statement terminator or comment bracketing applied. Used by the importer
// to inline prefix/postfix .sql fragment file contents verbatim (spec §6).
func (t *TextWriter) WriteRaw(text string) error {
	_, err := io.WriteString(t.w, text)
	return err
}

func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
