package importer_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen/genctx"
	"github.com/fastnate-go/seedgen/importer"
	"github.com/fastnate-go/seedgen/provider"
	"github.com/fastnate-go/seedgen/schema"
	"github.com/fastnate-go/seedgen/schema/field"
	"github.com/fastnate-go/seedgen/sqlgen"
)

type importerWidget struct {
	ID   int64
	Name string
}

type importerWidgetSchema struct{ schema.Schema }

func (importerWidgetSchema) Fields() []schema.Field {
	return []schema.Field{
		field.Int64("id").ID().Generated(),
		field.String("name"),
	}
}

type widgetProvider struct{ built []string }

func (p *widgetProvider) BuildEntities(context.Context, *genctx.Context) error {
	p.built = []string{"alice", "bob"}
	return nil
}

func (p *widgetProvider) WriteEntities(ctx context.Context, gctx *genctx.Context, gen *sqlgen.Generator) error {
	desc, err := gctx.Resolve("Widget")
	if err != nil {
		return err
	}
	for _, name := range p.built {
		if err := gen.InsertEntity(ctx, desc, &importerWidget{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

func newRunFixture(t *testing.T) (*viper.Viper, afero.Fs) {
	t.Helper()
	provider.ResetForTest()
	provider.Register("widgets", 10, nil, func(map[string]provider.DataProvider) (provider.DataProvider, error) {
		return &widgetProvider{}, nil
	})
	v := viper.New()
	importer.SetDefaults(v)
	return v, afero.NewMemMapFs()
}

func TestRunWritesStatementsAndSummary(t *testing.T) {
	v, fs := newRunFixture(t)
	v.Set("output-file", "out.sql")

	cfg, err := importer.LoadConfig(v)
	require.NoError(t, err)
	gctx, err := importer.NewContext(cfg)
	require.NoError(t, err)
	gctx.Register("Widget", importerWidgetSchema{})

	summary, err := importer.Run(context.Background(), cfg, gctx, fs)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Statements)

	contents, err := afero.ReadFile(fs, "out.sql")
	require.NoError(t, err)
	require.Contains(t, string(contents), `INSERT INTO "widgets"`)
	require.Contains(t, string(contents), "widgets")
}

func TestRunInlinesLiteralPrefixAndPostfix(t *testing.T) {
	v, fs := newRunFixture(t)
	v.Set("output-file", "out.sql")
	v.Set("prefix", "-- hand-written prefix")
	v.Set("postfix", "-- hand-written postfix")

	cfg, err := importer.LoadConfig(v)
	require.NoError(t, err)
	gctx, err := importer.NewContext(cfg)
	require.NoError(t, err)
	gctx.Register("Widget", importerWidgetSchema{})

	_, err = importer.Run(context.Background(), cfg, gctx, fs)
	require.NoError(t, err)

	contents, err := afero.ReadFile(fs, "out.sql")
	require.NoError(t, err)
	require.Contains(t, string(contents), "hand-written prefix")
	require.Contains(t, string(contents), "hand-written postfix")
}

func TestRunInlinesSQLFileList(t *testing.T) {
	v, fs := newRunFixture(t)
	v.Set("output-file", "out.sql")
	v.Set("prefix", "seed/header.sql")

	require.NoError(t, afero.WriteFile(fs, "seed/header.sql", []byte("-- from a file\n"), 0o644))

	cfg, err := importer.LoadConfig(v)
	require.NoError(t, err)
	gctx, err := importer.NewContext(cfg)
	require.NoError(t, err)
	gctx.Register("Widget", importerWidgetSchema{})

	_, err = importer.Run(context.Background(), cfg, gctx, fs)
	require.NoError(t, err)

	contents, err := afero.ReadFile(fs, "out.sql")
	require.NoError(t, err)
	require.Contains(t, string(contents), "from a file")
	require.Contains(t, string(contents), "from seed/header.sql")
}

func TestRunDryRunWritesNoFile(t *testing.T) {
	v, fs := newRunFixture(t)
	v.Set("output-file", "out.sql")
	v.Set("dry-run", true)

	cfg, err := importer.LoadConfig(v)
	require.NoError(t, err)
	gctx, err := importer.NewContext(cfg)
	require.NoError(t, err)
	gctx.Register("Widget", importerWidgetSchema{})

	summary, err := importer.Run(context.Background(), cfg, gctx, fs)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Providers)

	exists, err := afero.Exists(fs, "out.sql")
	require.NoError(t, err)
	require.False(t, exists)
}
