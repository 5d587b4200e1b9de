package importer_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastnate-go/seedgen/entity"
	"github.com/fastnate-go/seedgen/importer"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	v := viper.New()
	importer.SetDefaults(v)

	cfg, err := importer.LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "data.sql", cfg.OutputFile)
	assert.Equal(t, "UTF-8", cfg.OutputEncoding)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 1, cfg.MaxUniqueProperties)
}

func TestLoadConfigRejectsUnknownDialect(t *testing.T) {
	v := viper.New()
	importer.SetDefaults(v)
	v.Set("dialect", "oracle")

	_, err := importer.LoadConfig(v)
	require.Error(t, err)
}

func TestLoadConfigRejectsNegativeMaxUniqueProperties(t *testing.T) {
	v := viper.New()
	importer.SetDefaults(v)
	v.Set("max-unique-properties", -1)

	_, err := importer.LoadConfig(v)
	require.Error(t, err)
}

func TestConfigQualityResolvesVocabulary(t *testing.T) {
	v := viper.New()
	importer.SetDefaults(v)
	v.Set("unique-property-quality", "only-required")

	cfg, err := importer.LoadConfig(v)
	require.NoError(t, err)
	q, err := cfg.Quality()
	require.NoError(t, err)
	assert.Equal(t, entity.QualityOnlyRequired, q)
}
