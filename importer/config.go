// Package importer implements the importer front end (component J):
// binding the dialect, registry, generator context, SQL generator and
// provider orchestrator together, emitting the prologue/epilogue around
// the provider output, and routing the result to a file or a live
// connection (spec §4.2/§6).
package importer

import (
	"fmt"
	"strings"

	"github.com/jellydator/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastnate-go/seedgen/entity"
)

// Config is the realization of spec §6's "configuration map": every
// recognized key, bindable from CLI flags or process-wide configuration
// (environment variables) via viper, following the flags-over-viper
// pattern this module's ambient stack is grounded on.
type Config struct {
	// DataFolder is the base path passed to providers that accept a
	// folder parameter.
	DataFolder string
	// OutputFile is the destination SQL path (default "data.sql").
	OutputFile string
	// OutputEncoding names the output character set (default "UTF-8"; no
	// other encoding is actually implemented, matching the teacher's own
	// narrow first-class support for the one encoding it ships with).
	OutputEncoding string
	// Prefix/Postfix are either literal SQL fragments or semicolon/newline
	// separated lists of .sql file paths to inline as comments + contents.
	Prefix  string
	Postfix string
	// ProviderPackages names additional roots the caller has already
	// registered providers from (informational: this module has no
	// runtime package scan, so providers are always pre-registered via
	// provider.Register — see DESIGN.md).
	ProviderPackages []string
	// Dialect selects the active dialect: "postgres", "mysql", or
	// "sqlite".
	Dialect string
	// MaxUniqueProperties caps unique-key alternate column count (0
	// disables alternates).
	MaxUniqueProperties int
	// UniquePropertyQuality is the lowest-ranked alternate the build
	// phase accepts, in the same string vocabulary as entity.Quality's
	// names.
	UniquePropertyQuality string
	// WriteRelativeIDs is copied into genctx.Settings; no component reads
	// it (see genctx.Settings).
	WriteRelativeIDs bool
	// PreferSequenceCurrentValue is copied into genctx.Settings; no
	// component reads it (see genctx.Settings).
	PreferSequenceCurrentValue bool
	// DryRun builds descriptors and runs every provider's BuildEntities and
	// WriteEntities against a discarding writer, so no statement is written
	// (SPEC_FULL.md §7, supplemented).
	DryRun bool
}

// recognized keys, bound into viper by BindFlags and read back by
// LoadConfig, matching spec §6's configuration-map vocabulary exactly.
const (
	keyDataFolder            = "data-folder"
	keyOutputFile            = "output-file"
	keyOutputEncoding        = "output-encoding"
	keyPrefix                = "prefix"
	keyPostfix               = "postfix"
	keyProviderPackages      = "provider-packages"
	keyDialect               = "dialect"
	keyMaxUniqueProperties   = "max-unique-properties"
	keyUniquePropertyQuality = "unique-property-quality"
	keyWriteRelativeIDs      = "write-relative-ids"
	keyPreferSeqCurrentValue = "prefer-sequence-current-value"
	keyDryRun                = "dry-run"
)

// SetDefaults installs spec §6's documented defaults into v before flags
// or environment variables are bound, so an unconfigured run still behaves
// per spec ("output-file: destination SQL path (default data.sql)").
func SetDefaults(v *viper.Viper) {
	v.SetDefault(keyOutputFile, "data.sql")
	v.SetDefault(keyOutputEncoding, "UTF-8")
	v.SetDefault(keyDialect, "postgres")
	v.SetDefault(keyMaxUniqueProperties, 1)
	v.SetDefault(keyUniquePropertyQuality, "allows-nulls")
}

// BindFlags registers cmd's persistent flags for every recognized key
// except output-file, which has no flag, and binds them into v, so the priority order "CLI flags > env vars >
// defaults" falls out of viper's own precedence rules (spec §6: "Any
// config key may also be supplied via process-wide configuration").
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String(keyDataFolder, "", "base path passed to providers that accept a folder parameter")
	flags.String(keyOutputEncoding, "UTF-8", "output file character set")
	flags.String(keyPrefix, "", "literal SQL, or semicolon/newline-separated .sql file paths, inlined before provider output")
	flags.String(keyPostfix, "", "literal SQL, or semicolon/newline-separated .sql file paths, inlined after provider output")
	flags.StringSlice(keyProviderPackages, nil, "additional provider registration roots (informational)")
	flags.String(keyDialect, "postgres", "target SQL dialect: postgres, mysql, or sqlite")
	flags.Int(keyMaxUniqueProperties, 1, "maximum column count in a unique constraint to consider (0 disables alternates)")
	flags.String(keyUniquePropertyQuality, "allows-nulls", "threshold rank for unique-key alternates")
	flags.Bool(keyWriteRelativeIDs, false, "recorded in the settings; reference resolution does not read it")
	flags.Bool(keyPreferSeqCurrentValue, false, "recorded in the settings; reference resolution does not read it")
	flags.Bool(keyDryRun, false, "build descriptors and run providers without writing any statement")

	for _, key := range []string{
		keyDataFolder, keyOutputEncoding, keyPrefix, keyPostfix, keyProviderPackages,
		keyDialect, keyMaxUniqueProperties, keyUniquePropertyQuality, keyWriteRelativeIDs,
		keyPreferSeqCurrentValue, keyDryRun,
	} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}
}

// LoadConfig reads every recognized key off v into a Config and validates
// it with github.com/jellydator/validation, reporting a ModelError-style
// failure via an ordinary error (the importer boundary is where
// caller-supplied configuration shape is validated; see DESIGN.md for why
// this differs from the entity package's own build-time ModelError).
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DataFolder:                 v.GetString(keyDataFolder),
		OutputFile:                 v.GetString(keyOutputFile),
		OutputEncoding:             v.GetString(keyOutputEncoding),
		Prefix:                     v.GetString(keyPrefix),
		Postfix:                    v.GetString(keyPostfix),
		ProviderPackages:           v.GetStringSlice(keyProviderPackages),
		Dialect:                    v.GetString(keyDialect),
		MaxUniqueProperties:        v.GetInt(keyMaxUniqueProperties),
		UniquePropertyQuality:      v.GetString(keyUniquePropertyQuality),
		WriteRelativeIDs:           v.GetBool(keyWriteRelativeIDs),
		PreferSequenceCurrentValue: v.GetBool(keyPreferSeqCurrentValue),
		DryRun:                     v.GetBool(keyDryRun),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the shape of cfg independent of any particular
// provider/entity model: output routing and dialect selection must be
// well-formed before the expensive descriptor-build phase even starts.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputFile, validation.Required),
		validation.Field(&c.Dialect, validation.Required, validation.In("postgres", "mysql", "sqlite")),
		validation.Field(&c.MaxUniqueProperties, validation.Min(0)),
		validation.Field(&c.UniquePropertyQuality, validation.In(
			"allows-nulls", "only-primitives", "only-required", "only-required-primitives")),
	)
}

// qualityVocabulary maps Config.UniquePropertyQuality's string vocabulary
// onto entity.Quality, matching the ranking spec §4.6 documents.
var qualityVocabulary = map[string]entity.Quality{
	"allows-nulls":             entity.QualityAllowsNulls,
	"only-primitives":          entity.QualityOnlyPrimitives,
	"only-required":            entity.QualityOnlyRequired,
	"only-required-primitives": entity.QualityOnlyRequiredPrimitives,
}

// Quality resolves UniquePropertyQuality to its entity.Quality value.
func (c *Config) Quality() (entity.Quality, error) {
	q, ok := qualityVocabulary[strings.ToLower(c.UniquePropertyQuality)]
	if !ok {
		return 0, fmt.Errorf("importer: unrecognized unique-property-quality %q", c.UniquePropertyQuality)
	}
	return q, nil
}
