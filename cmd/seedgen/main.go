// Command seedgen is the CLI surface for the importer front end (spec §6,
// component J): positional [output-file] [data-folder] arguments in
// either order, config keys overridable via SEEDGEN_-prefixed environment
// variables, exit code 0 on success and non-zero on any unrecoverable
// error.
//
// seedgen itself registers no entity schemas or data providers: those are
// supplied by the application embedding this module, via
// genctx.Context.Register and provider.Register calls in blank-imported
// packages (spec §9 Design Notes, option (c) — there is no Go analogue of
// scanning a package tree for annotated classes, so registration is
// explicit instead of reflective).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastnate-go/seedgen/importer"
)

const envPrefix = "SEEDGEN"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("seedgen: run failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	importer.SetDefaults(v)

	cmd := &cobra.Command{
		Use:   "seedgen [output-file] [data-folder]",
		Short: "Generate a deterministic SQL seed script from a registered entity model",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, args)
		},
	}

	importer.BindFlags(cmd, v)
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return cmd
}

func run(ctx context.Context, v *viper.Viper, args []string) error {
	fs := afero.NewOsFs()
	applyPositionalArgs(v, fs, args)

	cfg, err := importer.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("seedgen: %w", err)
	}

	gctx, err := importer.NewContext(cfg)
	if err != nil {
		return fmt.Errorf("seedgen: %w", err)
	}

	summary, err := importer.Run(ctx, cfg, gctx, fs)
	if err != nil {
		return fmt.Errorf("seedgen: %w", err)
	}

	logrus.WithField("statements", summary.Statements).
		WithField("providers", summary.Providers).
		WithField("elapsed", summary.Elapsed).
		Info("seedgen: done")
	return nil
}

// applyPositionalArgs disambiguates the two positional arguments by
// whether each one denotes an existing directory (spec §6: "distinguished
// by whether the argument denotes an existing directory"), in either
// order, overriding whatever output-file/data-folder viper already holds.
func applyPositionalArgs(v *viper.Viper, fs afero.Fs, args []string) {
	for _, arg := range args {
		if isDir(fs, arg) {
			v.Set("data-folder", arg)
		} else {
			v.Set("output-file", arg)
		}
	}
}

func isDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}
