package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"landfunnel/internal/config"
	"landfunnel/internal/logging"
	"landfunnel/internal/reference"
)

// app carries the state shared by every subcommand.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	log        zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "landfunnel",
		Short: "Reconcile scouted parcels with owner searches into CRM imports",
		Long: `landfunnel joins a cadastral parcel register (Input) with the output of
an owner search (Results), picks one main owner per parcel and writes the
three funnel stages (Scouted, Retrieved, Contacted) as verification
workbooks and CRM import files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default is ./.landfunnel.yaml)")
	pf.String("log-level", "", "log level (trace, debug, info, warn, error)")
	pf.String("log-format", "", "log format (auto, console, json)")

	root.AddCommand(a.newRunCmd(), a.newValidateCmd(), a.newProvinceCmd())
	return root
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"log-level":   config.KeyLogLevel,
	"log-format":  config.KeyLogFormat,
	"out":         config.KeyOutputDir,
	"prefix":      config.KeyFilePrefix,
	"delimiter":   config.KeyCSVDelimiter,
	"aliases":     config.KeyProvinceAliasesFile,
	"interactive": config.KeyInteractive,
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			mustBind(a.v, key, f)
		}
	}
	cfg, err := config.Load(a.v, config.Options{ConfigFile: a.configFile})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    cmd.ErrOrStderr(),
	})
	if cfg.ConfigFile != "" {
		a.log.Debug().Str("file", cfg.ConfigFile).Msg("config loaded")
	}
	return nil
}

// provinces builds the lookup, merging the configured alias file if any.
func (a *app) provinces() (*reference.Lookup, error) {
	table, err := reference.EmbeddedTable()
	if err != nil {
		return nil, err
	}
	var extra map[string]string
	if path := a.cfg.ProvinceAliasesFile; path != "" {
		if extra, err = reference.LoadAliases(path); err != nil {
			return nil, err
		}
		a.log.Info().Str("file", path).Int("aliases", len(extra)).Msg("province aliases loaded")
	}
	return reference.NewLookup(table, extra), nil
}

// mustBind ties a flag to a config key so an explicit flag wins over the
// config file and environment.
func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s flag: %v", key, err))
	}
}
