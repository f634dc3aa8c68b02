// Package config loads run settings from .env files, an optional YAML
// config file and LANDFUNNEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. LANDFUNNEL_OUTPUT_DIR.
const EnvPrefix = "LANDFUNNEL"

// Keys.
const (
	KeyOutputDir           = "output_dir"
	KeyCSVDelimiter        = "csv_delimiter"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
	KeyProvinceAliasesFile = "province_aliases_file"
	KeyInteractive         = "interactive"
	KeyFilePrefix          = "file_prefix"
)

// Config holds the settings of one run.
type Config struct {
	OutputDir           string
	CSVDelimiter        rune
	LogLevel            string
	LogFormat           string
	ProvinceAliasesFile string
	Interactive         bool
	FilePrefix          string

	// ConfigFile is the config file actually read, if any.
	ConfigFile string
}

// Options tells Load where to look.
type Options struct {
	// ConfigFile is an explicit config path. When empty, .landfunnel.yaml
	// is searched for in the working directory.
	ConfigFile string
	// EnvFiles are loaded in order; missing files are skipped and values
	// already in the environment are never overwritten.
	EnvFiles []string
}

// DefaultEnvFiles are the .env files read when Options.EnvFiles is nil.
var DefaultEnvFiles = []string{".env", ".env.local"}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutputDir, "out")
	v.SetDefault(KeyCSVDelimiter, ",")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "auto")
	v.SetDefault(KeyProvinceAliasesFile, "")
	v.SetDefault(KeyInteractive, false)
	v.SetDefault(KeyFilePrefix, "")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into v. Cobra flags bound to v before Load take
// precedence over everything else.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = DefaultEnvFiles
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".landfunnel")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	delim, err := parseDelimiter(v.GetString(KeyCSVDelimiter))
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(v.GetString(KeyLogFormat))
	switch format {
	case "auto", "console", "json":
	default:
		return nil, fmt.Errorf("invalid %s %q: want auto, console or json", KeyLogFormat, format)
	}

	return &Config{
		OutputDir:           v.GetString(KeyOutputDir),
		CSVDelimiter:        delim,
		LogLevel:            strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:           format,
		ProvinceAliasesFile: v.GetString(KeyProvinceAliasesFile),
		Interactive:         v.GetBool(KeyInteractive),
		FilePrefix:          v.GetString(KeyFilePrefix),
		ConfigFile:          v.ConfigFileUsed(),
	}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid %s %q: want a single character", KeyCSVDelimiter, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid %s %q", KeyCSVDelimiter, s)
	}
	return r, nil
}
