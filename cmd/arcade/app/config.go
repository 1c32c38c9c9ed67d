package app

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
)

// EnvPrefix prefixes every environment variable read into the configuration.
const EnvPrefix = "ARCADE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Build configuration
	SourceDir      string
	OutputDir      string
	Database       string
	Language       string
	AppName        string
	Author         string
	DefaultSection string
	FullScreen     bool
	LoadFilter     string
	PublishFilter  string

	// Emulator configuration
	MAME   MAMEConfig
	DOSBox DOSBoxConfig

	// Server configuration
	Host string
	Port int

	// Logging configuration
	LogFormat string
	LogOutput string
}

// MAMEConfig configures MAME dump sets and emulator binaries.
type MAMEConfig struct {
	ExternalEmulatorLocation string            `mapstructure:"external_emulator_location"`
	PreferredVersion         string            `mapstructure:"preferred_version"`
	RomsetTypes              map[string]string `mapstructure:"romset_types"`
}

// DOSBoxConfig configures the DOSBox emulator build.
type DOSBoxConfig struct {
	Type string `mapstructure:"type"`
}

// legacyKeys maps the keys of the JSON config files of older source trees
// to their configuration keys. Viper lower cases keys when reading.
var legacyKeys = map[string]map[string]string{
	"mame": {
		"externalemulatorlocation": "mame.external_emulator_location",
		"preferredversion":         "mame.preferred_version",
		"romsettypes":              "mame.romset_types",
	},
	"dosbox": {
		"type": "dosbox.type",
	},
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (ARCADE_ prefix)
// 3. .env files
// 4. Config file (./arcade.yaml or configFile)
// 5. Legacy mame.json and dosbox.json in the source directory
// 6. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(strings.TrimSuffix(constants.DefaultConfigFile, filepath.Ext(constants.DefaultConfigFile)))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	if err := mergeLegacy(v, v.GetString("source_dir")); err != nil {
		return nil, err
	}

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		SourceDir:      v.GetString("source_dir"),
		OutputDir:      v.GetString("output_dir"),
		Database:       v.GetString("database"),
		Language:       v.GetString("language"),
		AppName:        v.GetString("app_name"),
		Author:         v.GetString("author"),
		DefaultSection: v.GetString("default_section"),
		FullScreen:     v.GetBool("full_screen"),
		LoadFilter:     v.GetString("load_filter"),
		PublishFilter:  v.GetString("publish_filter"),

		MAME: MAMEConfig{
			ExternalEmulatorLocation: v.GetString("mame.external_emulator_location"),
			PreferredVersion:         v.GetString("mame.preferred_version"),
			RomsetTypes:              v.GetStringMapString("mame.romset_types"),
		},
		DOSBox: DOSBoxConfig{
			Type: v.GetString("dosbox.type"),
		},

		Host: v.GetString("host"),
		Port: v.GetInt("port"),

		// Logging configuration
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}

	return config, nil
}

// setDefaults registers the default of every top-level key. The mame and
// dosbox sections have no defaults so legacy files can fill them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source_dir", constants.DefaultSourceDir)
	v.SetDefault("output_dir", constants.DefaultOutputDir)
	v.SetDefault("database", constants.DefaultDatabase)
	v.SetDefault("language", constants.DefaultLanguage)
	v.SetDefault("app_name", constants.DefaultAppName)
	v.SetDefault("default_section", constants.DefaultSection)
	v.SetDefault("load_filter", "all")
	v.SetDefault("publish_filter", "all")
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("log.format", getEnvOrDefault("LOG_FORMAT", "auto"))
	v.SetDefault("log.output", getEnvOrDefault("LOG_OUTPUT", "stderr"))
	v.SetDefault("log.level", os.Getenv("LOG_LEVEL"))
}

// mergeLegacy fills unset mame and dosbox keys from <sourceDir>/mame.json
// and <sourceDir>/dosbox.json.
func mergeLegacy(v *viper.Viper, sourceDir string) error {
	for name, keys := range legacyKeys {
		file := filepath.Join(sourceDir, name+".json")
		if _, err := os.Stat(file); err != nil {
			continue
		}

		legacy := viper.New()
		legacy.SetConfigFile(file)
		legacy.SetConfigType("json")
		if err := legacy.ReadInConfig(); err != nil {
			return errors.NewConfigError(name, "reading "+file, err)
		}

		for legacyKey, key := range keys {
			if !legacy.IsSet(legacyKey) || v.IsSet(key) {
				continue
			}
			v.Set(key, legacy.Get(legacyKey))
		}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
