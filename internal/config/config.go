/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v3"
)

// Config represents the migratype configuration
type Config struct {
	// Migration input settings
	Migrations MigrationsConfig `yaml:"migrations" mapstructure:"migrations"`

	// Hand-written query settings
	Queries QueriesConfig `yaml:"queries" mapstructure:"queries"`

	// Generated output settings
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Service generation settings
	Services ServicesConfig `yaml:"services" mapstructure:"services"`

	// Dexie schema settings
	Dexie DexieConfig `yaml:"dexie" mapstructure:"dexie"`
}

// MigrationsConfig contains settings for the SQL migration input
type MigrationsConfig struct {
	Directory   string `yaml:"directory" mapstructure:"directory"`       // Directory holding the ordered .sql migration files
	FilePattern string `yaml:"file_pattern" mapstructure:"file_pattern"` // Filename regexp; first capture group is the sequence number
}

// QueriesConfig contains settings for hand-written query files
type QueriesConfig struct {
	Directory string `yaml:"directory" mapstructure:"directory"` // Directory holding per-table query YAML files
}

// OutputConfig contains the generated file locations
type OutputConfig struct {
	ModelsDir      string `yaml:"models_dir" mapstructure:"models_dir"`           // Directory for generated entity models
	ServicesDir    string `yaml:"services_dir" mapstructure:"services_dir"`       // Directory for generated service classes
	MigrationsFile string `yaml:"migrations_file" mapstructure:"migrations_file"` // Path of the generated migration runner
	DexieFile      string `yaml:"dexie_file" mapstructure:"dexie_file"`           // Path of the generated Dexie schema
	Verbose        bool   `yaml:"verbose" mapstructure:"verbose"`                 // Enable verbose output
}

// ServicesConfig contains service generation settings
type ServicesConfig struct {
	Framework string `yaml:"framework" mapstructure:"framework"` // plain, react, angular
	Hooks     bool   `yaml:"hooks" mapstructure:"hooks"`         // Generate framework bindings for hand-written queries
}

// DexieConfig contains settings for the IndexedDB mirror schema
type DexieConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`             // Whether the all command emits the Dexie schema
	DatabaseName string `yaml:"database_name" mapstructure:"database_name"` // IndexedDB database name
	ClassName    string `yaml:"class_name" mapstructure:"class_name"`       // Generated Dexie class name
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Migrations: MigrationsConfig{
			Directory:   "migrations",
			FilePattern: `^(\d+)[-_].*\.sql$`,
		},
		Queries: QueriesConfig{
			Directory: "queries",
		},
		Output: OutputConfig{
			ModelsDir:      filepath.Join("src", "db", "models"),
			ServicesDir:    filepath.Join("src", "db", "services"),
			MigrationsFile: filepath.Join("src", "db", "migrations.ts"),
			DexieFile:      filepath.Join("src", "db", "dexie.ts"),
			Verbose:        false,
		},
		Services: ServicesConfig{
			Framework: "plain",
			Hooks:     false,
		},
		Dexie: DexieConfig{
			Enabled:      true,
			DatabaseName: "app",
			ClassName:    "AppDatabase",
		},
	}
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix("MIGRATYPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	// Try to read config file if it exists
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("migratype.config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into our config struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads configuration or returns default if not found
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Add header comment
	header := `# Migratype Configuration File
#
# This file contains configuration for the migratype generator.
# All settings can be overridden using environment variables with the prefix MIGRATYPE_
# For example: MIGRATYPE_SERVICES_FRAMEWORK=react
#
# For nested values, use underscores: MIGRATYPE_OUTPUT_MODELS_DIR=src/db/models
#
# Supported service frameworks:
#   - plain: framework-free service classes
#   - react: adds one hook per hand-written query when hooks is true
#   - angular: marks each service class @Injectable
#

`

	// Write to file
	fullContent := []byte(header + string(data))
	if err := os.WriteFile(path, fullContent, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper, cfg *Config) {
	// Migration input defaults
	v.SetDefault("migrations.directory", cfg.Migrations.Directory)
	v.SetDefault("migrations.file_pattern", cfg.Migrations.FilePattern)

	// Query defaults
	v.SetDefault("queries.directory", cfg.Queries.Directory)

	// Output defaults
	v.SetDefault("output.models_dir", cfg.Output.ModelsDir)
	v.SetDefault("output.services_dir", cfg.Output.ServicesDir)
	v.SetDefault("output.migrations_file", cfg.Output.MigrationsFile)
	v.SetDefault("output.dexie_file", cfg.Output.DexieFile)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	// Service defaults
	v.SetDefault("services.framework", cfg.Services.Framework)
	v.SetDefault("services.hooks", cfg.Services.Hooks)

	// Dexie defaults
	v.SetDefault("dexie.enabled", cfg.Dexie.Enabled)
	v.SetDefault("dexie.database_name", cfg.Dexie.DatabaseName)
	v.SetDefault("dexie.class_name", cfg.Dexie.ClassName)
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return "migratype.config.yaml"
}

// ConfigExists checks if a config file exists
func ConfigExists() bool {
	_, err := os.Stat(GetConfigPath())
	return err == nil
}
