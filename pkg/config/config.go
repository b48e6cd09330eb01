package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	EnvironmentDev  = "dev"
	EnvironmentProd = "prod"

	DefaultEnv = "PROD"
)

// Connection describes how a view's SQL resolves against a storage platform:
// which platform dialect it speaks and which database/schema bare table names
// default to. One connection is assigned per view by the caller.
type Connection struct {
	Platform         string `yaml:"platform" json:"platform" validate:"required"`
	DefaultDB        string `yaml:"default_db" json:"default_db"`
	DefaultSchema    string `yaml:"default_schema" json:"default_schema"`
	PlatformInstance string `yaml:"platform_instance" json:"platform_instance"`
	PlatformEnv      string `yaml:"platform_env" json:"platform_env"`
}

// Env returns the environment label for datasets resolved through this
// connection, falling back to the source-wide default.
func (c Connection) Env(cfg *Config) string {
	if c.PlatformEnv != "" {
		return c.PlatformEnv
	}

	return cfg.Env
}

type Config struct {
	// Environment selects which "-- if dev --" / "-- if prod --" comment
	// branches survive template resolution.
	Environment string `yaml:"environment" json:"environment" validate:"omitempty,oneof=dev prod"`

	// Env is the fabric label stamped on every produced dataset reference.
	Env string `yaml:"env" json:"env"`

	ModelName      string `yaml:"model_name" json:"model_name" validate:"required"`
	BaseFolderPath string `yaml:"base_folder_path" json:"base_folder_path"`

	ParseTableNamesFromSQL bool `yaml:"parse_table_names_from_sql" json:"parse_table_names_from_sql"`

	// LiquidVariables seeds the variable dictionary used when resolving
	// templated SQL. Nested mappings mirror dotted variable paths.
	LiquidVariables map[string]interface{} `yaml:"liquid_variables" json:"liquid_variables"`

	Connections map[string]Connection `yaml:"connections" json:"connections"`
}

func (c *Config) setDefaults() {
	if c.Environment == "" {
		c.Environment = EnvironmentProd
	}

	if c.Env == "" {
		c.Env = DefaultEnv
	}

	if c.LiquidVariables == nil {
		c.LiquidVariables = map[string]interface{}{}
	}
}

// GetConnection looks up a named connection, case-insensitively.
func (c *Config) GetConnection(name string) (Connection, bool) {
	if conn, ok := c.Connections[name]; ok {
		return conn, true
	}

	for connName, conn := range c.Connections {
		if strings.EqualFold(connName, name) {
			return conn, true
		}
	}

	return Connection{}, false
}

// LoadFromFile reads and validates a source config from a YAML file.
func LoadFromFile(fs afero.Fs, path string) (*Config, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	return LoadFromBytes(buf)
}

func LoadFromBytes(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.setDefaults()

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &cfg, nil
}
