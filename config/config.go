// Package config loads the cointax configuration file.
//
// Values come, by increasing priority, from the field defaults, the YAML file
// where ${VAR} references are expanded, and the COINTAX_* environment
// variables. A .env file in the working directory is loaded first when
// present.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/etnz/cointax/date"
)

type Config struct {
	Log           Log           `yaml:"log"`
	Consolidation Consolidation `yaml:"consolidation"`
	Exchange      Exchange      `yaml:"exchange"`
	Output        Output        `yaml:"output"`
	Input         Input         `yaml:"input"`
}

type Log struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stderr" validate:"required"` // stdout, stderr or a file path
}

type Consolidation struct {
	Window        string `yaml:"window" default:"daily" validate:"oneof=daily weekly monthly quarterly yearly"`
	Period        string `yaml:"period" default:"monthly" validate:"oneof=daily weekly monthly quarterly yearly"`
	WindowEnabled bool   `yaml:"window_enabled" default:"true"`
	PeriodEnabled bool   `yaml:"period_enabled" default:"true"`
}

// Exchange names the exchange written in records, per export schema.
type Exchange struct {
	Statement    string `yaml:"statement" default:"binance.com" validate:"required"`
	Distribution string `yaml:"distribution" default:"binance.us" validate:"required"`
	Commission   string `yaml:"commission" default:"binance.com" validate:"required"`
}

type Output struct {
	DateFormat string `yaml:"date_format" default:"2006-01-02T15:04:05.000Z" validate:"required"`
}

type Input struct {
	// DefaultOffset is appended to export timestamps without one.
	DefaultOffset string `yaml:"default_offset" default:"+00:00" validate:"offset"`
}

// Environment variables overriding the file.
const (
	EnvLogLevel  = "COINTAX_LOG_LEVEL"
	EnvLogFormat = "COINTAX_LOG_FORMAT"
	EnvExchange  = "COINTAX_EXCHANGE" // overrides every exchange name
)

var validate = validator.New()

func init() {
	err := validate.RegisterValidation("offset", func(fl validator.FieldLevel) bool {
		return date.ValidOffset(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Default returns the configuration used without a file.
func Default() *Config {
	cfg := new(Config)
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration at path. An empty path means defaults only.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvExchange); v != "" {
		c.Exchange = Exchange{Statement: v, Distribution: v, Commission: v}
	}
}

// WindowPeriod returns the parsed consolidation window.
func (c *Config) WindowPeriod() date.Period { return mustPeriod(c.Consolidation.Window) }

// IncomePeriod returns the parsed Income consolidation period.
func (c *Config) IncomePeriod() date.Period { return mustPeriod(c.Consolidation.Period) }

// mustPeriod parses a validated period.
func mustPeriod(s string) date.Period {
	p, err := date.ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}
