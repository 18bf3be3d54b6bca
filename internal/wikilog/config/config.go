package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type LoggingCfg struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	RunLog      string `mapstructure:"run_log"`
}

type InputCfg struct {
	Format      string `mapstructure:"format"`
	FilePath    string `mapstructure:"file_path"`
	ExactFields bool   `mapstructure:"exact_fields"`
}

type OutputCfg struct {
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	RejectFile string `mapstructure:"reject_file"`
}

type PipelineCfg struct {
	Workers   int  `mapstructure:"workers"`
	BatchSize int  `mapstructure:"batch_size"`
	Strict    bool `mapstructure:"strict"`
}

type TaxonomyCfg struct {
	File string `mapstructure:"file"`
}

type StoreCfg struct {
	Driver    string `mapstructure:"driver"`
	DSN       string `mapstructure:"dsn"`
	BatchSize int    `mapstructure:"batch_size"`
}

type GenerateCfg struct {
	Seed    int64  `mapstructure:"seed"`
	Lines   int    `mapstructure:"lines"`
	Host    string `mapstructure:"host"`
	Start   string `mapstructure:"start"`
	Profile string `mapstructure:"profile"`
}

type Config struct {
	Version  string      `mapstructure:"version"`
	Input    InputCfg    `mapstructure:"input"`
	Output   OutputCfg   `mapstructure:"output"`
	Pipeline PipelineCfg `mapstructure:"pipeline"`
	Taxonomy TaxonomyCfg `mapstructure:"taxonomy"`
	Store    StoreCfg    `mapstructure:"store"`
	Generate GenerateCfg `mapstructure:"generate"`
	Logging  LoggingCfg  `mapstructure:"logging"`
}

var cfg *Config

// Load populates global config from a viper instance
func Load(v *viper.Viper) error {
	// set defaults
	v.SetDefault("version", "0.1")
	v.SetDefault("input.format", "confluence")
	v.SetDefault("output.format", "ndjson")
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.batch_size", 512)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.batch_size", 500)
	v.SetDefault("generate.lines", 1000)
	v.SetDefault("generate.host", "wiki.example.com")
	v.SetDefault("logging.level", "info")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = &c
	return nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "", "ndjson", "csv":
	default:
		return fmt.Errorf("output.format must be ndjson or csv, got %q", c.Output.Format)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must not be negative, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.BatchSize < 0 {
		return fmt.Errorf("pipeline.batch_size must not be negative, got %d", c.Pipeline.BatchSize)
	}
	return nil
}

func Get() *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg
}
