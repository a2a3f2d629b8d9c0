package config

import (
	"fmt"

	"github.com/ajitpratap0/datacontainer/pkg/binning"
	"github.com/ajitpratap0/datacontainer/pkg/compression"
	"github.com/ajitpratap0/datacontainer/pkg/logger"
)

// Config is the configuration structure shared by the library and the CLI.
type Config struct {
	// Binning settings fill in omitted fields of a bin instruction
	Binning BinningConfig `yaml:"binning" json:"binning" mapstructure:"binning"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging" mapstructure:"logging"`

	// IO settings for dataset files read and written by the CLI
	IO IOConfig `yaml:"io" json:"io" mapstructure:"io"`

	// Metrics toggles prometheus instrumentation output in the CLI
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// BinningConfig contains the defaults used when a bin instruction omits
// its method or class count. Each default that is applied emits a warning.
type BinningConfig struct {
	// DefaultMethod is used when an instruction has no method
	DefaultMethod binning.Method `yaml:"default_method" json:"default_method" mapstructure:"default_method"`
	// DefaultNumClasses is used when an instruction has no class count
	DefaultNumClasses int `yaml:"default_num_classes" json:"default_num_classes" mapstructure:"default_num_classes"`
}

// IOConfig contains dataset file settings.
type IOConfig struct {
	// Compression selects the codec for written files (none, gzip, zstd, snappy, s2, lz4).
	// Input files are detected by extension.
	Compression compression.Algorithm `yaml:"compression" json:"compression" mapstructure:"compression"`
	// ArrowBatchSize is the number of rows per Arrow record batch
	ArrowBatchSize int `yaml:"arrow_batch_size" json:"arrow_batch_size" mapstructure:"arrow_batch_size"`
}

// MetricsConfig contains instrumentation settings.
type MetricsConfig struct {
	// Dump prints the gathered metrics in text exposition format after a CLI command
	Dump bool `yaml:"dump" json:"dump" mapstructure:"dump"`
}

// NewDefault creates a Config with the defaults the container ships with.
func NewDefault() *Config {
	return &Config{
		Binning: BinningConfig{
			DefaultMethod:     binning.EqualInterval,
			DefaultNumClasses: 5,
		},
		Logging: logger.Config{
			Level:       "warn",
			Development: false,
			Encoding:    "json",
		},
		IO: IOConfig{
			Compression:    compression.None,
			ArrowBatchSize: 1024,
		},
		Metrics: MetricsConfig{
			Dump: false,
		},
	}
}

// Validate validates the configuration for correctness and normalizes the
// spelling of the method and compression names.
func (c *Config) Validate() error {
	method, err := binning.ParseMethod(string(c.Binning.DefaultMethod))
	if err != nil {
		return fmt.Errorf("binning.default_method: %w", err)
	}
	c.Binning.DefaultMethod = method
	if c.Binning.DefaultNumClasses <= 0 {
		return fmt.Errorf("binning.default_num_classes must be positive")
	}
	alg, err := compression.ParseAlgorithm(string(c.IO.Compression))
	if err != nil {
		return fmt.Errorf("io.compression: %w", err)
	}
	c.IO.Compression = alg
	if c.IO.ArrowBatchSize <= 0 {
		return fmt.Errorf("io.arrow_batch_size must be positive")
	}
	return nil
}
