package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by LoadViper.
// binning.default_num_classes is overridden by DATACONTAINER_BINNING_DEFAULT_NUM_CLASSES.
const EnvPrefix = "DATACONTAINER"

// LoadViper loads a Config through viper: defaults first, then the optional
// config file (any format viper understands), then environment overrides.
// An empty path skips the file.
func LoadViper(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewDefault())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("binning.default_method", string(d.Binning.DefaultMethod))
	v.SetDefault("binning.default_num_classes", d.Binning.DefaultNumClasses)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("logging.encoding", d.Logging.Encoding)
	v.SetDefault("logging.output_paths", d.Logging.OutputPaths)
	v.SetDefault("io.compression", string(d.IO.Compression))
	v.SetDefault("io.arrow_batch_size", d.IO.ArrowBatchSize)
	v.SetDefault("metrics.dump", d.Metrics.Dump)
}
