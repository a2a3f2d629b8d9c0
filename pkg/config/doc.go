// Package config provides the configuration system for the data container.
//
// A single Config structure holds the binning defaults applied to partial
// bin instructions, the logger settings, the CLI I/O options and the
// metrics toggle.
//
// # Usage
//
// ## Defaults
//
//	cfg := config.NewDefault()
//	cfg.Binning.DefaultNumClasses = 7
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// ## Loading a YAML File
//
// LoadFile reads YAML on top of the defaults. ${VAR_NAME} references are
// replaced with environment values before parsing:
//
//	# datacontainer.yaml
//	binning:
//	  default_method: ${DEFAULT_METHOD}
//	  default_num_classes: 4
//	io:
//	  compression: zstd
//
//	cfg, err := config.LoadFile("datacontainer.yaml")
//
// ## Loading Through Viper
//
// LoadViper is used by the CLI. It accepts any format viper reads and lets
// DATACONTAINER_* environment variables override single keys:
//
//	DATACONTAINER_BINNING_DEFAULT_NUM_CLASSES=3 datacontainer bounds data.csv --by pop
//
// # Configuration Structure
//
//	type Config struct {
//		Binning BinningConfig  // default method and class count
//		Logging logger.Config  // level, encoding, output paths
//		IO      IOConfig       // output compression, Arrow batch size
//		Metrics MetricsConfig  // dump metrics after a CLI command
//	}
//
// Every loader validates the result: unknown methods or compression
// algorithms and non-positive sizes are rejected.
package config
