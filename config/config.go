package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thehale/sortprof/profiling"
)

// Config holds the driver settings. Values come from defaults, an optional
// config.yaml, SORTPROF_* environment variables and command-line flags, in
// increasing order of precedence.
type Config struct {
	ServiceName string `mapstructure:"service_name"`
	OutputPath  string `mapstructure:"output_path"`
	Format      string `mapstructure:"format"`
	ListSize    int    `mapstructure:"list_size"`
	MaxValue    int    `mapstructure:"max_value"`
	Seed        uint64 `mapstructure:"seed"`
	PrintReport bool   `mapstructure:"print_report"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"service-name": "service_name",
	"output":       "output_path",
	"format":       "format",
	"size":         "list_size",
	"max":          "max_value",
	"seed":         "seed",
	"report":       "print_report",
}

// RegisterFlags adds the driver flags to fs. Flags that are not set on the
// command line do not override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("service-name", "sortprof", "service name reported in trace resources")
	fs.StringP("output", "o", "sorting.profile", "file the profiling statistics are written to")
	fs.StringP("format", "f", "pprof", "profile format: pprof, json or text")
	fs.IntP("size", "n", 250, "number of random values to sort")
	fs.Int("max", 1000, "largest random value")
	fs.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	fs.Bool("report", true, "print the call report to stdout")
}

// Load reads the configuration from path and the environment, and applies
// flags from fs when it is not nil.
func Load(path string, fs *pflag.FlagSet) (config Config, err error) {
	v := viper.New()
	v.SetDefault("service_name", "sortprof")
	v.SetDefault("output_path", "sorting.profile")
	v.SetDefault("format", "pprof")
	v.SetDefault("list_size", 250)
	v.SetDefault("max_value", 1000)
	v.SetDefault("seed", 0)
	v.SetDefault("print_report", true)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("sortprof")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err = v.BindPFlag(key, flag); err != nil {
					return
				}
			}
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			err = fmt.Errorf("config: read %s: %w", path, err)
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		err = fmt.Errorf("config: decode: %w", err)
		return
	}
	err = config.Validate()
	return
}

// Validate rejects settings the driver cannot run with.
func (c Config) Validate() error {
	switch {
	case c.OutputPath == "":
		return errors.New("config: output_path must not be empty")
	case c.ListSize < 0:
		return fmt.Errorf("config: list_size must not be negative, got %d", c.ListSize)
	case c.MaxValue < 0:
		return fmt.Errorf("config: max_value must not be negative, got %d", c.MaxValue)
	}
	if err := (profiling.Config{Format: profiling.Format(c.Format)}).Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
