// Package config loads NetMetric configuration from a yaml file with
// environment overrides. Configuration is returned by value to the caller;
// there is no process-wide singleton.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/netmetric/netmetric/log"
	"github.com/netmetric/netmetric/metrics"
	"github.com/netmetric/netmetric/monitor"
	"github.com/netmetric/netmetric/registry"
	"github.com/netmetric/netmetric/validator"
)

// Config represents the full NetMetric configuration.
type Config struct {
	AppName  string           `json:"app_name" yaml:"app_name" validate:"required"`
	Metrics  *metrics.Options `json:"metrics" yaml:"metrics"`
	Registry *registry.Config `json:"registry" yaml:"registry"`
	Monitor  *monitor.Config  `json:"monitor" yaml:"monitor"`
	Logger   *log.Config      `json:"logger" yaml:"logger"`

	viper *viper.Viper
}

// Load loads the configuration. When path is empty, a config.yaml is searched
// in the working directory and /etc/netmetric; environment variables with the
// NETMETRIC_ prefix override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/netmetric")
	}
	v.SetEnvPrefix("netmetric")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName:  getStringOrDefault(v, "app_name", "netmetric"),
		Metrics:  getMetricsOptions(v),
		Registry: getRegistryConfig(v),
		Monitor:  getMonitorConfig(v),
		Logger:   getLoggerConfig(v),
		viper:    v,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration tree.
func (c *Config) Validate() error {
	if errs := validator.ValidateStruct(c); len(errs) > 0 {
		for field, msg := range errs {
			return fmt.Errorf("invalid config: %s: %s", field, msg)
		}
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}
	if err := c.Registry.Validate(); err != nil {
		return fmt.Errorf("invalid registry config: %w", err)
	}
	return nil
}

// Watch re-reads the file on change and invokes onChange with the fresh
// configuration. Reload errors are delivered to onError; the previous
// configuration stays in effect.
func (c *Config) Watch(onChange func(*Config), onError func(error)) {
	c.viper.OnConfigChange(func(fsnotify.Event) {
		fresh, err := fromViper(c.viper)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(fresh)
	})
	c.viper.WatchConfig()
}

func getMetricsOptions(v *viper.Viper) *metrics.Options {
	defaults := metrics.DefaultOptions()
	return &metrics.Options{
		GlobalTags:        v.GetStringMapString("metrics.global_tags"),
		ResourceTags:      v.GetStringMapString("metrics.resource_tags"),
		MaxTagsPerMetric:  getIntOrDefault(v, "metrics.max_tags_per_metric", defaults.MaxTagsPerMetric),
		MaxTagKeyLength:   getIntOrDefault(v, "metrics.max_tag_key_length", defaults.MaxTagKeyLength),
		MaxTagValueLength: getIntOrDefault(v, "metrics.max_tag_value_length", defaults.MaxTagValueLength),
		SummaryWindowSize: getIntOrDefault(v, "metrics.summary_window_size", defaults.SummaryWindowSize),
	}
}

func getRegistryConfig(v *viper.Viper) *registry.Config {
	defaults := registry.DefaultConfig()
	return &registry.Config{
		Enabled:       getBoolOrDefault(v, "registry.enabled", defaults.Enabled),
		FlushInterval: getDurationOrDefault(v, "registry.flush_interval", defaults.FlushInterval),
	}
}

func getMonitorConfig(v *viper.Viper) *monitor.Config {
	defaults := monitor.DefaultConfig()
	return &monitor.Config{
		Enabled:       getBoolOrDefault(v, "monitor.enabled", defaults.Enabled),
		RuntimeSeries: getBoolOrDefault(v, "monitor.runtime_series", defaults.RuntimeSeries),
	}
}

func getLoggerConfig(v *viper.Viper) *log.Config {
	defaults := log.DefaultConfig()
	return &log.Config{
		Level:      getStringOrDefault(v, "logger.level", defaults.Level),
		Format:     getStringOrDefault(v, "logger.format", defaults.Format),
		Output:     getStringOrDefault(v, "logger.output", defaults.Output),
		OutputFile: v.GetString("logger.output_file"),
	}
}
