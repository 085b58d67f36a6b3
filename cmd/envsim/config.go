package main

import (
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the simulator configuration
type Config struct {
	Simulator struct {
		DevicesFile    string `mapstructure:"devices_file"`
		RegionsFile    string `mapstructure:"regions_file"`
		LogDir         string `mapstructure:"log_dir"`
		LocalLog       bool   `mapstructure:"local_log"`
		SendInterval   string `mapstructure:"send_interval"`
		StaggerOffsets []int  `mapstructure:"stagger_offsets"` // seconds
		Timezone       string `mapstructure:"timezone"`
		PublishTimeout string `mapstructure:"publish_timeout"`
		MetricsPort    int    `mapstructure:"metrics_port"`
		LogLevel       string `mapstructure:"log_level"`
	} `mapstructure:"simulator"`
}

// Interval returns the parsed tick interval.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.Simulator.SendInterval)
	if err != nil || d <= 0 {
		return 90 * time.Second
	}
	return d
}

// Timeout returns the parsed publish timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Simulator.PublishTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Offsets returns the stagger offsets as durations.
func (c *Config) Offsets() []time.Duration {
	if len(c.Simulator.StaggerOffsets) == 0 {
		return []time.Duration{0}
	}
	offsets := make([]time.Duration, 0, len(c.Simulator.StaggerOffsets))
	for _, s := range c.Simulator.StaggerOffsets {
		offsets = append(offsets, time.Duration(s)*time.Second)
	}
	return offsets
}

func loadConfig() (*Config, error) {
	var cfg Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/envsim/")

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
		log.Info("No config file found, using defaults and environment variables")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("simulator.devices_file")
	_ = viper.BindEnv("simulator.regions_file")
	_ = viper.BindEnv("simulator.log_dir")
	_ = viper.BindEnv("simulator.send_interval")
	_ = viper.BindEnv("simulator.timezone")
	_ = viper.BindEnv("simulator.log_level")
	_ = viper.BindEnv("simulator.metrics_port")

	// Set defaults
	viper.SetDefault("simulator.devices_file", "devices.json")
	viper.SetDefault("simulator.regions_file", "regions.json")
	viper.SetDefault("simulator.log_dir", "Logs")
	viper.SetDefault("simulator.local_log", true)
	viper.SetDefault("simulator.send_interval", "90s")
	viper.SetDefault("simulator.stagger_offsets", []int{0, 10, 20, 30, 40, 50, 60, 70})
	viper.SetDefault("simulator.timezone", "Africa/Cairo")
	viper.SetDefault("simulator.publish_timeout", "10s")
	viper.SetDefault("simulator.metrics_port", 9090)
	viper.SetDefault("simulator.log_level", "INFO")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
