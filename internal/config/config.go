package config

import (
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yarninisrael/OpenInsight/internal/errors"
)

const (
	// DefaultPort of 0 lets the transport resolve the port from
	// ~/.ssh/config, falling back to 22.
	DefaultPort           = 0
	DefaultInterval       = 60
	DefaultOutput         = "router_report.xlsx"
	DefaultConnectTimeout = 10
	DefaultCommandTimeout = 10
	DefaultLogLevel       = "info"

	configName = "openinsight"
	configEnv  = "OPENINSIGHT_CONFIG"
	envPrefix  = "OPENINSIGHT"
)

var errFactory = errors.New()

// Config holds the poller settings. Interval and the timeouts are in
// seconds.
type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	KeyFile        string `mapstructure:"key_file"`
	Interval       int
	Output         string
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	CommandTimeout int    `mapstructure:"command_timeout"`
	LogLevel       string `mapstructure:"log_level"`
}

func Load(opts ...Option) (*Config, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("user", "")
	v.SetDefault("password", "")
	v.SetDefault("key_file", "")
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("connect_timeout", DefaultConnectTimeout)
	v.SetDefault("command_timeout", DefaultCommandTimeout)
	v.SetDefault("log_level", DefaultLogLevel)

	// Define flags
	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.String("host", "", "Router hostname, address or ssh config alias")
	flags.Int("port", DefaultPort, "SSH port of the router (0 resolves from ssh config)")
	flags.String("user", "", "SSH user")
	flags.String("key-file", "", "Path to an SSH private key")
	flags.Int("interval", DefaultInterval, "Seconds between collection cycles")
	flags.Int("connect-timeout", DefaultConnectTimeout, "SSH connect timeout in seconds")
	flags.Int("command-timeout", DefaultCommandTimeout, "Per-command timeout in seconds")
	flags.String("output", DefaultOutput, "Path of the report workbook")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Load configuration from file
	v.SetConfigType("toml")
	configFile := o.configPath
	if configFile == "" {
		configFile = os.Getenv(configEnv)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isIgnorableConfigError(err) {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	// Override config file values with command line flags
	flags.Visit(func(f *pflag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the poller cannot run with
func (c *Config) Validate() error {
	if c.Host == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errFactory.WithData(errors.ErrInvalidConfig, c.Port)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.ConnectTimeout <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "connect_timeout must be positive")
	}
	if c.CommandTimeout <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "command_timeout must be positive")
	}
	if c.Output == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "output path is required")
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// A missing config file is not an error: defaults and flags still apply.
func isIgnorableConfigError(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}

	return errors.Is(err, fs.ErrNotExist)
}
