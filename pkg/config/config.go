package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DataVariableName is the environment variable pointing to the gtd data
	// directory, used when neither --config nor --data are given.
	DataVariableName = "GTDDATA"

	DefaultPort          = 61212
	DefaultTimeout       = 5 * time.Second
	DefaultRequestLimit  = 1 << 20
	DefaultServerCommand = "gtd-server"

	configFileName = "config"
	defaultDataDir = ".gtd"
)

// Flags are the command line values that take part in resolving the
// configuration. Empty strings and nil pointers mean "not set".
type Flags struct {
	ConfigFile string
	DataDir    string
	Quiet      bool
	Verbose    bool
	Port       *int
	Timeout    *time.Duration
}

// Config is the client configuration.
type Config struct {
	Port    int      `yaml:"port"`
	Timeout Duration `yaml:"timeout"`
	Request struct {
		Limit int `yaml:"limit"`
	} `yaml:"request"`
	Server struct {
		Command string `yaml:"command"`
	} `yaml:"server"`
	Verbose bool `yaml:"verbose"`
	Quiet   bool `yaml:"quiet"`
}

// Duration wraps time.Duration to read values like "5s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid duration %q", value.Line, raw)
	}
	d.Duration = parsed

	return nil
}

var cfg *Config

// InitConfig resolves, loads and validates the configuration and adjusts the
// log level accordingly. The result is available through Get.
func InitConfig(flags Flags) error {
	conf := defaults()

	path, required, err := configPath(flags)
	if err != nil {
		return err
	}

	if err := load(path, conf); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			log.Debugf("No config file found at %s, using defaults", path)
		} else {
			return err
		}
	}

	if flags.Port != nil {
		conf.Port = *flags.Port
	}
	if flags.Timeout != nil {
		conf.Timeout.Duration = *flags.Timeout
	}
	conf.Quiet = conf.Quiet || flags.Quiet
	conf.Verbose = conf.Verbose || flags.Verbose

	if err := validate(conf); err != nil {
		return err
	}

	setLogLevel(conf)
	cfg = conf

	return nil
}

// Get returns the configuration loaded by InitConfig, or the defaults if it
// was not called yet.
func Get() *Config {
	if cfg == nil {
		return defaults()
	}
	return cfg
}

func defaults() *Config {
	conf := &Config{
		Port:    DefaultPort,
		Timeout: Duration{DefaultTimeout},
	}
	conf.Request.Limit = DefaultRequestLimit
	conf.Server.Command = DefaultServerCommand

	return conf
}

// configPath returns the config file to read and whether it must exist.
func configPath(flags Flags) (string, bool, error) {
	if flags.ConfigFile != "" {
		return flags.ConfigFile, true, nil
	}

	if flags.DataDir != "" {
		return filepath.Join(flags.DataDir, configFileName), true, nil
	}

	if value, ok := os.LookupEnv(DataVariableName); ok && value != "" {
		return filepath.Join(value, configFileName), true, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "resolving home directory")
	}

	return filepath.Join(home, defaultDataDir, configFileName), false, nil
}

func load(path string, conf *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "error opening config file")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(conf); err != nil && err != io.EOF {
		return errors.Wrapf(err, "error parsing config file %s", path)
	}

	return nil
}

func validate(conf *Config) error {
	if conf.Port < 1 || conf.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", conf.Port)
	}
	if conf.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", conf.Timeout)
	}
	if conf.Request.Limit <= 0 {
		return fmt.Errorf("invalid request limit %d: must be positive", conf.Request.Limit)
	}
	if conf.Server.Command == "" {
		return errors.New("server command must not be empty")
	}

	return nil
}

func setLogLevel(conf *Config) {
	switch {
	case conf.Verbose:
		log.SetLevel(log.DebugLevel)
	case conf.Quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
