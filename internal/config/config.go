package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config holds all application configuration
type Config struct {
	// File paths
	LeaseFile     string
	KeaConfigFile string
	HTMLDir       string

	// Network settings
	HTTPListen string

	// Behavior
	LogLevel string
	Watch    bool
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		LeaseFile:     "/tmp/kea-leases4.csv",
		KeaConfigFile: "/etc/kea/kea-dhcp4.conf",
		HTMLDir:       "./html",
		HTTPListen:    "0.0.0.0:5001",
		LogLevel:      "info",
		Watch:         true,
	}
}

// LoadFromFile loads configuration from INI file
func (c *Config) LoadFromFile(filename string) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, filename)
	if err != nil {
		logrus.Debugf("Skipping config file %s: %s", filename, err)
		return err
	}

	section := cfg.Section("")
	c.LeaseFile = section.Key("leasefile").MustString(c.LeaseFile)
	c.KeaConfigFile = section.Key("keaconfigfile").MustString(c.KeaConfigFile)
	c.HTMLDir = section.Key("htmldir").MustString(c.HTMLDir)
	c.HTTPListen = section.Key("httplisten").MustString(c.HTTPListen)
	c.LogLevel = section.Key("loglevel").MustString(c.LogLevel)
	c.Watch = section.Key("watch").MustBool(c.Watch)

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("LEASEFILE"); v != "" {
		c.LeaseFile = v
	}
	if v := os.Getenv("KEACONFIGFILE"); v != "" {
		c.KeaConfigFile = v
	}
	if v := os.Getenv("HTMLDIR"); v != "" {
		c.HTMLDir = v
	}
	if v := os.Getenv("HTTPLISTEN"); v != "" {
		c.HTTPListen = v
	}
	if v := os.Getenv("LOGLEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("WATCH"); v != "" {
		c.Watch, _ = strconv.ParseBool(v)
	}
}

// New creates a new configuration instance
func New(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from file first
	cfg.LoadFromFile(configFile)

	// Override with environment variables
	cfg.LoadFromEnv()

	return cfg, nil
}
