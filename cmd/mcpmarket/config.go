package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// DefaultConfigSearchPaths enumerates the locations probed for a TOML
// configuration file, in priority order.
var DefaultConfigSearchPaths = []string{
	filepath.Join(os.Getenv("HOME"), ".mcpmarket.toml"),
	filepath.Join(os.Getenv("HOME"), ".config", "mcpmarket.toml"),
}

// Config is the TOML configuration struct.  When a configuration file exists
// at one of the search paths, the values contained therein override the
// compiled-in defaults.
type Config struct {
	File string `toml:"-"` // Path of the file the values came from.

	DB       string
	Output   string
	Awesome  string
	Official string
	Schedule string
	Quiet    bool
	Verbose  bool
}

func NewConfig() *Config {
	config := &Config{}
	return config
}

// Do locates, parses, and applies the configuration file, if one exists.
func (config *Config) Do() error {
	file, err := findConfigFile()
	if err != nil {
		return err
	}
	if len(file) == 0 {
		// No configuration file found.
		return nil
	}
	if _, err := toml.DecodeFile(file, config); err != nil {
		return err
	}
	config.File = file
	config.Apply()
	return nil
}

func (config *Config) Apply() {
	if len(config.DB) > 0 {
		DBFile = config.DB
	}
	if len(config.Output) > 0 {
		OutputDir = config.Output
	}
	if len(config.Awesome) > 0 {
		AwesomeFile = config.Awesome
	}
	if len(config.Official) > 0 {
		OfficialFile = config.Official
	}
	if len(config.Schedule) > 0 {
		WatchSchedule = config.Schedule
	}
	if config.Quiet {
		Quiet = true
	}
	if config.Verbose {
		Verbose = true
	}
}

// doConfig handles initialization and application of new default values if a
// configuration file is found.
func doConfig() {
	if err := NewConfig().Do(); err != nil {
		log.Fatalf("applying mcpmarket TOML configuration: %s", err)
	}
}

// findConfigFile probes the search paths and returns the first existing
// configuration file.
//
// If no config file is found, ("", nil) is returned.
func findConfigFile() (string, error) {
	for _, path := range DefaultConfigSearchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return "", err
		}
	}
	return "", nil
}
