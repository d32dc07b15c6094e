package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds defaults that command-line flags override.
type Config struct {
	Algorithm string `yaml:"algorithm"`
	BlockSize int    `yaml:"blockSize"`
	Fast      bool   `yaml:"fast"`
	Verbose   bool   `yaml:"verbose"`
}

// readConfig reads the YAML config at path. An empty path means no config.
func readConfig(path string) (cfg Config, err error) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	err = dec.Decode(&cfg)
	return
}
