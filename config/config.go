// Package config provides the JSON configuration of a simulation run.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/rvsim/timing/cache"
	"github.com/sarchlab/rvsim/timing/core"
)

// CacheConfig enables the data cache and sets its geometry.
type CacheConfig struct {
	Enabled bool `json:"enabled"`
	cache.Config
}

// SimConfig holds the parameters of a simulation run.
type SimConfig struct {
	Cache CacheConfig `json:"cache"`

	// MaxInstructions bounds the run. 0 means no limit.
	MaxInstructions uint64 `json:"max_instructions"`

	// EntryPoint is used for raw images, which carry no entry of their own.
	EntryPoint uint64 `json:"entry_point"`

	// StackPointer is the initial x2. 0 keeps the loader's default.
	StackPointer uint64 `json:"stack_pointer"`
}

// Default returns the default configuration: a 32-byte x 16-set data
// cache, no instruction limit, raw images placed at 0x1000.
func Default() *SimConfig {
	return &SimConfig{
		Cache: CacheConfig{
			Enabled: true,
			Config:  cache.DefaultConfig(),
		},
		EntryPoint: 0x1000,
	}
}

// Load reads a configuration from a JSON file. Fields absent from the file
// keep their default values.
func Load(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Save writes the configuration to a JSON file.
func (c *SimConfig) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal returns the indented JSON form of the configuration.
func (c *SimConfig) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate checks that the configuration is usable.
func (c *SimConfig) Validate() error {
	if c.Cache.Enabled {
		if err := c.Cache.Config.Validate(); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	if c.EntryPoint%4 != 0 {
		return fmt.Errorf("entry_point must be 4-byte aligned, got 0x%x", c.EntryPoint)
	}
	if c.StackPointer%8 != 0 {
		return fmt.Errorf("stack_pointer must be 8-byte aligned, got 0x%x", c.StackPointer)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *SimConfig) Clone() *SimConfig {
	clone := *c
	return &clone
}

// CoreOptions converts the configuration into core options.
func (c *SimConfig) CoreOptions() []core.Option {
	var opts []core.Option
	if c.Cache.Enabled {
		opts = append(opts, core.WithCache(c.Cache.Config))
	}
	if c.MaxInstructions > 0 {
		opts = append(opts, core.WithMaxInstructions(c.MaxInstructions))
	}
	return opts
}
