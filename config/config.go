// Package config provides the simulator's JSON-backed run
// configuration: data memory size, the maximum tick budget, and the
// optional L1 data-cache model's geometry. This 5-stage in-order core
// has no per-instruction-class cycle latency table — every stage takes
// exactly one cycle — so the knobs here are the ones the simulator
// actually exposes rather than a timing-model latency table.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/StrangeAffair/RISC-V-SIM/mem"
)

// Config holds the tunable parameters of a simulation run.
type Config struct {
	// DataWords is the size of data memory, in 32-bit words.
	DataWords int `json:"data_words"`

	// MaxCycles bounds how many ticks Run will advance before giving
	// up on a program that never raises InstructionFetchOutOfRange.
	MaxCycles uint64 `json:"max_cycles"`

	// EnableDataCache turns on the optional cachesim L1 data-cache
	// timing model in front of data memory.
	EnableDataCache bool `json:"enable_data_cache"`

	// CacheLines is the number of cache lines in the L1 data cache,
	// when EnableDataCache is set.
	CacheLines int `json:"cache_lines"`

	// CacheLineSize is the line size in bytes, when EnableDataCache is
	// set.
	CacheLineSize int `json:"cache_line_size"`

	// CacheWays is the set associativity, when EnableDataCache is set.
	CacheWays int `json:"cache_ways"`
}

// Default returns a Config with the simulator's documented defaults
// (a 1000-word data memory).
func Default() *Config {
	return &Config{
		DataWords:       mem.DefaultDataWords,
		MaxCycles:       1_000_000,
		EnableDataCache: false,
		CacheLines:      64,
		CacheLineSize:   64,
		CacheWays:       4,
	}
}

// Load reads a Config from a JSON file, applying Default for any field
// the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks that c describes a runnable configuration.
func (c *Config) Validate() error {
	if c.DataWords <= 0 {
		return fmt.Errorf("config: data_words must be > 0")
	}
	if c.MaxCycles == 0 {
		return fmt.Errorf("config: max_cycles must be > 0")
	}
	if c.EnableDataCache {
		if c.CacheLines <= 0 {
			return fmt.Errorf("config: cache_lines must be > 0")
		}
		if c.CacheLineSize <= 0 || c.CacheLineSize&(c.CacheLineSize-1) != 0 {
			return fmt.Errorf("config: cache_line_size must be a power of two")
		}
		if c.CacheWays <= 0 {
			return fmt.Errorf("config: cache_ways must be > 0")
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
