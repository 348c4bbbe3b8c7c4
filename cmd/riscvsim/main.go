// Package main provides the entry point for riscvsim, a cycle-accurate
// 5-stage RV32I-subset pipeline simulator. It loads a raw instruction
// image, runs it to completion or a cycle limit, and reports pipeline
// statistics and, with -v, the final register state.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/StrangeAffair/RISC-V-SIM/cachesim"
	"github.com/StrangeAffair/RISC-V-SIM/config"
	"github.com/StrangeAffair/RISC-V-SIM/pipeline"
)

var (
	configPath = flag.String("config", "", "Path to a simulator configuration JSON file")
	verbose    = flag.Bool("v", false, "Print the loaded image size and the final register file")
	maxCycles  = flag.Uint64("max-cycles", 0, "Override the configured maximum tick count (0 = use config)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: riscvsim [options] <image.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	imagePath := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles != 0 {
		cfg.MaxCycles = *maxCycles
	}

	image, err := loadImage(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading instruction image: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s (%d words)\n", imagePath, len(image))
	}

	var p *pipeline.Pipeline
	if cfg.EnableDataCache {
		cacheCfg := cachesim.DefaultL1DConfig()
		cacheCfg.Lines = cfg.CacheLines
		cacheCfg.LineSize = cfg.CacheLineSize
		cacheCfg.Ways = cfg.CacheWays
		p = pipeline.NewWithCache(image, cfg.DataWords, cacheCfg)
	} else {
		p = pipeline.New(image, cfg.DataWords)
	}
	runErr := p.Run(cfg.MaxCycles)

	stats := p.Stats()
	fmt.Printf("cycles=%d instructions=%d stalls=%d branches=%d squashes=%d cpi=%.3f\n",
		stats.Cycles, stats.Instructions, stats.Stalls, stats.Branches, stats.Squashes, stats.CPI)

	if cfg.EnableDataCache {
		fmt.Printf("cache: accesses=%d hits=%d misses=%d latency=%d\n",
			stats.CacheAccesses, stats.CacheHits, stats.CacheMisses, stats.CacheLatency)
	}

	if *verbose {
		snap := p.RegFile().Snapshot()
		for i, v := range snap {
			fmt.Printf("  x%-2d = 0x%08x\n", i, v)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Halted: %v\n", runErr)
		os.Exit(1)
	}
}

// loadImage reads a raw little-endian stream of 32-bit words from
// path: an ordered sequence of 32-bit words placed at addresses
// 0, 4, 8, ...
func loadImage(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("image length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return words, nil
}
