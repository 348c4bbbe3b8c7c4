package cachesim

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config describes an L1 data cache's geometry and latencies. Defaults
// are sized for a small in-order teaching core rather than a
// data-center-scale L1.
type Config struct {
	Lines       int // number of cache lines (sets * ways)
	LineSize    int // bytes per line
	Ways        int // set associativity
	HitLatency  uint64
	MissLatency uint64
}

// DefaultL1DConfig returns a modest 4KB, 4-way, 64-byte-line L1 data
// cache configuration with a 1-cycle hit and 10-cycle miss penalty.
func DefaultL1DConfig() Config {
	return Config{
		Lines:       64,
		LineSize:    64,
		Ways:        4,
		HitLatency:  1,
		MissLatency: 10,
	}
}

// BackingStore is the next level of the memory hierarchy a Cache
// fetches from on a miss and writes back to on eviction.
type BackingStore interface {
	Read(addr uint32, size int) []byte
	Write(addr uint32, data []byte)
}

// AccessResult reports the outcome of a single cache access.
type AccessResult struct {
	Hit         bool
	Latency     uint64
	Data        uint32
	Evicted     bool
	EvictedAddr uint32
}

// Statistics accumulates cache access counters.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// Cache is a single-level, single-PID L1 data cache whose tag/LRU
// bookkeeping is delegated to akita/v4/mem/cache's DirectoryImpl, with
// its own byte-slice data store per line (the directory tracks only
// tags and state, not cache contents).
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	dataStore [][]byte
	backing   BackingStore
	stats     Statistics
}

// New creates a Cache of the given configuration backed by backing.
func New(cfg Config, backing BackingStore) *Cache {
	numSets := cfg.Lines / cfg.Ways
	if numSets < 1 {
		numSets = 1
	}
	total := numSets * cfg.Ways
	dataStore := make([][]byte, total)
	for i := range dataStore {
		dataStore[i] = make([]byte, cfg.LineSize)
	}
	return &Cache{
		config:    cfg,
		directory: akitacache.NewDirectory(numSets, cfg.Ways, cfg.LineSize, akitacache.NewLRUVictimFinder()),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache's configuration.
func (c *Cache) Config() Config { return c.config }

// Stats returns a snapshot of the cache's access counters.
func (c *Cache) Stats() Statistics { return c.stats }

func (c *Cache) blockIndex(b *akitacache.Block) int {
	return b.SetID*c.config.Ways + b.WayID
}

func (c *Cache) lineAddr(addr uint32) uint32 {
	line := uint32(c.config.LineSize)
	return (addr / line) * line
}

// Read models a load of size bytes at addr, returning whether it hit
// and the resulting data and latency.
func (c *Cache) Read(addr uint32, size int) AccessResult {
	c.stats.Reads++
	lineAddr := c.lineAddr(addr)
	block := c.directory.Lookup(0, uint64(lineAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		offset := addr - lineAddr
		data := c.dataStore[c.blockIndex(block)]
		return AccessResult{Hit: true, Latency: c.config.HitLatency, Data: extract(data, offset, size)}
	}

	c.stats.Misses++
	return c.handleMiss(addr, size, false, 0)
}

// Write models a store of size bytes at addr (write-allocate).
func (c *Cache) Write(addr uint32, size int, value uint32) AccessResult {
	c.stats.Writes++
	lineAddr := c.lineAddr(addr)
	block := c.directory.Lookup(0, uint64(lineAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		offset := addr - lineAddr
		data := c.dataStore[c.blockIndex(block)]
		store(data, offset, size, value)
		block.IsDirty = true
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.handleMiss(addr, size, true, value)
}

func (c *Cache) handleMiss(addr uint32, size int, isWrite bool, writeValue uint32) AccessResult {
	result := AccessResult{Hit: false, Latency: c.config.MissLatency}
	lineAddr := c.lineAddr(addr)

	victim := c.directory.FindVictim(uint64(lineAddr))
	if victim == nil {
		return result
	}
	line := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)
		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.Write(uint32(victim.Tag), line)
		}
	}

	if c.backing != nil {
		copy(line, c.backing.Read(lineAddr, c.config.LineSize))
	} else {
		for i := range line {
			line[i] = 0
		}
	}

	victim.Tag = uint64(lineAddr)
	victim.IsValid = true
	victim.IsDirty = false

	offset := addr - lineAddr
	if isWrite {
		store(line, offset, size, writeValue)
		victim.IsDirty = true
	} else {
		result.Data = extract(line, offset, size)
	}

	c.directory.Visit(victim)
	return result
}

// Flush writes back every dirty line and invalidates the cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.backing.Write(uint32(block.Tag), c.dataStore[c.blockIndex(block)])
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

func extract(data []byte, offset uint32, size int) uint32 {
	if data == nil || int(offset)+size > len(data) {
		return 0
	}
	var v uint32
	for i := 0; i < size; i++ {
		v |= uint32(data[int(offset)+i]) << (8 * i)
	}
	return v
}

func store(data []byte, offset uint32, size int, value uint32) {
	if data == nil || int(offset)+size > len(data) {
		return
	}
	for i := 0; i < size; i++ {
		data[int(offset)+i] = byte(value >> (8 * i))
	}
}
