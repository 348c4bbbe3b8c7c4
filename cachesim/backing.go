// Package cachesim provides an optional L1 data-cache timing model that
// can sit in front of the simulator's data memory: an akita/v4/mem/cache
// directory (tag/LRU bookkeeping) over a byte-addressable backing
// store, addressed with 32-bit addresses over mem.DataMemory.
//
// This model is purely observational: it is never consulted by the
// pipeline's MEM stage for correctness (the data memory access the
// pipeline itself performs is unconditionally a direct DataMemory
// hit), only to report the hit/miss latency a cache of this shape
// would have added, for callers that want to estimate a more realistic
// memory timing on top of the architecturally-simulated pipeline.
package cachesim

import "github.com/StrangeAffair/RISC-V-SIM/mem"

// MemoryBacking adapts a *mem.DataMemory to the cache's BackingStore
// interface.
type MemoryBacking struct {
	memory *mem.DataMemory
}

// NewMemoryBacking wraps memory as a cache backing store.
func NewMemoryBacking(memory *mem.DataMemory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches size bytes starting at addr from the backing memory.
func (m *MemoryBacking) Read(addr uint32, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = m.memory.Read8(addr + uint32(i))
	}
	return data
}

// Write stores data into the backing memory starting at addr.
func (m *MemoryBacking) Write(addr uint32, data []byte) {
	for i, b := range data {
		m.memory.Write8(addr+uint32(i), b)
	}
}
