// Package wire provides the signal graph substrate for the pipeline
// simulator: named 32-bit wires connected by stage-boundary latches
// (flip-flops), advanced one clock tick at a time.
//
// A Graph is an arena of wire slots addressed by a stable integer
// Handle rather than by pointer. This removes the pointer-aliasing
// hazard of a global wire map, and the cycle is passed explicitly to
// SetCycle instead of living in a package global.
package wire

import "errors"

// ErrBadWire is returned when a Handle does not refer to a wire
// registered in this Graph.
var ErrBadWire = errors.New("wire: bad wire handle")

// ErrStaleCycle is returned when a combinational wire is computed
// re-entrantly within the same cycle before its previous computation
// finished — i.e. a block would observe its own output without
// passing through a latch.
var ErrStaleCycle = errors.New("wire: stale cycle (cyclic combinational read)")

// Handle addresses a single wire slot in a Graph. Handles are issued
// from 0 upward in registration order; a negative Handle (such as
// invalidHandle) is never issued and is always invalid.
type Handle int

const invalidHandle Handle = -1

type cell struct {
	name string

	// value is the wire's current-cycle reading.
	value uint32
	// oldValue is the wire's last-cycle reading: the value a flip-flop
	// presents to its consumers for the whole duration of the cycle
	// that just ended, before the next Clock() call updates it.
	oldValue uint32

	writtenAt uint64 // cycle at which value was last set by Write (or, for a latch, by Clock)
	computing bool    // re-entrancy guard for Compute

	isLatch    bool
	latchInput Handle
	held       bool // latch only: skip capturing latchInput at the next Clock()
}

// Graph is an arena of wires and the latches connecting them.
type Graph struct {
	cells []cell
	names map[string]Handle
	cycle uint64
}

// NewGraph creates an empty signal graph at cycle 0.
func NewGraph() *Graph {
	return &Graph{
		names: make(map[string]Handle),
	}
}

// Cycle returns the graph's current cycle number.
func (g *Graph) Cycle() uint64 {
	return g.cycle
}

// SetCycle sets the graph's current cycle. The pipeline driver calls
// this once at the start of each tick, before running any blocks.
func (g *Graph) SetCycle(cycle uint64) {
	g.cycle = cycle
}

// Register creates a new plain (combinational) wire with the given
// name and initial value 0.
func (g *Graph) Register(name string) Handle {
	h := Handle(len(g.cells))
	g.cells = append(g.cells, cell{name: name})
	g.names[name] = h
	return h
}

// RegisterLatch creates a new flip-flop wire named name whose value is
// captured from input's current value once per cycle, at Clock().
func (g *Graph) RegisterLatch(name string, input Handle) Handle {
	h := Handle(len(g.cells))
	g.cells = append(g.cells, cell{name: name, isLatch: true, latchInput: input})
	g.names[name] = h
	return h
}

// WireByName looks up a wire's handle by its registered name, the
// external observability surface: any wire may be inspected by name.
func (g *Graph) WireByName(name string) (Handle, bool) {
	h, ok := g.names[name]
	return h, ok
}

// Name returns the registered name of h, or "" if h is invalid.
func (g *Graph) Name(h Handle) string {
	if !g.valid(h) {
		return ""
	}
	return g.cells[h].name
}

func (g *Graph) valid(h Handle) bool {
	return h >= 0 && int(h) < len(g.cells)
}

// Read returns a wire's current-cycle value.
func (g *Graph) Read(h Handle) (uint32, error) {
	if !g.valid(h) {
		return 0, ErrBadWire
	}
	return g.cells[h].value, nil
}

// MustRead is Read without an error return, for call sites that have
// already validated the handle (e.g. handles cached at graph-build
// time). It returns 0 for an invalid handle.
func (g *Graph) MustRead(h Handle) uint32 {
	v, _ := g.Read(h)
	return v
}

// ReadOld returns a wire's last-cycle value, irrespective of whether
// it has already been recomputed this cycle.
func (g *Graph) ReadOld(h Handle) (uint32, error) {
	if !g.valid(h) {
		return 0, ErrBadWire
	}
	return g.cells[h].oldValue, nil
}

// MustReadOld is ReadOld without an error return.
func (g *Graph) MustReadOld(h Handle) uint32 {
	v, _ := g.ReadOld(h)
	return v
}

// Write sets a plain wire's current-cycle value. Writing a latch
// directly is an error: latches are only ever updated by Clock().
func (g *Graph) Write(h Handle, v uint32) error {
	if !g.valid(h) {
		return ErrBadWire
	}
	c := &g.cells[h]
	if c.isLatch {
		return ErrBadWire
	}
	c.value = v
	c.writtenAt = g.cycle
	return nil
}

// Hold marks a latch to keep its current value through the next
// Clock() instead of capturing its latchInput, modeling a stalled
// register that must re-present the same word for one more cycle. The
// hold is consumed by the next Clock() call; it must be re-asserted
// every cycle the latch needs to stay frozen. Holding a non-latch
// wire is an error.
func (g *Graph) Hold(h Handle) error {
	if !g.valid(h) {
		return ErrBadWire
	}
	c := &g.cells[h]
	if !c.isLatch {
		return ErrBadWire
	}
	c.held = true
	return nil
}

// Compute computes a combinational wire's value via fn and stores it,
// guarding against re-entrant evaluation of the same wire within one
// call stack (a cycle in the dataflow graph that never crosses a
// latch). Most call sites can use the simpler Write; Compute exists
// for blocks whose output depends on reading other combinational
// wires that might, by a graph-construction bug, depend back on this
// one.
func (g *Graph) Compute(h Handle, fn func() uint32) (uint32, error) {
	if !g.valid(h) {
		return 0, ErrBadWire
	}
	c := &g.cells[h]
	if c.computing {
		return 0, ErrStaleCycle
	}
	c.computing = true
	v := fn()
	c.computing = false
	return v, g.Write(h, v)
}

// Clock advances every latch in the graph by one tick: each latch
// captures its input's current value as its own new value, and its
// previous value becomes visible via ReadOld for the remainder of the
// next cycle. A latch marked with Hold since the last Clock() instead
// keeps its current value, as though its input had not changed. Clock
// must be called exactly once per tick, after every combinational
// block has produced its cycle-N output.
func (g *Graph) Clock() error {
	// Snapshot latch inputs before mutating any cell, so that a
	// latch's input being itself a latch observes a consistent view.
	next := make([]uint32, len(g.cells))
	for i := range g.cells {
		c := &g.cells[i]
		if !c.isLatch || c.held {
			continue
		}
		v, err := g.Read(c.latchInput)
		if err != nil {
			return err
		}
		next[i] = v
	}
	for i := range g.cells {
		c := &g.cells[i]
		if !c.isLatch {
			continue
		}
		c.oldValue = c.value
		if c.held {
			c.held = false
		} else {
			c.value = next[i]
		}
		c.writtenAt = g.cycle
	}
	return nil
}
