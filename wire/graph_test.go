package wire_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StrangeAffair/RISC-V-SIM/wire"
)

func TestWire(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "wire Suite")
}

var _ = Describe("Graph", func() {
	var g *wire.Graph

	BeforeEach(func() {
		g = wire.NewGraph()
	})

	It("looks up wires by name", func() {
		h := g.Register("FOO")
		found, ok := g.WireByName("FOO")
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(h))
		Expect(g.Name(h)).To(Equal("FOO"))
	})

	It("returns ErrBadWire for an unknown handle", func() {
		_, err := g.Read(wire.Handle(99))
		Expect(err).To(MatchError(wire.ErrBadWire))
	})

	It("rejects direct writes to a latch", func() {
		in := g.Register("IN")
		latch := g.RegisterLatch("LATCH", in)
		Expect(g.Write(latch, 1)).To(MatchError(wire.ErrBadWire))
	})

	Describe("flip-flop latching", func() {
		var in wire.Handle
		var latch wire.Handle

		BeforeEach(func() {
			in = g.Register("PC_NEXT")
			latch = g.RegisterLatch("PC", in)
		})

		It("initializes to zero before any clock", func() {
			Expect(g.MustRead(latch)).To(Equal(uint32(0)))
		})

		It("captures its input's value at Clock and holds it through the next cycle", func() {
			g.SetCycle(1)
			Expect(g.Write(in, 4)).To(Succeed())
			// Latch still reads the pre-clock (reset) value mid-cycle.
			Expect(g.MustRead(latch)).To(Equal(uint32(0)))

			Expect(g.Clock()).To(Succeed())
			Expect(g.MustRead(latch)).To(Equal(uint32(4)))

			g.SetCycle(2)
			Expect(g.Write(in, 8)).To(Succeed())
			// The latch still presents the value captured at the previous
			// clock edge until this cycle's Clock() call.
			Expect(g.MustRead(latch)).To(Equal(uint32(4)))
			// Its last-cycle value is what it presented during cycle 1:
			// the reset value.
			Expect(g.MustReadOld(latch)).To(Equal(uint32(0)))

			Expect(g.Clock()).To(Succeed())
			Expect(g.MustRead(latch)).To(Equal(uint32(8)))
			Expect(g.MustReadOld(latch)).To(Equal(uint32(4)))
		})

		It("is idempotent: clocking twice with no mutation between is a no-op", func() {
			g.SetCycle(1)
			Expect(g.Write(in, 42)).To(Succeed())
			Expect(g.Clock()).To(Succeed())
			first := g.MustRead(latch)

			Expect(g.Clock()).To(Succeed())
			second := g.MustRead(latch)

			Expect(second).To(Equal(first))
		})

		It("keeps a held latch's value through the next Clock and clears the hold afterward", func() {
			g.SetCycle(1)
			Expect(g.Write(in, 4)).To(Succeed())
			Expect(g.Clock()).To(Succeed())
			Expect(g.MustRead(latch)).To(Equal(uint32(4)))

			g.SetCycle(2)
			Expect(g.Write(in, 99)).To(Succeed())
			Expect(g.Hold(latch)).To(Succeed())
			Expect(g.Clock()).To(Succeed())
			Expect(g.MustRead(latch)).To(Equal(uint32(4)))

			// The hold was consumed by that Clock(); without re-asserting
			// it the next Clock() captures normally.
			g.SetCycle(3)
			Expect(g.Clock()).To(Succeed())
			Expect(g.MustRead(latch)).To(Equal(uint32(99)))
		})

		It("rejects holding a non-latch wire", func() {
			Expect(g.Hold(in)).To(MatchError(wire.ErrBadWire))
		})
	})

	It("detects a re-entrant combinational computation as ErrStaleCycle", func() {
		var h wire.Handle
		h = g.Register("SELF")
		_, err := g.Compute(h, func() uint32 {
			_, innerErr := g.Compute(h, func() uint32 { return 1 })
			Expect(innerErr).To(MatchError(wire.ErrStaleCycle))
			return 2
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(g.MustRead(h)).To(Equal(uint32(2)))
	})

	Describe("signed and boolean helpers", func() {
		It("round-trips signed values", func() {
			h := g.Register("DISP")
			Expect(g.WriteSigned(h, -12)).To(Succeed())
			Expect(g.ReadSigned(h)).To(Equal(int32(-12)))
		})

		It("round-trips boolean values", func() {
			h := g.Register("FLAG")
			Expect(g.WriteBool(h, true)).To(Succeed())
			Expect(g.ReadBool(h)).To(BeTrue())
			Expect(g.WriteBool(h, false)).To(Succeed())
			Expect(g.ReadBool(h)).To(BeFalse())
		})
	})
})
