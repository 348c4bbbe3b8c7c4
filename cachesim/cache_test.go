package cachesim_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StrangeAffair/RISC-V-SIM/cachesim"
	"github.com/StrangeAffair/RISC-V-SIM/mem"
)

func TestCachesim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cachesim Suite")
}

var _ = Describe("Cache", func() {
	var (
		dm      *mem.DataMemory
		backing *cachesim.MemoryBacking
		c       *cachesim.Cache
	)

	BeforeEach(func() {
		dm = mem.NewDataMemory(mem.DefaultDataWords)
		backing = cachesim.NewMemoryBacking(dm)
		c = cachesim.New(cachesim.DefaultL1DConfig(), backing)
	})

	It("misses on a cold read and hits on the second read of the same line", func() {
		dm.Write(0, 4, 0xcafebabe)

		first := c.Read(0, 4)
		Expect(first.Hit).To(BeFalse())
		Expect(first.Data).To(Equal(uint32(0xcafebabe)))

		second := c.Read(0, 4)
		Expect(second.Hit).To(BeTrue())
		Expect(second.Data).To(Equal(uint32(0xcafebabe)))

		Expect(c.Stats().Misses).To(Equal(uint64(1)))
		Expect(c.Stats().Hits).To(Equal(uint64(1)))
	})

	It("writes a dirty line back to the backing store on flush", func() {
		c.Write(8, 4, 0x11223344)
		c.Flush()
		Expect(dm.Read(8, 4, false)).To(Equal(uint32(0x11223344)))
		Expect(c.Stats().Writebacks).To(BeNumerically(">=", 1))
	})

	It("allocates on a write miss (write-allocate) and later hits", func() {
		w := c.Write(16, 4, 0xdeadbeef)
		Expect(w.Hit).To(BeFalse())

		r := c.Read(16, 4)
		Expect(r.Hit).To(BeTrue())
		Expect(r.Data).To(Equal(uint32(0xdeadbeef)))
	})
})
