package mem_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StrangeAffair/RISC-V-SIM/mem"
)

func TestMem(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "mem Suite")
}

var _ = Describe("InstructionMemory", func() {
	It("fetches words at pc>>2", func() {
		imem := mem.NewInstructionMemory([]uint32{0x11, 0x22, 0x33})
		w, err := imem.Fetch(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(0x22)))
	})

	It("raises ErrInstructionFetchOutOfRange past the image", func() {
		imem := mem.NewInstructionMemory([]uint32{0x11})
		_, err := imem.Fetch(4)
		Expect(err).To(MatchError(mem.ErrInstructionFetchOutOfRange))
	})
})

var _ = Describe("DecodeWidth", func() {
	It("decodes byte/half/word sizes from ALUOP bits [1:0]", func() {
		w, signed, err := mem.DecodeWidth(0) // LB
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint8(1)))
		Expect(signed).To(BeTrue())

		w, signed, err = mem.DecodeWidth(1) // LH
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint8(2)))
		Expect(signed).To(BeTrue())

		w, signed, err = mem.DecodeWidth(2) // LW
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint8(4)))
		Expect(signed).To(BeTrue())

		w, signed, err = mem.DecodeWidth(4) // LBU
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint8(1)))
		Expect(signed).To(BeFalse())

		w, signed, err = mem.DecodeWidth(5) // LHU
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint8(2)))
		Expect(signed).To(BeFalse())
	})

	It("rejects a width code whose size would be 8 bytes", func() {
		_, _, err := mem.DecodeWidth(3)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("DataMemory", func() {
	var dm *mem.DataMemory

	BeforeEach(func() {
		dm = mem.NewDataMemory(mem.DefaultDataWords)
	})

	It("round-trips an unsigned byte/half/word store+load", func() {
		dm.Write(0, 1, 0xab)
		Expect(dm.Read(0, 1, false)).To(Equal(uint32(0xab)))

		dm.Write(4, 2, 0xbeef)
		Expect(dm.Read(4, 2, false)).To(Equal(uint32(0xbeef)))

		dm.Write(8, 4, 0xdeadbeef)
		Expect(dm.Read(8, 4, false)).To(Equal(uint32(0xdeadbeef)))
	})

	It("sign-extends a negative byte and half", func() {
		dm.Write(0, 1, 0xff) // -1 as signed byte
		Expect(dm.Read(0, 1, true)).To(Equal(uint32(0xffffffff)))

		dm.Write(4, 2, 0x8000) // -32768 as signed half
		Expect(dm.Read(4, 2, true)).To(Equal(uint32(0xffff8000)))
	})

	It("zero-extends an unsigned byte and half", func() {
		dm.Write(0, 1, 0xff)
		Expect(dm.Read(0, 1, false)).To(Equal(uint32(0xff)))

		dm.Write(4, 2, 0x8000)
		Expect(dm.Read(4, 2, false)).To(Equal(uint32(0x8000)))
	})

	It("preserves the unmodified high bits of a word on a byte store", func() {
		dm.Write(0, 4, 0xaabbccdd)
		dm.Write(0, 1, 0x11)
		Expect(dm.Read(0, 4, false)).To(Equal(uint32(0xaabbcc11)))
	})

	It("preserves the unmodified bits of a word on a half store", func() {
		dm.Write(0, 4, 0xaabbccdd)
		dm.Write(2, 2, 0x1122)
		Expect(dm.Read(0, 4, false)).To(Equal(uint32(0x1122ccdd)))
	})

	It("returns 0 for an out-of-range read and ignores an out-of-range write", func() {
		huge := uint32(dm.Size() + 100)
		Expect(dm.Read(huge, 4, false)).To(Equal(uint32(0)))
		dm.Write(huge, 4, 0xffffffff) // must not panic
	})

	It("stores and loads disjoint byte/half/word values exactly (S5)", func() {
		dm.Write(0, 1, 0x7f)
		dm.Write(8, 2, 0x1234)
		dm.Write(16, 4, 0xcafef00d)

		Expect(dm.Read(0, 1, false)).To(Equal(uint32(0x7f)))
		Expect(dm.Read(8, 2, false)).To(Equal(uint32(0x1234)))
		Expect(dm.Read(16, 4, false)).To(Equal(uint32(0xcafef00d)))

		dm.Write(24, 1, 0x80) // negative signed byte
		Expect(dm.Read(24, 1, true)).To(Equal(uint32(0xffffff80)))
		Expect(dm.Read(24, 1, false)).To(Equal(uint32(0x80)))
	})
})
