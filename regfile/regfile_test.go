package regfile_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StrangeAffair/RISC-V-SIM/regfile"
)

func TestRegFile(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "regfile Suite")
}

var _ = Describe("RegFile", func() {
	var rf *regfile.RegFile

	BeforeEach(func() {
		rf = &regfile.RegFile{}
	})

	It("reads 0 for every register before any write", func() {
		for i := uint32(0); i < 32; i++ {
			Expect(rf.Read(i)).To(Equal(uint32(0)))
		}
	})

	It("is a sink: x0 always reads 0 even after a write is attempted", func() {
		rf.Write(0, 42)
		Expect(rf.Read(0)).To(Equal(uint32(0)))
	})

	It("reads back a written non-zero register", func() {
		rf.Write(5, 0xdeadbeef)
		Expect(rf.Read(5)).To(Equal(uint32(0xdeadbeef)))
	})

	It("reads 0 iff the index is 0, for every index", func() {
		for i := uint32(0); i < 32; i++ {
			rf.Write(i, 7)
		}
		for i := uint32(0); i < 32; i++ {
			if i == 0 {
				Expect(rf.Read(i)).To(Equal(uint32(0)))
			} else {
				Expect(rf.Read(i)).To(Equal(uint32(7)))
			}
		}
	})
})
