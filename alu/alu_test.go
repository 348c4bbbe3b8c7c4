package alu_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StrangeAffair/RISC-V-SIM/alu"
)

func TestALU(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "alu Suite")
}

var _ = Describe("Execute", func() {
	DescribeTable("ALU functions",
		func(op alu.Op, a, b, want uint32) {
			got, err := alu.Execute(op, a, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("ADD", alu.OpADD, uint32(2), uint32(3), uint32(5)),
		Entry("ADD wraps mod 2^32", alu.OpADD, uint32(0xffffffff), uint32(1), uint32(0)),
		Entry("SL", alu.OpSL, uint32(1), uint32(4), uint32(16)),
		Entry("SL masks shift to 5 bits", alu.OpSL, uint32(1), uint32(32+4), uint32(16)),
		Entry("SLT true", alu.OpSLT, uint32(0xffffffff) /* -1 */, uint32(1), uint32(1)),
		Entry("SLT false", alu.OpSLT, uint32(1), uint32(0xffffffff), uint32(0)),
		Entry("SLTU", alu.OpSLTU, uint32(1), uint32(0xffffffff), uint32(1)),
		Entry("XOR", alu.OpXOR, uint32(0xf0), uint32(0x0f), uint32(0xff)),
		Entry("SR logical", alu.OpSR, uint32(0xffffffff), uint32(4), uint32(0x0fffffff)),
		Entry("OR", alu.OpOR, uint32(0xf0), uint32(0x0f), uint32(0xff)),
		Entry("AND", alu.OpAND, uint32(0xff), uint32(0x0f), uint32(0x0f)),
	)

	It("rejects an out-of-range ALUOP", func() {
		_, err := alu.Execute(alu.Op(8), 0, 0)
		Expect(err).To(HaveOccurred())
	})

	It("computes SUB via ExecuteSub", func() {
		Expect(alu.ExecuteSub(10, 3)).To(Equal(uint32(7)))
	})
})

var _ = Describe("Compare", func() {
	DescribeTable("branch comparators",
		func(op alu.Op, a, b uint32, want bool) {
			got, err := alu.Compare(op, a, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("BEQ equal", alu.Op(0), uint32(5), uint32(5), true),
		Entry("BEQ not equal", alu.Op(0), uint32(5), uint32(6), false),
		Entry("BNE", alu.Op(1), uint32(5), uint32(6), true),
		Entry("BLT signed", alu.Op(4), uint32(0xffffffff), uint32(1), true),
		Entry("BGE signed", alu.Op(5), uint32(1), uint32(0xffffffff), true),
		Entry("BLTU unsigned", alu.Op(6), uint32(1), uint32(0xffffffff), true),
		Entry("BGEU unsigned", alu.Op(7), uint32(0xffffffff), uint32(1), true),
	)

	It("rejects an out-of-range CMPOP", func() {
		_, err := alu.Compare(alu.Op(2), 0, 0)
		Expect(err).To(HaveOccurred())
	})
})
