package hrw

import (
	"encoding/binary"
	"math"
	"slices"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type capNode struct {
	id       int
	capacity int
}

func (n capNode) AppendHash(dst []byte) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(n.id))
}

func (n capNode) Capacity() int { return n.capacity }

type shardNode struct {
	id       uint16
	capacity int
}

func (n shardNode) AppendHash(dst []byte) []byte {
	return binary.LittleEndian.AppendUint16(dst, n.id)
}

func (n shardNode) Capacity() int { return n.capacity }

func ids(nodes []capNode) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}

var _ = Describe("WeightedNodes", func() {

	It("defaults the capacity to 1", func() {
		nodes := NewWeighted(intRange(0, 10))
		Expect(nodes.TotalCapacity()).To(Equal(10))
		Expect(slices.Collect(nodes.Rank(42))).To(Equal([]int{5, 2, 4, 0, 1, 8, 6, 3, 9, 7}))
	})

	It("golden ranking with capacities", func() {
		input := make([]capNode, 10)
		for i := range input {
			input[i] = capNode{id: i, capacity: i + 1}
		}
		nodes := NewWeighted(input)
		Expect(nodes.TotalCapacity()).To(Equal(55))
		Expect(ids(slices.Collect(nodes.Rank(42)))).To(Equal([]int{5, 4, 8, 2, 6, 9, 1, 0, 7, 3}))
		Expect(ids(nodes.Top(42, 2))).To(Equal([]int{5, 4}))
	})

	It("reverses the uniform order when capacities are equal", func() {
		uniform := New(intRange(0, 10))
		weighted := NewWeighted(intRange(0, 10))
		for key := 0; key < 100; key++ {
			expect := slices.Collect(uniform.Rank(key))
			slices.Reverse(expect)
			Expect(slices.Collect(weighted.Rank(key))).To(Equal(expect))
		}
	})

	It("ranks every node exactly once", func() {
		input := []capNode{{1, 5}, {2, 15}, {3, 30}, {4, 0}}
		nodes := NewWeighted(input)
		for key := 0; key < 100; key++ {
			Expect(slices.Collect(nodes.Rank(key))).To(ConsistOf(input))
		}
	})

	It("only inserts an added node", func() {
		input := []capNode{{1, 5}, {2, 15}, {3, 30}, {4, 1}, {5, 2}}
		before := NewWeighted(input)
		after := NewWeighted(append(slices.Clone(input), capNode{6, 10}))
		for key := 0; key < 1000; key++ {
			ranked := slices.Collect(after.Rank(key))
			Expect(without(ranked, capNode{6, 10})).To(Equal(slices.Collect(before.Rank(key))))
		}
	})

	It("ranks nodes without capacity last", func() {
		nodes := NewWeighted([]capNode{{1, 0}, {2, 1}, {3, 1}, {4, 0}})
		for key := 0; key < 200; key++ {
			ranked := ids(nodes.Top(key, 4))
			Expect(ranked[:2]).To(ConsistOf(2, 3))
			Expect(ranked[2:]).To(ConsistOf(1, 4))
		}
	})

	It("keeps the last of equal nodes", func() {
		nodes := NewWeighted([]capNode{{1, 5}, {2, 1}, {1, 5}})
		Expect(nodes.Len()).To(Equal(2))
		Expect(nodes.TotalCapacity()).To(Equal(6))
	})

	It("handles the empty set", func() {
		nodes := NewWeighted([]capNode{})
		Expect(nodes.TotalCapacity()).To(Equal(0))
		Expect(slices.Collect(nodes.Rank(42))).To(BeEmpty())
		Expect(nodes.Top(42, 1)).To(BeEmpty())
	})

	It("panics on a negative capacity", func() {
		nodes := NewWeighted([]capNode{{1, -1}, {2, 3}})
		Expect(func() { nodes.Top(42, 1) }).To(PanicWith(MatchError(ErrContractViolation)))
	})

	It("panics when the total capacity is zero", func() {
		nodes := NewWeighted([]capNode{{1, 0}, {2, 0}})
		Expect(func() { nodes.Top(42, 1) }).To(PanicWith(MatchError(ErrContractViolation)))
	})

	It("panics when the total capacity overflows", func() {
		nodes := NewWeighted([]capNode{{1, math.MaxInt}, {2, 1}})
		Expect(func() { nodes.Top(42, 1) }).To(PanicWith(MatchError(ErrContractViolation)))
		Expect(func() { slices.Collect(nodes.Rank("key")) }).To(PanicWith(MatchError(ErrContractViolation)))

		fits := NewWeighted([]capNode{{1, math.MaxInt - 1}, {2, 1}})
		Expect(fits.TotalCapacity()).To(Equal(math.MaxInt))
		Expect(func() { fits.Top(42, 1) }).NotTo(Panic())

		// capacity plays no part in uniform ranking
		uniform := New([]capNode{{1, math.MaxInt}, {2, 1}})
		Expect(uniform.Top(42, 2)).To(HaveLen(2))
	})

	It("scores the extremes", func() {
		Expect(score(0, 1, 1)).To(BeNumerically(">", 0))
		Expect(score(0, 1, 1)).To(BeNumerically("<", 0.002))
		Expect(math.IsInf(score(math.MaxUint64, 1, 2), 1)).To(BeTrue())
		Expect(score(math.MaxUint64, 0, 2)).To(Equal(0.0))
		Expect(score(1<<63, 2, 2)).To(BeNumerically(">", score(1<<63, 1, 2)))
	})

	It("assigns keys in proportion to capacity", func() {
		input := []shardNode{{1, 5}, {2, 15}, {3, 30}}
		for id := uint16(4); id < 54; id++ {
			input = append(input, shardNode{id, 1})
		}
		nodes := NewWeighted(input)
		Expect(nodes.TotalCapacity()).To(Equal(100))

		counts := make(map[uint16]int)
		for key := 0; key < math.MaxUint16; key++ {
			counts[nodes.Top(key, 1)[0].id]++
		}

		share := float64(math.MaxUint16) / 100
		for _, node := range input {
			expect := share * float64(node.capacity)
			diff := (float64(counts[node.id]) - expect) / expect
			Expect(math.Abs(diff)).To(BeNumerically("<", 0.1),
				"node %d: expect %.0f, got %d", node.id, expect, counts[node.id])
		}
	})
})
