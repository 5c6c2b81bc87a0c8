package hrw

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/bitleak/go-hrw/hashkit"
)

// WeightedNodes ranks nodes in proportion to their capacity. Each affinity
// is turned into a score with (1 / -ln(affinity / MaxUint64)) * weight, and
// the highest score wins. The expected share of keys for which a node ranks
// first is capacity / TotalCapacity.
//
// A node with capacity 0 always ranks after the nodes with positive capacity.
// A negative capacity, a set whose total capacity is 0, or a total capacity
// above math.MaxInt is a programming error: ranking panics with an error
// wrapping ErrContractViolation.
type WeightedNodes[N comparable] struct {
	registry[N]
}

// NewWeighted digests nodes with hashkit.Default.
func NewWeighted[N comparable](nodes []N) *WeightedNodes[N] {
	return NewWeightedWithHasher(hashkit.Default, nodes)
}

// NewWeightedWithHasher digests nodes with hasher, or hashkit.Default if nil.
func NewWeightedWithHasher[N comparable](hasher hashkit.Hasher, nodes []N) *WeightedNodes[N] {
	return &WeightedNodes[N]{registry: newRegistry(hasher, nodes)}
}

// TotalCapacity returns the sum of all node capacities.
func (w *WeightedNodes[N]) TotalCapacity() int {
	return w.totalCapacity
}

// Rank returns every node ordered from most to least preferred for key.
// The sequence can be iterated any number of times.
func (w *WeightedNodes[N]) Rank(key any) iter.Seq[N] {
	return slices.Values(w.sorted(key))
}

// Top returns the first count nodes of Rank(key), or all of them if the set
// is smaller.
func (w *WeightedNodes[N]) Top(key any, count int) []N {
	return top(w.sorted(key), count)
}

type scored[N any] struct {
	score    float64
	affinity uint64
	node     N
}

func (w *WeightedNodes[N]) sorted(key any) []N {
	if len(w.entries) == 0 {
		return nil
	}
	if w.overflow {
		panic(fmt.Errorf("%w: total capacity overflows int", ErrContractViolation))
	}
	keyDigest := w.hasher.Hash(key)
	ranked := make([]scored[N], len(w.entries))
	for i, e := range w.entries {
		affinity := hashkit.Merge(e.digest, keyDigest)
		ranked[i] = scored[N]{
			score:    score(affinity, e.capacity, w.totalCapacity),
			affinity: affinity,
			node:     e.node,
		}
	}
	slices.SortFunc(ranked, func(a, b scored[N]) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.affinity, b.affinity)
	})
	nodes := make([]N, len(ranked))
	for i, s := range ranked {
		nodes[i] = s.node
	}
	return nodes
}

func score(affinity uint64, capacity, total int) float64 {
	if capacity < 0 {
		panic(fmt.Errorf("%w: negative capacity %d", ErrContractViolation, capacity))
	}
	if capacity == 0 && total > 0 {
		return 0
	}
	x := float64(affinity) / float64(math.MaxUint64)
	if affinity == 0 {
		x = math.SmallestNonzeroFloat64
	}
	s := math.Inf(1)
	if ln := math.Log(x); ln < 0 {
		s = -1 / ln
	}
	s *= float64(capacity) / float64(total)
	if math.IsNaN(s) {
		panic(fmt.Errorf("%w: capacity %d of %d scores NaN", ErrContractViolation, capacity, total))
	}
	return s
}
