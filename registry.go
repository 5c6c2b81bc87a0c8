package hrw

import (
	"iter"
	"math"

	"github.com/bitleak/go-hrw/hashkit"
)

type entry[N comparable] struct {
	node     N
	digest   uint64
	capacity int
}

// registry holds the digested node set shared by both ranking policies.
type registry[N comparable] struct {
	hasher        hashkit.Hasher
	entries       []entry[N]
	index         map[N]int
	totalCapacity int
	overflow      bool // totalCapacity exceeded math.MaxInt
}

func newRegistry[N comparable](hasher hashkit.Hasher, nodes []N) registry[N] {
	if hasher == nil {
		hasher = hashkit.Default
	}
	r := registry[N]{
		hasher:  hasher,
		entries: make([]entry[N], 0, len(nodes)),
		index:   make(map[N]int, len(nodes)),
	}
	for _, node := range nodes {
		e := entry[N]{
			node:     node,
			digest:   hasher.Hash(node),
			capacity: capacityOf(node),
		}
		// equal nodes: the later one replaces the earlier in place
		if i, exists := r.index[node]; exists {
			r.totalCapacity -= r.entries[i].capacity
			r.entries[i] = e
		} else {
			r.index[node] = len(r.entries)
			r.entries = append(r.entries, e)
		}
		if e.capacity > 0 && r.totalCapacity > math.MaxInt-e.capacity {
			r.overflow = true
		}
		r.totalCapacity += e.capacity
	}
	return r
}

// Len returns the number of distinct nodes.
func (r *registry[N]) Len() int {
	return len(r.entries)
}

// Contains reports whether node is part of the set.
func (r *registry[N]) Contains(node N) bool {
	_, ok := r.index[node]
	return ok
}

// All yields the nodes in construction order.
func (r *registry[N]) All() iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, e := range r.entries {
			if !yield(e.node) {
				return
			}
		}
	}
}

func top[N any](ranked []N, n int) []N {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n:n]
}
