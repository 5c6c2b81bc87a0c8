package hrw

import (
	"cmp"
	"iter"
	"slices"

	"github.com/bitleak/go-hrw/hashkit"
)

// Nodes ranks nodes of equal capacity: the node with the lowest affinity to
// a key is the most preferred one.
type Nodes[N comparable] struct {
	registry[N]
}

// New digests nodes with hashkit.Default.
func New[N comparable](nodes []N) *Nodes[N] {
	return NewWithHasher(hashkit.Default, nodes)
}

// NewWithHasher digests nodes with hasher, or hashkit.Default if nil.
func NewWithHasher[N comparable](hasher hashkit.Hasher, nodes []N) *Nodes[N] {
	return &Nodes[N]{registry: newRegistry(hasher, nodes)}
}

// Rank returns every node ordered from most to least preferred for key.
// The sequence can be iterated any number of times.
func (n *Nodes[N]) Rank(key any) iter.Seq[N] {
	return slices.Values(n.sorted(key))
}

// Top returns the first count nodes of Rank(key), or all of them if the set
// is smaller.
func (n *Nodes[N]) Top(key any, count int) []N {
	return top(n.sorted(key), count)
}

type candidate[N any] struct {
	value uint64
	node  N
}

func (n *Nodes[N]) sorted(key any) []N {
	if len(n.entries) == 0 {
		return nil
	}
	keyDigest := n.hasher.Hash(key)
	ranked := make([]candidate[N], len(n.entries))
	for i, e := range n.entries {
		ranked[i] = candidate[N]{value: hashkit.Merge(e.digest, keyDigest), node: e.node}
	}
	slices.SortStableFunc(ranked, func(a, b candidate[N]) int {
		return cmp.Compare(a.value, b.value)
	})
	nodes := make([]N, len(ranked))
	for i, a := range ranked {
		nodes[i] = a.node
	}
	return nodes
}
