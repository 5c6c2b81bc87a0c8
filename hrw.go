// Package hrw ranks a fixed set of nodes per key with highest random weight
// (rendezvous) hashing.
//
// Every node is digested once when the set is built. A lookup digests the
// key, mixes it with each node digest and sorts, so the ranking of a key
// depends only on the key and on each node in isolation: adding or removing
// a node never reorders the others.
//
// Nodes and WeightedNodes are immutable and safe for concurrent use. To change
// membership, build a new set and swap it in.
package hrw

import "errors"

// ErrContractViolation is the panic value (wrapped) raised when a weighted
// node set is asked to score a node with an invalid capacity.
var ErrContractViolation = errors.New("hrw: contract violation")

// Weighted is implemented by nodes that declare their share of the keyspace.
// Nodes that do not implement it have a capacity of 1.
type Weighted interface {
	Capacity() int
}

func capacityOf(node any) int {
	if w, ok := node.(Weighted); ok {
		return w.Capacity()
	}
	return 1
}
