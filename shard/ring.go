package shard

import (
	"github.com/redis/go-redis/v9"

	hrw "github.com/bitleak/go-hrw"
	"github.com/bitleak/go-hrw/hashkit"
)

// ConsistentHash returns a constructor for redis.RingOptions.NewConsistentHash
// that places ring keys with rendezvous hashing over the shard names. A nil
// hasher means hashkit.Default.
func ConsistentHash(hasher hashkit.Hasher) func(shards []string) redis.ConsistentHash {
	return func(shards []string) redis.ConsistentHash {
		return ringHash{nodes: hrw.NewWithHasher(hasher, shards)}
	}
}

type ringHash struct {
	nodes *hrw.Nodes[string]
}

func (h ringHash) Get(key string) string {
	top := h.nodes.Top(key, 1)
	if len(top) == 0 {
		return ""
	}
	return top[0]
}
