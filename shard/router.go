package shard

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	hrw "github.com/bitleak/go-hrw"
)

var (
	// ErrNoShards is returned when a key is routed over an empty shard set.
	ErrNoShards = errors.New("shard: no shards")
	// ErrClosed is returned by Rebuild and Close once the router is closed.
	ErrClosed = errors.New("shard: router is closed")
)

// Shard is a redis server taking part in placement. Its Name is the identity
// that gets hashed, so renaming a shard moves its keys while changing its
// address does not.
type Shard struct {
	Name     string
	Addr     string
	capacity int
	client   *redis.Client
	conf     NodeConfig
}

func (s *Shard) AppendHash(dst []byte) []byte {
	return append(dst, s.Name...)
}

func (s *Shard) Capacity() int {
	return s.capacity
}

func (s *Shard) Client() *redis.Client {
	return s.client
}

// Router places keys on redis shards with capacity-weighted rendezvous
// hashing. Lookups read an immutable snapshot and never block; Rebuild swaps
// in a new snapshot. After Close, lookups still resolve to the last set but
// its clients are closed.
type Router struct {
	cfg    *Config
	mu     sync.Mutex // serializes Rebuild and Close
	closed bool
	nodes  atomic.Pointer[hrw.WeightedNodes[*Shard]]
}

func NewRouter(cfg *Config) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("shard: router cfg shouldn't be empty")
	}
	if err := cfg.init(); err != nil {
		return nil, err
	}
	r := &Router{cfg: cfg}
	r.nodes.Store(hrw.NewWeightedWithHasher[*Shard](cfg.hasher, nil))
	if err := r.Rebuild(cfg.Shards); err != nil {
		return nil, err
	}
	return r, nil
}

// Shard returns the most preferred shard for the hash tag of key.
func (r *Router) Shard(key string) (*Shard, error) {
	top := r.nodes.Load().Top(extractHashPrefix(key), 1)
	if len(top) == 0 {
		return nil, ErrNoShards
	}
	Selections.WithLabelValues(top[0].Name).Inc()
	return top[0], nil
}

// Client returns the redis client of Shard(key).
func (r *Router) Client(key string) (*redis.Client, error) {
	s, err := r.Shard(key)
	if err != nil {
		return nil, err
	}
	return s.client, nil
}

// Replicas returns the cfg.Replicas most preferred shards for key, primary
// first. Fewer are returned when the set is smaller.
func (r *Router) Replicas(key string) ([]*Shard, error) {
	top := r.nodes.Load().Top(extractHashPrefix(key), r.cfg.Replicas)
	if len(top) == 0 {
		return nil, ErrNoShards
	}
	return top, nil
}

// Shards returns the current shards in configuration order.
func (r *Router) Shards() []*Shard {
	nodes := r.nodes.Load()
	shards := make([]*Shard, 0, nodes.Len())
	for s := range nodes.All() {
		shards = append(shards, s)
	}
	return shards
}

// GroupKeys groups keys by their primary shard.
func (r *Router) GroupKeys(keys ...string) (map[*Shard][]string, error) {
	nodes := r.nodes.Load()
	groups := make(map[*Shard][]string)
	for _, key := range keys {
		top := nodes.Top(extractHashPrefix(key), 1)
		if len(top) == 0 {
			return nil, ErrNoShards
		}
		groups[top[0]] = append(groups[top[0]], key)
	}
	return groups, nil
}

// IsCrossShards reports whether keys live on more than one shard.
func (r *Router) IsCrossShards(keys ...string) bool {
	nodes := r.nodes.Load()
	var first *Shard
	for i, key := range keys {
		top := nodes.Top(extractHashPrefix(key), 1)
		if len(top) == 0 {
			return false
		}
		if i == 0 {
			first = top[0]
		} else if top[0] != first {
			return true
		}
	}
	return false
}

// Rebuild replaces the shard set. Clients of shards whose connection settings
// did not change are kept; clients of dropped shards are closed after the
// new set is visible. It returns ErrClosed after Close.
func (r *Router) Rebuild(nodes []*NodeConfig) error {
	if err := initNodes(nodes); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	current := make(map[string]*Shard)
	for s := range r.nodes.Load().All() {
		current[s.Name] = s
	}
	shards := make([]*Shard, 0, len(nodes))
	kept := make(map[*redis.Client]struct{})
	added := 0
	for _, node := range nodes {
		s := &Shard{
			Name:     node.Name,
			Addr:     node.Addr,
			capacity: node.Capacity,
			conf:     *node,
		}
		if old, ok := current[node.Name]; ok && old.conf.sameConn(node) {
			s.client = old.client
			kept[old.client] = struct{}{}
		} else {
			s.client = r.newClient(node)
			added++
		}
		shards = append(shards, s)
	}

	next := hrw.NewWeightedWithHasher(r.cfg.hasher, shards)
	r.nodes.Store(next)
	Rebuilds.Inc()
	ShardCount.Set(float64(next.Len()))

	removed := 0
	for _, s := range current {
		if _, ok := kept[s.client]; ok {
			continue
		}
		removed++
		if err := s.client.Close(); err != nil {
			r.cfg.Logger.Warn("shard: close client", "shard", s.Name, "addr", s.Addr, "err", err)
		}
	}
	r.cfg.Logger.Info("shard: rebuilt shard set",
		"shards", next.Len(),
		"total_capacity", next.TotalCapacity(),
		"added", added,
		"removed", removed,
	)
	return nil
}

// Close closes every client of the current set. Closing twice returns
// ErrClosed.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	var errs []error
	for s := range r.nodes.Load().All() {
		if err := s.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Router) newClient(node *NodeConfig) *redis.Client {
	options := *r.cfg.Options
	options.Addr = node.Addr
	options.Password = node.Password
	options.DB = node.DB
	return redis.NewClient(&options)
}

func (c NodeConfig) sameConn(other *NodeConfig) bool {
	return c.Addr == other.Addr && c.Password == other.Password && c.DB == other.DB
}
