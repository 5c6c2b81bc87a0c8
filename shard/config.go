package shard

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/bitleak/go-hrw/hashkit"
)

var (
	errNilShard         = errors.New("shard: shard config shouldn't be nil")
	errEmptyAddr        = errors.New("shard: the addr of the shard shouldn't be empty")
	errNegativeCapacity = errors.New("shard: the capacity shouldn't be negative")
	errDuplicateShard   = errors.New("shard: duplicate shard name")
)

type NodeConfig struct {
	Name     string `yaml:"name"`     // identity used for placement, defaults to Addr
	Addr     string `yaml:"addr"`     // e.g. "127.0.0.1:6379"
	Password string `yaml:"password"` // the password of the shard
	DB       int    `yaml:"db"`
	Capacity int    `yaml:"capacity"` // relative share of the keys, defaults to 1
}

type Config struct {
	Shards     []*NodeConfig  `yaml:"shards"`
	Hash       string         `yaml:"hash"`        // xxhash (default), xxh3, murmur3, blake3, fnv, md5 or siphash
	SipHashKey [2]uint64      `yaml:"siphash_key"` // key of the siphash function
	Replicas   int            `yaml:"replicas"`    // number of shards returned by Replicas, defaults to 1
	Options    *redis.Options `yaml:"-"`           // redis options shared by every shard
	Logger     *slog.Logger   `yaml:"-"`

	hasher hashkit.Hasher
}

// ParseConfig decodes a YAML document into a Config.
func ParseConfig(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("shard: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shard: load config: %w", err)
	}
	return ParseConfig(data)
}

func (cfg *Config) init() error {
	if cfg.Options == nil {
		cfg.Options = &redis.Options{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Replicas <= 0 {
		cfg.Replicas = 1
	}
	if cfg.Hash == "siphash" {
		cfg.hasher = hashkit.SipHash(cfg.SipHashKey[0], cfg.SipHashKey[1])
	} else {
		fn, err := hashkit.ByName(cfg.Hash)
		if err != nil {
			return err
		}
		cfg.hasher = fn
	}
	return initNodes(cfg.Shards)
}

func initNodes(nodes []*NodeConfig) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		if node == nil {
			return errNilShard
		}
		if node.Addr == "" {
			return errEmptyAddr
		}
		if node.Name == "" {
			node.Name = node.Addr
		}
		if node.Capacity < 0 {
			return fmt.Errorf("%w: %q", errNegativeCapacity, node.Name)
		}
		if node.Capacity == 0 {
			node.Capacity = 1
		}
		if _, exists := seen[node.Name]; exists {
			return fmt.Errorf("%w: %q", errDuplicateShard, node.Name)
		}
		seen[node.Name] = struct{}{}
	}
	return nil
}
