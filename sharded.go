package memzone

import (
	"errors"

	"github.com/hupe1980/memzone/internal/hash"
)

// Sharded is a set of independent stores, one per worker.
//
// Each shard has its own intern table and frame stack; nothing is shared, so
// no cross-shard synchronization exists and workers never contend. The cost
// is duplicated interning of tokens that occur on multiple shards. Zones are
// per shard: a zone opened on shard 2 frees only shard 2's entries.
type Sharded struct {
	shards []*Store
}

// NewSharded creates numShards independent stores, each configured with the
// same options.
func NewSharded(numShards int, optFns ...Option) (*Sharded, error) {
	if numShards <= 0 {
		return nil, ErrInvalidShardCount
	}

	shards := make([]*Store, numShards)
	for i := range shards {
		shards[i] = New(optFns...)
	}
	return &Sharded{shards: shards}, nil
}

// NumShards returns the number of shards.
func (s *Sharded) NumShards() int {
	return len(s.shards)
}

// Shard returns the i-th store. Typical deployments pin one shard per
// worker and route all of that worker's requests to it.
func (s *Sharded) Shard(i int) *Store {
	return s.shards[i]
}

// ShardForKey routes a normalized key to its shard by modulo. Use this when
// requests are partitioned by content rather than by worker.
func (s *Sharded) ShardForKey(key uint64) *Store {
	return s.shards[key%uint64(len(s.shards))]
}

// ShardFor routes text to its shard via the default key hash.
func (s *Sharded) ShardFor(text string) *Store {
	return s.ShardForKey(hash.Sum64(text))
}

// Stats returns per-shard statistics, indexed by shard.
func (s *Sharded) Stats() []Stats {
	stats := make([]Stats, len(s.shards))
	for i, shard := range s.shards {
		stats[i] = shard.Stats()
	}
	return stats
}

// Close closes every shard. All shards are attempted; the joined error
// reports every failure.
func (s *Sharded) Close() error {
	var errs []error
	for _, shard := range s.shards {
		if err := shard.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
