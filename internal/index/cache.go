package index

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"serieslink/internal/textutil"
)

const cacheShards = 16

// queryCache is a sharded LRU of query results. Entries are never
// invalidated because the index they belong to is immutable.
type queryCache struct {
	shards [cacheShards]*cacheShard
}

type cacheKey struct {
	query textutil.Key
	k     int
}

type cacheEntry struct {
	key    cacheKey
	result RankedResult
}

type cacheShard struct {
	mu      sync.Mutex
	maxSize int
	items   map[cacheKey]*list.Element
	order   *list.List
}

func newQueryCache(size int) *queryCache {
	perShard := (size + cacheShards - 1) / cacheShards
	c := &queryCache{}
	for i := range c.shards {
		c.shards[i] = &cacheShard{
			maxSize: perShard,
			items:   make(map[cacheKey]*list.Element),
			order:   list.New(),
		}
	}
	return c
}

func (c *queryCache) shard(key cacheKey) *cacheShard {
	h := xxhash.New()
	_, _ = h.WriteString(string(key.query))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(key.k))
	return c.shards[h.Sum64()%cacheShards]
}

func (c *queryCache) get(key cacheKey) (RankedResult, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).result.Clone(), true
	}
	return nil, false
}

func (c *queryCache) put(key cacheKey, result RankedResult) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).result = result.Clone()
		return
	}
	s.items[key] = s.order.PushFront(&cacheEntry{key: key, result: result.Clone()})
	if s.order.Len() > s.maxSize {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *queryCache) len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.order.Len()
		s.mu.Unlock()
	}
	return total
}
