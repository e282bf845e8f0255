package docstore

import (
	"context"
	"sort"
	"sync"
)

// memClient is an in-memory Client with the same semantics as the Redis
// implementation. It backs the store contract tests.
type memClient struct {
	mu   sync.Mutex
	kv   map[string]string
	sets map[string]map[string]struct{}
}

// NewMemClient returns an empty in-memory Client.
func NewMemClient() Client {
	return &memClient{
		kv:   make(map[string]string),
		sets: make(map[string]map[string]struct{}),
	}
}

func (c *memClient) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.kv[key]
	return val, ok, nil
}

func (c *memClient) SetNX(_ context.Context, key, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.kv[key]; ok {
		return false, nil
	}
	c.kv[key] = value
	return true, nil
}

func (c *memClient) Swap(_ context.Context, key, old, new string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv[key] != old {
		return false, nil
	}
	c.kv[key] = new
	return true, nil
}

func (c *memClient) Del(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.kv[key]; !ok {
		return false, nil
	}
	delete(c.kv, key)
	return true, nil
}

func (c *memClient) SAdd(_ context.Context, key string, members ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[key]
	if !ok {
		set = make(map[string]struct{})
		c.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

func (c *memClient) SRem(_ context.Context, key string, members ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[key]
	if !ok {
		return nil
	}
	for _, m := range members {
		delete(set, m)
	}
	return nil
}

func (c *memClient) SMembers(_ context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	members := make([]string, 0, len(c.sets[key]))
	for m := range c.sets[key] {
		members = append(members, m)
	}
	sort.Strings(members)
	return members, nil
}

func (c *memClient) Close() error { return nil }
