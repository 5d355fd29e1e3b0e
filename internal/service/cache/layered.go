package cache

import "time"

// Layered is a two-level BytesCache: an in-process TTL cache in front
// of Redis. Writes go through to both; reads backfill L1 on an L2 hit.
type Layered struct {
	l1 *TTLCache
	l2 *RedisCache
}

func NewLayered(redis *RedisCache) *Layered {
	return &Layered{l1: NewTTLCache(), l2: redis}
}

func (c *Layered) GetBytes(key string) ([]byte, bool, error) {
	if b, ok, _ := c.l1.GetBytes(key); ok {
		return b, true, nil
	}
	b, ok, err := c.l2.GetBytes(key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.l1.SetBytes(key, b, 0)
	return b, true, nil
}

func (c *Layered) SetBytes(key string, value []byte, ttl time.Duration) error {
	if err := c.l2.SetBytes(key, value, ttl); err != nil {
		return err
	}
	return c.l1.SetBytes(key, value, ttl)
}
