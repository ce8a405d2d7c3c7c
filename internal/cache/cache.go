// Package cache provides the TTL key/value store injected into the price
// collector and the condenser.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a key/value store whose entries expire.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, value V)
	Len() int
}

// TTL is a size-bounded LRU cache with per-entry expiry.
type TTL[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewTTL creates a cache holding at most size entries for ttl each.
// size 0 means unbounded.
func NewTTL[K comparable, V any](size int, ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

func (c *TTL[K, V]) Get(key K) (V, bool) { return c.lru.Get(key) }

func (c *TTL[K, V]) Add(key K, value V) { c.lru.Add(key, value) }

func (c *TTL[K, V]) Len() int { return c.lru.Len() }

// Purge drops every entry.
func (c *TTL[K, V]) Purge() { c.lru.Purge() }

// Nop never stores anything.
type Nop[K comparable, V any] struct{}

func (Nop[K, V]) Get(K) (V, bool) {
	var zero V
	return zero, false
}

func (Nop[K, V]) Add(K, V) {}

func (Nop[K, V]) Len() int { return 0 }
