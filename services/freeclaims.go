// services/freeclaims.go
package services

import (
	"sync"
	"time"
)

// FreeClaim is one ephemeral free-pack submission, visible to the bot via
// /check-payment until it expires. Not durable; lost on restart.
type FreeClaim struct {
	Name      string
	Email     string
	Discord   string
	DiscordID string
	Product   string
	CreatedAt time.Time
}

type claimEntry struct {
	claim     FreeClaim
	expiresAt time.Time
}

// FreeClaimCache maps discord_id -> claim with a fixed TTL. Expiry is judged
// against the entry's expiry instant at read time, so an overwrite can never
// be cleared early by a timer armed for the entry it replaced. Sweep only
// reclaims memory.
type FreeClaimCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]claimEntry
	now     func() time.Time
}

func NewFreeClaimCache(ttl time.Duration) *FreeClaimCache {
	return &FreeClaimCache{
		ttl:     ttl,
		entries: make(map[string]claimEntry),
		now:     time.Now,
	}
}

// Put stores a claim, replacing any earlier claim for the same discord_id.
// The TTL restarts from now; it is a fixed window per write, not sliding.
func (c *FreeClaimCache) Put(claim FreeClaim) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[claim.DiscordID] = claimEntry{
		claim:     claim,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Get returns the live claim for a discord_id. An expired entry is a miss
// and is dropped on the spot.
func (c *FreeClaimCache) Get(discordID string) (FreeClaim, bool) {
	c.mu.RLock()
	entry, ok := c.entries[discordID]
	c.mu.RUnlock()
	if !ok {
		return FreeClaim{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// re-check under the write lock; a fresh Put may have raced in
		if cur, ok := c.entries[discordID]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, discordID)
		}
		c.mu.Unlock()
		return FreeClaim{}, false
	}
	return entry.claim, true
}

// Sweep drops every expired entry and reports how many went.
func (c *FreeClaimCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

func (c *FreeClaimCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
