package services

import (
	"testing"
	"time"
)

func TestFreeClaimCachePutGet(t *testing.T) {
	cache := NewFreeClaimCache(time.Hour)

	cache.Put(FreeClaim{Name: "A", DiscordID: "123456789012345678", Product: "FREE PACK"})

	claim, ok := cache.Get("123456789012345678")
	if !ok {
		t.Fatal("expected claim to be present")
	}
	if claim.Name != "A" || claim.Product != "FREE PACK" {
		t.Fatalf("unexpected claim: %+v", claim)
	}

	if _, ok := cache.Get("999999999999999999"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestFreeClaimCacheOverwrite(t *testing.T) {
	cache := NewFreeClaimCache(time.Hour)

	cache.Put(FreeClaim{Name: "old", DiscordID: "123456789012345678"})
	cache.Put(FreeClaim{Name: "new", DiscordID: "123456789012345678"})

	claim, ok := cache.Get("123456789012345678")
	if !ok || claim.Name != "new" {
		t.Fatalf("expected overwritten claim, got %+v (ok=%v)", claim, ok)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", cache.Len())
	}
}

func TestFreeClaimCacheLazyExpiry(t *testing.T) {
	cache := NewFreeClaimCache(time.Hour)

	base := time.Now()
	cache.now = func() time.Time { return base }
	cache.Put(FreeClaim{Name: "A", DiscordID: "123456789012345678"})

	// just inside the window
	cache.now = func() time.Time { return base.Add(59 * time.Minute) }
	if _, ok := cache.Get("123456789012345678"); !ok {
		t.Fatal("claim expired too early")
	}

	// past the window: miss, and the entry is dropped
	cache.now = func() time.Time { return base.Add(61 * time.Minute) }
	if _, ok := cache.Get("123456789012345678"); ok {
		t.Fatal("claim should have expired")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry should be dropped, have %d", cache.Len())
	}
}

func TestFreeClaimCacheOverwriteRestartsWindow(t *testing.T) {
	cache := NewFreeClaimCache(time.Hour)

	base := time.Now()
	cache.now = func() time.Time { return base }
	cache.Put(FreeClaim{Name: "first", DiscordID: "123456789012345678"})

	// re-claim 50 minutes in; the old write's window must not clear it
	cache.now = func() time.Time { return base.Add(50 * time.Minute) }
	cache.Put(FreeClaim{Name: "second", DiscordID: "123456789012345678"})

	cache.now = func() time.Time { return base.Add(80 * time.Minute) }
	claim, ok := cache.Get("123456789012345678")
	if !ok || claim.Name != "second" {
		t.Fatalf("re-claim should survive the first claim's expiry, got %+v (ok=%v)", claim, ok)
	}
}

func TestFreeClaimCacheSweep(t *testing.T) {
	cache := NewFreeClaimCache(time.Hour)

	base := time.Now()
	cache.now = func() time.Time { return base }
	cache.Put(FreeClaim{DiscordID: "111111111111111111"})

	cache.now = func() time.Time { return base.Add(30 * time.Minute) }
	cache.Put(FreeClaim{DiscordID: "222222222222222222"})

	cache.now = func() time.Time { return base.Add(70 * time.Minute) }
	if n := cache.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept entry, got %d", n)
	}
	if _, ok := cache.Get("222222222222222222"); !ok {
		t.Fatal("sweep removed a live entry")
	}
}
