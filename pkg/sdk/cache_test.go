package sdk

import (
	"testing"
	"time"
)

func newTestCache(ttl time.Duration) (*flagCache, *time.Time) {
	c := newFlagCache(ttl)
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFlagCache_GetSet(t *testing.T) {
	c, _ := newTestCache(time.Second)

	if _, ok := c.get("missing"); ok {
		t.Fatal("empty cache must miss")
	}

	c.set("dark_mode", FlagRecord{Key: "dark_mode", Type: FlagBoolean, Value: "true", Enabled: true})
	rec, ok := c.get("dark_mode")
	if !ok {
		t.Fatal("expected hit")
	}
	if rec.Value != "true" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestFlagCache_LazyExpiry(t *testing.T) {
	c, now := newTestCache(time.Second)
	c.set("k", FlagRecord{Key: "k", Value: "v"})

	// Exactly at TTL the entry is still fresh (expiry is strict >).
	*now = now.Add(time.Second)
	if _, ok := c.get("k"); !ok {
		t.Fatal("entry at exactly TTL must still hit")
	}

	*now = now.Add(time.Millisecond)
	if _, ok := c.get("k"); ok {
		t.Fatal("entry past TTL must miss")
	}

	// The expired entry was purged on read, not merely hidden.
	c.mu.Lock()
	_, present := c.entries["k"]
	c.mu.Unlock()
	if present {
		t.Error("expired entry must be deleted on read")
	}
}

func TestFlagCache_SetResetsTimestamp(t *testing.T) {
	c, now := newTestCache(time.Second)
	c.set("k", FlagRecord{Key: "k", Value: "old"})

	*now = now.Add(900 * time.Millisecond)
	c.set("k", FlagRecord{Key: "k", Value: "new"})

	// 900ms after the rewrite the entry would be expired relative to the
	// first write but not the second.
	*now = now.Add(900 * time.Millisecond)
	rec, ok := c.get("k")
	if !ok {
		t.Fatal("rewritten entry must still be fresh")
	}
	if rec.Value != "new" {
		t.Errorf("expected overwritten value, got %q", rec.Value)
	}
}

func TestFlagCache_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Second)
	c.set("a", FlagRecord{Key: "a"})
	c.set("b", FlagRecord{Key: "b"})

	c.delete("a")
	if _, ok := c.get("a"); ok {
		t.Error("deleted entry must miss")
	}

	c.clear()
	if _, ok := c.get("b"); ok {
		t.Error("cleared cache must miss")
	}
}
