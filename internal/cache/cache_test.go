// internal/cache/cache_test.go
package cache

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestPutThenGetRoundTrip(t *testing.T) {
	c := New(time.Minute)
	payload := json.RawMessage(`{"pairs":[]}`)

	c.Put("search?q=eth", payload)

	got, ok := c.Get("search?q=eth")
	if !ok {
		t.Fatal("expected cache hit immediately after Put")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %s, want %s", got, payload)
	}
}

func TestGetMissForUnknownKey(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("never-seen"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestExpiredEntryIsRemovedOnGet(t *testing.T) {
	// Zero TTL: every entry is stale on first access.
	c := New(0)
	c.Put("k", json.RawMessage(`1`))

	if c.Len() != 1 {
		t.Fatalf("expected 1 stored entry, got %d", c.Len())
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss for expired entry")
	}
	// Lazy eviction: the expired entry is gone after the Get.
	if c.Len() != 0 {
		t.Fatalf("expected entry removed after expired Get, got %d entries", c.Len())
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	c := New(time.Minute)
	c.Put("k", json.RawMessage(`1`))
	c.Put("k", json.RawMessage(`2`))

	got, ok := c.Get("k")
	if !ok || string(got) != "2" {
		t.Fatalf("got %s (hit=%v), want 2", got, ok)
	}
}

func TestFlushDiscardsEverything(t *testing.T) {
	c := New(time.Minute)
	c.Put("a", json.RawMessage(`1`))
	c.Put("b", json.RawMessage(`2`))

	c.Flush()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Flush, got %d entries", c.Len())
	}
}
