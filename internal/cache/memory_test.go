package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	defer c.Close()

	if val, ok := c.Get(ctx, "key1"); ok || val != nil {
		t.Fatalf("Expected miss for key1, got %q", val)
	}

	c.Set(ctx, "key1", []byte("value1"))
	val, ok := c.Get(ctx, "key1")
	if !ok {
		t.Fatal("Expected hit for key1")
	}
	if string(val) != "value1" {
		t.Fatalf("Expected value1, got %s", string(val))
	}

	c.Set(ctx, "key1", []byte("value2"))
	if val, _ := c.Get(ctx, "key1"); string(val) != "value2" {
		t.Fatalf("Expected overwrite to value2, got %s", string(val))
	}
}

func TestMemoryCache_Len(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if c.Len() != 0 {
		t.Fatalf("Expected Len 0, got %d", c.Len())
	}
	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	if c.Len() != 2 {
		t.Fatalf("Expected Len 2, got %d", c.Len())
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var evicted []string
	onEvict := func(key string, _ []byte) {
		evicted = append(evicted, key)
	}

	c, err := New("memory", ProviderConfig{Size: 2, TTL: time.Hour, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("Expected [a] to be evicted, got %v", evicted)
	}
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Evicted key a should be gone")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set(ctx, "short", []byte("lived"))
	time.Sleep(150 * time.Millisecond)

	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("Expected entry to expire after TTL")
	}
}
