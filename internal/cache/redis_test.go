package cache

import (
	"os"
	"testing"
	"time"
)

func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("AKSARA_TEST_REDIS")
	if addr == "" {
		t.Skip("AKSARA_TEST_REDIS not set")
	}
	return addr
}

func TestRedisCache(t *testing.T) {
	c, err := NewRedisCache(redisAddr(t), 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	key := Key("test", t.Name())
	if err := c.Set(key, []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := c.Get(key); !ok || string(v) != "v" {
		t.Errorf("Expected v, got %q (found=%v)", v, ok)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("Expected miss after Delete")
	}
}

func TestRedisCache_ClearOnlyPrefixed(t *testing.T) {
	c, err := NewRedisCache(redisAddr(t), 0, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	ours := Key("test", "clear")
	foreign := "other-app:" + t.Name()

	_ = c.Set(ours, []byte("1"), 0)
	_ = c.Set(foreign, []byte("2"), 0)
	defer func() { _ = c.Delete(foreign) }()

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok := c.Get(ours); ok {
		t.Error("Expected prefixed key to be cleared")
	}
	if _, ok := c.Get(foreign); !ok {
		t.Error("Expected unrelated key to survive Clear")
	}
}
