package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fixture struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func tempCachePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cache.json")
}

func TestPutAndGet(t *testing.T) {
	c, err := New(tempCachePath(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := fixture{Name: "charizard ex", Price: 19.5}
	if err := c.Put("listings|charizard", want, time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got fixture
	hit, err := c.Get("listings|charizard", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	c, err := New(tempCachePath(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got fixture
	hit, err := c.Get("absent", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss for absent key")
	}
}

func TestExpiredEntryIsMissAndEvicted(t *testing.T) {
	c, err := New(tempCachePath(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.Put("k", fixture{Name: "old"}, time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got fixture
	hit, err := c.Get("k", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, Len() = %d", c.Len())
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c, err := New(tempCachePath(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.Put("k", fixture{Name: "keep"}, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got fixture
	hit, _ := c.Get("k", &got)
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := tempCachePath(t)

	c1, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c1.Put("k", fixture{Name: "durable", Price: 3}, time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got fixture
	hit, err := c2.Get("k", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || got.Name != "durable" {
		t.Errorf("entry did not survive reopen: hit=%v got=%+v", hit, got)
	}
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := tempCachePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	c, err := New(path)
	if err != nil {
		t.Fatalf("New on corrupt file: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("corrupt cache should start empty, Len() = %d", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c, err := New(tempCachePath(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("k", fixture{}, time.Hour)
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var got fixture
	if hit, _ := c.Get("k", &got); hit {
		t.Error("deleted key should miss")
	}
}

func TestKey(t *testing.T) {
	if got := Key("ebay", "charizard ex", "7days"); got != "ebay|charizard ex|7days" {
		t.Errorf("Key = %q", got)
	}
}
