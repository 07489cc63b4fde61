package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%q, %v, %v), want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("missing key reported as hit")
	}

	if err := c.Set(ctx, "layout:abc", []byte("positions"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit || string(data) != "positions" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry reported as hit")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("proficiency", "https://x/y.json"); got != "http:proficiency:https://x/y.json" {
		t.Errorf("HTTPKey = %q", got)
	}

	g1 := k.GraphKey("cat", GraphKeyOpts{ProficiencyHash: "a"})
	g2 := k.GraphKey("cat", GraphKeyOpts{ProficiencyHash: "b"})
	if g1 == g2 {
		t.Error("proficiency hash should change graph key")
	}
	if !strings.HasPrefix(g1, "graph:") {
		t.Errorf("GraphKey prefix: %q", g1)
	}

	l1 := k.LayoutKey("g", LayoutKeyOpts{Width: 1200, Height: 900, Seed: 1})
	l2 := k.LayoutKey("g", LayoutKeyOpts{Width: 1200, Height: 900, Seed: 2})
	if l1 == l2 {
		t.Error("seed should change layout key")
	}

	a1 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "svg", Style: "galaxy"})
	a2 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "svg", Style: "galaxy", Fog: true})
	if a1 == a2 {
		t.Error("fog should change artifact key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "user:1:")
	if got := scoped.HTTPKey("p", "k"); got != "user:1:http:p:k" {
		t.Errorf("HTTPKey = %q", got)
	}
	if got := scoped.LayoutKey("g", LayoutKeyOpts{}); !strings.HasPrefix(got, "user:1:layout:") {
		t.Errorf("LayoutKey = %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("file backend = %T", c)
	}

	c, err = Open(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend err = %v", err)
	}
}
