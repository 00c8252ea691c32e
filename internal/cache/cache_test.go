package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/seismic-render/renderer/internal/render"
)

func TestGetOrRender_CachesAfterFirstCall(t *testing.T) {
	c := New(8)
	var fp render.Fingerprint
	var calls int32

	render := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("rendered"), nil
	}

	for i := 0; i < 3; i++ {
		b, err := c.GetOrRender(fp, render)
		if err != nil {
			t.Fatalf("GetOrRender() error = %v", err)
		}
		if string(b) != "rendered" {
			t.Fatalf("GetOrRender() = %q, want %q", b, "rendered")
		}
	}

	if calls != 1 {
		t.Fatalf("render function called %d times, want 1 (cached after first)", calls)
	}
}

func TestGetOrRender_ConcurrentCallsShareOneRender(t *testing.T) {
	c := New(8)
	var fp render.Fingerprint
	var calls int32

	start := make(chan struct{})
	var wg sync.WaitGroup
	results := make([][]byte, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			b, err := c.GetOrRender(fp, func() ([]byte, error) {
				atomic.AddInt32(&calls, 1)
				return []byte("shared"), nil
			})
			if err != nil {
				t.Errorf("GetOrRender() error = %v", err)
				return
			}
			results[i] = b
		}(i)
	}
	close(start)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("render function called %d times under concurrent callers, want 1", calls)
	}
	for i, b := range results {
		if string(b) != "shared" {
			t.Fatalf("result[%d] = %q, want %q", i, b, "shared")
		}
	}
}

func TestGetOrRender_ErrorIsNotCached(t *testing.T) {
	c := New(8)
	var fp render.Fingerprint
	boom := errors.New("boom")

	if _, err := c.GetOrRender(fp, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrRender() error = %v, want %v", err, boom)
	}

	b, err := c.GetOrRender(fp, func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil {
		t.Fatalf("GetOrRender() after a failed render, error = %v", err)
	}
	if string(b) != "ok" {
		t.Fatalf("GetOrRender() after a failed render = %q, want %q", b, "ok")
	}
}

func TestPut_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	var a, b, cc render.Fingerprint
	a[0], b[0], cc[0] = 1, 2, 3

	mustRender := func(tag byte) func() ([]byte, error) {
		return func() ([]byte, error) { return []byte{tag}, nil }
	}

	c.GetOrRender(a, mustRender('a'))
	c.GetOrRender(b, mustRender('b'))
	c.GetOrRender(cc, mustRender('c')) // evicts a, the least recently used

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.get(a); ok {
		t.Fatalf("fingerprint a should have been evicted")
	}
	if _, ok := c.get(b); !ok {
		t.Fatalf("fingerprint b should still be cached")
	}
}
