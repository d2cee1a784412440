package kvmap

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/agentsession/core"
)

// Interface compliance (compile-time assertion)
var _ core.Map = (*InMemory)(nil)

func TestInMemory_SetGetIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	s := core.NewSession("s1", core.ModeAgent)
	s.Data["k"] = "v"
	if err := m.Set(ctx, s); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Mutating the original after Set must not leak into the map.
	s.Data["k"] = "mutated"
	got, ok, err := m.Get(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Data["k"] != "v" {
		t.Fatalf("expected stored value 'v', got %q", got.Data["k"])
	}

	// Mutating the returned clone must not leak either.
	got.Data["k"] = "also mutated"
	again, _, _ := m.Get(ctx, "s1")
	if again.Data["k"] != "v" {
		t.Fatalf("expected isolation, got %q", again.Data["k"])
	}
}

func TestInMemory_GetMissing(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	got, ok, err := m.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || got != nil {
		t.Fatal("expected absent result for missing key")
	}
}

func TestInMemory_DeleteAndLen(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	if err := m.Set(ctx, core.NewSession("s1", core.ModeAgent)); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, core.NewSession("s2", core.ModeTeam)); err != nil {
		t.Fatal(err)
	}

	n, err := m.Len(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected len 2, got %d (%v)", n, err)
	}

	if err := m.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Delete(ctx, "s1"); err != nil { // absent key is a no-op
		t.Fatalf("second delete: %v", err)
	}

	n, _ = m.Len(ctx)
	if n != 1 {
		t.Fatalf("expected len 1 after delete, got %d", n)
	}
}

func TestInMemory_RangeSnapshotAndEarlyStop(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	for i := 0; i < 5; i++ {
		if err := m.Set(ctx, core.NewSession(fmt.Sprintf("s%d", i), core.ModeAgent)); err != nil {
			t.Fatal(err)
		}
	}

	var seen int
	err := m.Range(ctx, func(s *core.Session) bool {
		seen++
		// Writing during iteration must not deadlock: Range works on a snapshot.
		_ = m.Set(ctx, core.NewSession(fmt.Sprintf("extra-%d", seen), core.ModeAgent))
		return seen < 3
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if seen != 3 {
		t.Fatalf("expected early stop after 3, saw %d", seen)
	}
}

func TestInMemory_Concurrency(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%10)
			if err := m.Set(ctx, core.NewSession(id, core.ModeAgent)); err != nil {
				t.Errorf("set: %v", err)
			}
			_, _, _ = m.Get(ctx, id)
			_ = m.Range(ctx, func(*core.Session) bool { return true })
		}(i)
	}
	wg.Wait()

	n, err := m.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("expected 10 entries, got %d", n)
	}
}
