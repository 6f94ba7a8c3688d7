package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/robalobadob/dingobingo/internal/bingo"
	"github.com/robalobadob/dingobingo/internal/game"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := game.FromCard(make(bingo.Card, bingo.TotalCells), bingo.ModeBlackout)

	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}
	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("expected the stored pointer back")
	}
	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.Delete(ctx, "unknown"); err != nil {
		t.Errorf("deleting unknown id: %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	ids := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := game.FromCard(make(bingo.Card, bingo.TotalCells), bingo.ModeCorners)
			_ = st.Save(ctx, s)
			ids <- s.ID
		}()
	}
	wg.Wait()
	close(ids)
	for id := range ids {
		if _, err := st.Get(ctx, id); err != nil {
			t.Errorf("Get(%s): %v", id, err)
		}
	}
}
