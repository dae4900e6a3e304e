package sync

import (
	"context"
	"strconv"
	"sync"
	"testing"
)

func TestWorkPool(t *testing.T) {
	mtx := &sync.Mutex{}
	values := make([]int, 0)
	wp := NewWorkPool(context.Background(), 3)
	for i := 0; i < 10; i++ {
		id := strconv.Itoa(i)
		i := i
		wp.Add(id, func() {
			mtx.Lock()
			values = append(values, i)
			mtx.Unlock()
		})
	}
	wp.Run()

	if len(values) != 10 {
		t.Errorf("expected 10 values, got %d, %v", len(values), values)
	}

	for i := range values {
		id := strconv.Itoa(i)
		if wp.Status(id) {
			t.Errorf("expected %s to be false", id)
		}
	}
}

func TestWorkPoolDuplicate(t *testing.T) {
	var (
		mtx   sync.Mutex
		calls int
	)
	wp := NewWorkPool(context.Background(), 0)
	for i := 0; i < 3; i++ {
		wp.Add("same", func() {
			mtx.Lock()
			calls++
			mtx.Unlock()
		})
	}
	if !wp.Status("same") {
		t.Fatal("expected job to be queued")
	}
	wp.Run()
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
