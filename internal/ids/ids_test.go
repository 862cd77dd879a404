package ids

import (
	"sort"
	"sync"
	"testing"
)

func TestNewIsSortedAndUnique(t *testing.T) {
	const n = 200
	generated := make([]string, n)
	for i := range generated {
		generated[i] = New()
	}

	seen := map[string]bool{}
	for _, id := range generated {
		if len(id) != 26 {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if !sort.StringsAreSorted(generated) {
		t.Error("sequentially generated ids are not in order")
	}
}

func TestNewConcurrent(t *testing.T) {
	const workers, perWorker = 8, 50
	var (
		mu  sync.Mutex
		all = map[string]bool{}
		wg  sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := New()
				mu.Lock()
				if all[id] {
					t.Errorf("duplicate id %q", id)
				}
				all[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
