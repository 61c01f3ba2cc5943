package services

import (
	"sort"
	"sync"
	"testing"

	"github.com/bugtrackpro/backend/internal/models"
)

func TestSequenceNext_FreshKeyStartsAtOne(t *testing.T) {
	db := newTestDB(t)
	seq := NewSequenceService(db)

	n, err := seq.Next(1, models.CounterKindBugs)
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("first number = %d, expected 1", n)
	}
}

func TestSequenceNext_Monotonic(t *testing.T) {
	db := newTestDB(t)
	seq := NewSequenceService(db)

	for want := 1; want <= 5; want++ {
		n, err := seq.Next(1, models.CounterKindBugs)
		if err != nil {
			t.Fatalf("Next() failed at %d: %v", want, err)
		}
		if n != want {
			t.Errorf("number = %d, expected %d", n, want)
		}
	}
}

func TestSequenceNext_IndependentKeys(t *testing.T) {
	db := newTestDB(t)
	seq := NewSequenceService(db)

	if n, _ := seq.Next(1, models.CounterKindBugs); n != 1 {
		t.Errorf("project 1 bugs = %d, expected 1", n)
	}
	if n, _ := seq.Next(1, models.CounterKindBugs); n != 2 {
		t.Errorf("project 1 bugs = %d, expected 2", n)
	}
	if n, _ := seq.Next(2, models.CounterKindBugs); n != 1 {
		t.Errorf("project 2 bugs = %d, expected 1 (independent counter)", n)
	}
	if n, _ := seq.Next(1, models.CounterKindTestCases); n != 1 {
		t.Errorf("project 1 testcases = %d, expected 1 (independent kind)", n)
	}
}

func TestSequenceNext_ConcurrentNoDuplicatesNoGaps(t *testing.T) {
	db := newTestDB(t)
	seq := NewSequenceService(db)

	const workers = 20
	results := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = seq.Next(1, models.CounterKindBugs)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d failed: %v", i, err)
		}
	}

	sort.Ints(results)
	for i, n := range results {
		if n != i+1 {
			t.Fatalf("issued numbers = %v, expected exactly 1..%d", results, workers)
		}
	}
}
