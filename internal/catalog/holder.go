package catalog

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

// Snapshot is what the presentation layer reads: the last published result
// list plus the loading flag and error message.
type Snapshot[T any] struct {
	Items   []T
	Loading bool
	Err     string
	Status  Status
}

// Holder keeps the last fetched result set for one catalog view. Every Fetch
// moves it to loading and clears the previous error; success replaces the
// whole list atomically; failure keeps the stale list so the caller still
// has something to show.
//
// Rapid refetches with different filters carry a generation token: when a
// superseded fetch completes it returns its rows to its own caller but does
// not publish them, so the held state always reflects the newest fetch.
// Identical concurrent fetches collapse into one store round-trip via
// singleflight.
type Holder[T any] struct {
	mu      sync.Mutex
	gen     uint64
	status  Status
	items   []T
	err     string
	flight  singleflight.Group
}

// Fetch runs fn (the server query plus post-filter) under the key that
// identifies the filter set, then publishes the outcome unless a newer
// fetch has started in the meantime.
func (h *Holder[T]) Fetch(key string, fn func() ([]T, error)) ([]T, error) {
	h.mu.Lock()
	h.gen++
	gen := h.gen
	h.status = StatusLoading
	h.err = ""
	h.mu.Unlock()

	v, err, _ := h.flight.Do(key, func() (any, error) {
		return fn()
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.gen {
		// Superseded: a later Fetch owns the held state now.
		if err != nil {
			return nil, err
		}
		return v.([]T), nil
	}
	if err != nil {
		h.status = StatusError
		h.err = err.Error()
		return nil, err
	}
	items := v.([]T)
	h.items = items
	h.status = StatusReady
	return items, nil
}

// Snapshot returns a copy of the held state.
func (h *Holder[T]) Snapshot() Snapshot[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	items := make([]T, len(h.items))
	copy(items, h.items)
	return Snapshot[T]{
		Items:   items,
		Loading: h.status == StatusLoading,
		Err:     h.err,
		Status:  h.status,
	}
}

// Key derives the singleflight key for a filter pair and page. Two fetches
// with the same key are the same question and may share one store round-trip.
func Key(f Filter, pf PostFilter, page int) string {
	feat := ""
	if f.Featured != nil {
		feat = fmt.Sprintf("%t", *f.Featured)
	}
	price := ""
	if pf.Price != nil {
		price = fmt.Sprintf("%g-%g", pf.Price.Min, pf.Price.Max)
	}
	return fmt.Sprintf("c=%s|k=%s|s=%s|h=%s|o=%s|f=%s|p=%s|q=%s|pc=%s|pg=%d",
		f.Category, f.Condition, f.SellerID, f.ShopID, f.OwnerID, feat, price, pf.Search, pf.Category, page)
}
