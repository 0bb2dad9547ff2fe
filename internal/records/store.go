// Package records implements the client-side collections for income and
// expense entries. The server is the source of truth: the local cache is
// refreshed wholesale, creates prepend the server-returned record, and
// deletes patch the cache only after the server confirms.
package records

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/budgetiq/budgetiq/internal/model"
)

// Requester is the subset of the HTTP adapter the store needs.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Store is a client-side collection of one record variant.
type Store struct {
	api     Requester
	variant Variant

	mu      sync.RWMutex
	records []model.Record
}

// NewStore creates a store for the given variant.
func NewStore(api Requester, variant Variant) *Store {
	return &Store{api: api, variant: variant}
}

// Variant returns the store's variant configuration.
func (s *Store) Variant() Variant {
	return s.variant
}

// Reload fetches the full collection and replaces the local cache wholesale.
// No incremental diffing; collections are small.
func (s *Store) Reload(ctx context.Context) error {
	var fetched []model.Record
	if err := s.api.Get(ctx, s.variant.Path, &fetched); err != nil {
		return err
	}

	s.mu.Lock()
	s.records = fetched
	s.mu.Unlock()
	return nil
}

// List returns the current ordered cache, newest first.
func (s *Store) List() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Create validates the draft locally, submits it, and prepends the
// server-returned record to the cache. On any failure the cache is left
// untouched; presentation of the error is the caller's concern.
func (s *Store) Create(ctx context.Context, draft model.RecordDraft) (model.Record, error) {
	if err := s.variant.ValidateDraft(draft); err != nil {
		return model.Record{}, err
	}

	var created model.Record
	if err := s.api.Post(ctx, s.variant.Path, draft, &created); err != nil {
		return model.Record{}, err
	}

	// The caller's scope may have been canceled while the request was in
	// flight; drop the patch instead of mutating state nobody observes.
	if ctx.Err() != nil {
		return created, ctx.Err()
	}

	s.mu.Lock()
	s.records = append([]model.Record{created}, s.records...)
	s.mu.Unlock()
	return created, nil
}

// Remove deletes a record. The cache is patched only after the server
// confirms; a rejected delete leaves the record visible.
func (s *Store) Remove(ctx context.Context, id model.RecordID) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%s", s.variant.Path, url.PathEscape(string(id)))); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// TotalAmount folds the current cache. It is recomputed on every call and
// never stored, so it cannot drift from the records themselves.
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, rec := range s.records {
		total += rec.Amount
	}
	return total
}

// Len returns the number of cached records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
