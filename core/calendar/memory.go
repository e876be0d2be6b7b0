package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fleetops/fleetsched/core/model"
)

// MemoryStore is an in-memory Store guarded by a RWMutex. It is the default
// backend for tests and brokerless runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]model.CalendarEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]model.CalendarEntry{}}
}

func (s *MemoryStore) HasConflict(_ context.Context, resourceID string, kind model.ResourceKind, w model.Window) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ResourceID != resourceID || e.ResourceKind != kind {
			continue
		}
		if e.Type.Blocking() && e.Window.Overlaps(w) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) BlockingEntries(_ context.Context, resourceID string, kind model.ResourceKind, w model.Window) ([]model.CalendarEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []model.CalendarEntry
	for _, e := range s.entries {
		if e.ResourceID != resourceID || e.ResourceKind != kind {
			continue
		}
		if e.Type.Blocking() && e.Window.Overlaps(w) {
			res = append(res, e)
		}
	}
	sortEntries(res)
	return res, nil
}

func (s *MemoryStore) EntriesOverlapping(_ context.Context, resourceID string, kind model.ResourceKind, w model.Window) ([]model.CalendarEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []model.CalendarEntry
	for _, e := range s.entries {
		if e.ResourceID != resourceID || e.ResourceKind != kind {
			continue
		}
		if e.Window.Overlaps(w) {
			res = append(res, e)
		}
	}
	sortEntries(res)
	return res, nil
}

func (s *MemoryStore) Insert(_ context.Context, e model.CalendarEntry) (model.CalendarEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; ok {
		return model.CalendarEntry{}, fmt.Errorf("calendar entry %s already exists", e.ID)
	}
	s.entries[e.ID] = e
	return e, nil
}

func (s *MemoryStore) Remove(_ context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entryID]; !ok {
		return fmt.Errorf("calendar entry %s not found", entryID)
	}
	delete(s.entries, entryID)
	return nil
}

func sortEntries(entries []model.CalendarEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Window.Start.Equal(entries[j].Window.Start) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Window.Start.Before(entries[j].Window.Start)
	})
}
