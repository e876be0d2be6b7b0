package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/fleetops/fleetsched/core/model"
)

func window(t *testing.T, startHour, endHour int) model.Window {
	t.Helper()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return model.Window{Start: day.Add(time.Duration(startHour) * time.Hour), End: day.Add(time.Duration(endHour) * time.Hour)}
}

func TestMemoryStore_HasConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.Insert(ctx, model.CalendarEntry{ResourceID: "v1", ResourceKind: model.KindVehicle, Window: window(t, 9, 11), Type: model.EntryTrip}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cases := []struct {
		name string
		w    model.Window
		want bool
	}{
		{"overlapping", window(t, 10, 12), true},
		{"contained", window(t, 9, 10), true},
		{"containing", window(t, 8, 12), true},
		{"before", window(t, 7, 8), false},
		{"after", window(t, 12, 13), false},
		{"adjacent end", window(t, 11, 13), false},
		{"adjacent start", window(t, 7, 9), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := s.HasConflict(ctx, "v1", model.KindVehicle, c.w)
			if err != nil {
				t.Fatalf("has conflict: %v", err)
			}
			if got != c.want {
				t.Fatalf("window %v: got %v want %v", c.w, got, c.want)
			}
		})
	}
}

func TestMemoryStore_HasConflictSymmetric(t *testing.T) {
	ctx := context.Background()
	a := window(t, 9, 11)
	b := window(t, 10, 12)

	s1 := NewMemoryStore()
	if _, err := s1.Insert(ctx, model.CalendarEntry{ResourceID: "v1", ResourceKind: model.KindVehicle, Window: a, Type: model.EntryTrip}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got1, err := s1.HasConflict(ctx, "v1", model.KindVehicle, b)
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}

	s2 := NewMemoryStore()
	if _, err := s2.Insert(ctx, model.CalendarEntry{ResourceID: "v1", ResourceKind: model.KindVehicle, Window: b, Type: model.EntryTrip}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got2, err := s2.HasConflict(ctx, "v1", model.KindVehicle, a)
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}

	if got1 != got2 {
		t.Fatalf("overlap not symmetric: %v vs %v", got1, got2)
	}
}

func TestMemoryStore_BlockEntriesAdvisory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.Insert(ctx, model.CalendarEntry{ResourceID: "v1", ResourceKind: model.KindVehicle, Window: window(t, 9, 11), Type: model.EntryBlock}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.HasConflict(ctx, "v1", model.KindVehicle, window(t, 10, 12))
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}
	if got {
		t.Fatalf("block entry must not cause a conflict")
	}
	all, err := s.EntriesOverlapping(ctx, "v1", model.KindVehicle, window(t, 10, 12))
	if err != nil {
		t.Fatalf("entries overlapping: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("block entry missing from overlap listing: %#v", all)
	}
}

func TestMemoryStore_KindIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.Insert(ctx, model.CalendarEntry{ResourceID: "r1", ResourceKind: model.KindDriver, Window: window(t, 9, 11), Type: model.EntryTrip}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.HasConflict(ctx, "r1", model.KindVehicle, window(t, 9, 11))
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}
	if got {
		t.Fatalf("driver entry must not block the vehicle of the same id")
	}
}

func TestMemoryStore_RemoveFreesWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	e, err := s.Insert(ctx, model.CalendarEntry{ResourceID: "v1", ResourceKind: model.KindVehicle, Window: window(t, 9, 11), Type: model.EntryTrip})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Remove(ctx, e.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err := s.HasConflict(ctx, "v1", model.KindVehicle, window(t, 9, 11))
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}
	if got {
		t.Fatalf("window still blocked after remove")
	}
	if err := s.Remove(ctx, e.ID); err == nil {
		t.Fatalf("expected error removing missing entry")
	}
}

func TestMemoryStore_EntriesSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, h := range []int{14, 8, 11} {
		if _, err := s.Insert(ctx, model.CalendarEntry{ResourceID: "v1", ResourceKind: model.KindVehicle, Window: window(t, h, h+1), Type: model.EntryTrip}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	all, err := s.EntriesOverlapping(ctx, "v1", model.KindVehicle, window(t, 0, 24))
	if err != nil {
		t.Fatalf("entries overlapping: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Window.Start.Before(all[i-1].Window.Start) {
			t.Fatalf("entries not sorted: %#v", all)
		}
	}
}
