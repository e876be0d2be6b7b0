package timeline

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fleetops/fleetsched/core/calendar"
	"github.com/fleetops/fleetsched/core/model"
	coretimeline "github.com/fleetops/fleetsched/core/timeline"
	"github.com/fleetops/fleetsched/infra/logger"
)

type dayResponse struct {
	ResourceID string                         `json:"resource_id"`
	Kind       model.ResourceKind             `json:"kind"`
	Day        string                         `json:"day"`
	Entries    []coretimeline.PositionedEntry `json:"entries"`
}

// NewDayHandler returns an HTTP handler serving a resource's positioned
// calendar entries for a single day via
// GET /api/timeline?resource_id=...&kind=vehicle&day=2024-03-04.
func NewDayHandler(cal calendar.Store, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resourceID := r.URL.Query().Get("resource_id")
		if resourceID == "" {
			http.Error(w, "resource_id is required", http.StatusBadRequest)
			return
		}
		kind := model.ResourceKind(r.URL.Query().Get("kind"))
		if kind != model.KindVehicle && kind != model.KindDriver {
			http.Error(w, "kind must be vehicle or driver", http.StatusBadRequest)
			return
		}
		day, err := time.Parse("2006-01-02", r.URL.Query().Get("day"))
		if err != nil {
			http.Error(w, "day must be formatted as 2006-01-02", http.StatusBadRequest)
			return
		}

		window := coretimeline.DayWindow(day)
		entries, err := cal.EntriesOverlapping(r.Context(), resourceID, kind, window)
		if err != nil {
			log.Errorf("timeline query for %s/%s failed: %v", kind, resourceID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		positioned := coretimeline.Layout(entries, day)
		if positioned == nil {
			positioned = []coretimeline.PositionedEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dayResponse{
			ResourceID: resourceID,
			Kind:       kind,
			Day:        day.Format("2006-01-02"),
			Entries:    positioned,
		})
	})
}
