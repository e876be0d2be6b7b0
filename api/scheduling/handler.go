package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fleetops/fleetsched/core/assignment"
	"github.com/fleetops/fleetsched/core/directory"
	coremetrics "github.com/fleetops/fleetsched/core/metrics"
	"github.com/fleetops/fleetsched/core/scoring"
	"github.com/fleetops/fleetsched/infra/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// NewCandidatesHandler returns an HTTP handler ranking candidate vehicles for
// a trip request via POST /api/trips/{id}/candidates.
func NewCandidatesHandler(scorer *scoring.Scorer, store assignment.Store, dir directory.Store, sink coremetrics.MetricsSink, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		tripID := r.PathValue("id")
		trip, err := store.TripRequest(r.Context(), tripID)
		if err != nil {
			writeError(w, err)
			return
		}
		vehicles := dir.Vehicles(r.Context(), directory.Filter{ActiveOnly: true})

		start := time.Now()
		scores, err := scorer.Score(r.Context(), trip, vehicles)
		if err != nil {
			writeError(w, err)
			return
		}
		if sink != nil {
			_ = sink.RecordScoring(coremetrics.ScoringRecord{
				TripRequestID: trip.ID,
				Candidates:    len(vehicles),
				Duration:      time.Since(start),
				Time:          time.Now(),
			})
		}
		log.Debugw("candidates ranked", map[string]any{"trip": trip.ID, "pool": len(vehicles), "returned": len(scores)})
		writeJSON(w, http.StatusOK, scores)
	})
}

type assignRequest struct {
	TripRequestID string `json:"trip_request_id"`
	VehicleID     string `json:"vehicle_id"`
	DriverID      string `json:"driver_id"`
}

// NewAssignHandler returns an HTTP handler committing an assignment via
// POST /api/assignments.
func NewAssignHandler(coord *assignment.Coordinator, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "validation"})
			return
		}
		a, err := coord.Assign(r.Context(), req.TripRequestID, req.VehicleID, req.DriverID)
		if err != nil {
			log.Warnf("assign trip %s failed: %v", req.TripRequestID, err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	})
}

// NewCancelHandler returns an HTTP handler cancelling an assignment via
// DELETE /api/assignments/{id}.
func NewCancelHandler(coord *assignment.Coordinator, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.PathValue("id")
		if err := coord.Cancel(r.Context(), id); err != nil {
			log.Warnf("cancel assignment %s failed: %v", id, err)
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var (
		verr *assignment.ValidationError
		nerr *assignment.NotFoundError
		cerr *assignment.ConflictError
		terr *assignment.TransactionError
	)
	switch {
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "conflict"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "validation"})
	case errors.As(err, &terr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "transaction"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
	}
}
