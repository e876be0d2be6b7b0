package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/fleetops/fleetsched/core/assignment"
	"github.com/fleetops/fleetsched/core/calendar"
	"github.com/fleetops/fleetsched/core/logger"
	"github.com/fleetops/fleetsched/core/model"
)

// MaxResults caps the ranked candidate list.
const MaxResults = 10

// NeutralProximity is used when the pickup point has no resolvable
// coordinates.
const NeutralProximity = 50.0

// Scorer computes 0-100 suitability scores for candidate vehicles against a
// trip request using a weighted factor pipeline. Availability is a hard gate:
// a calendar conflict forces the total to 0 regardless of the other factors.
type Scorer struct {
	AvailabilityWeight float64
	ProximityWeight    float64
	FuelWeight         float64
	UtilizationWeight  float64
	MaintenanceWeight  float64
	ClassWeight        float64

	calendar calendar.Store
	distance DistanceProvider
	fleet    FleetStatusProvider
	log      logger.Logger
}

// NewScorer returns a Scorer with the standard weights.
func NewScorer(cal calendar.Store, distance DistanceProvider, fleet FleetStatusProvider, log logger.Logger) *Scorer {
	s := &Scorer{
		AvailabilityWeight: 0.35,
		ProximityWeight:    0.20,
		FuelWeight:         0.15,
		UtilizationWeight:  0.15,
		MaintenanceWeight:  0.10,
		ClassWeight:        0.05,
		calendar:           cal,
		distance:           distance,
		fleet:              fleet,
		log:                log,
	}
	if s.distance == nil {
		s.distance = FixedDistanceProvider{Score: NeutralProximity}
	}
	if s.fleet == nil {
		s.fleet = NeutralFleetStatus{}
	}
	return s
}

// ApplyWeights overrides the factor weights from a loaded configuration.
func (s *Scorer) ApplyWeights(w Weights) {
	s.AvailabilityWeight = w.Availability
	s.ProximityWeight = w.Proximity
	s.FuelWeight = w.Fuel
	s.UtilizationWeight = w.Utilization
	s.MaintenanceWeight = w.Maintenance
	s.ClassWeight = w.Class
}

// Score ranks the candidate vehicles for the trip request. Scoring is
// read-only, so candidates are evaluated concurrently. The result is sorted
// by descending total with ties broken by ascending plate, truncated to
// MaxResults.
func (s *Scorer) Score(ctx context.Context, trip model.TripRequest, vehicles []model.Vehicle) ([]model.VehicleScore, error) {
	if err := trip.Validate(); err != nil {
		return nil, &assignment.ValidationError{Reason: err.Error()}
	}

	scores := make([]model.VehicleScore, len(vehicles))
	errs := make([]error, len(vehicles))
	var wg sync.WaitGroup
	for i, v := range vehicles {
		wg.Add(1)
		go func(i int, v model.Vehicle) {
			defer wg.Done()
			scores[i], errs[i] = s.scoreOne(ctx, trip, v)
		}(i, v)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Total != scores[j].Total {
			return scores[i].Total > scores[j].Total
		}
		return scores[i].Vehicle.Plate < scores[j].Vehicle.Plate
	})
	if len(scores) > MaxResults {
		scores = scores[:MaxResults]
	}
	return scores, nil
}

func (s *Scorer) scoreOne(ctx context.Context, trip model.TripRequest, v model.Vehicle) (model.VehicleScore, error) {
	res := model.VehicleScore{Vehicle: v}
	window := trip.Window()

	entries, err := s.calendar.EntriesOverlapping(ctx, v.ID, model.KindVehicle, window)
	if err != nil {
		return res, fmt.Errorf("availability check for %s: %w", v.ID, err)
	}
	for _, e := range entries {
		if e.Type.Blocking() {
			res.Conflicts = append(res.Conflicts, conflictReason(e))
		} else {
			res.Warnings = append(res.Warnings, advisoryNote(e))
		}
	}
	if len(res.Conflicts) > 0 {
		res.Factors.Availability = 0
	} else {
		res.Factors.Availability = 100
	}

	res.Factors.ClassMatch = 100
	if trip.RequiredClass != "" && trip.RequiredClass != v.Class {
		res.Factors.ClassMatch = 50
		res.Warnings = append(res.Warnings, fmt.Sprintf("vehicle class %q does not match requested %q", v.Class, trip.RequiredClass))
	}

	if trip.PickupPoint.HasCoordinates() {
		res.Factors.Proximity = clampScore(s.distance.ProximityScore(v.ID, *trip.PickupPoint.Latitude, *trip.PickupPoint.Longitude))
	} else {
		res.Factors.Proximity = NeutralProximity
	}

	res.Factors.Fuel = clampScore(s.fleet.FuelScore(v.ID))
	res.Factors.Utilization = clampScore(s.fleet.UtilizationScore(v.ID))
	res.Factors.Maintenance = clampScore(s.fleet.MaintenanceScore(v.ID))

	if res.Factors.Availability == 0 {
		res.Total = 0
		return res, nil
	}
	total := res.Factors.Availability*s.AvailabilityWeight +
		res.Factors.Proximity*s.ProximityWeight +
		res.Factors.Fuel*s.FuelWeight +
		res.Factors.Utilization*s.UtilizationWeight +
		res.Factors.Maintenance*s.MaintenanceWeight +
		res.Factors.ClassMatch*s.ClassWeight
	res.Total = int(math.Round(total))
	return res, nil
}

func conflictReason(e model.CalendarEntry) string {
	return fmt.Sprintf("%s reserved %s to %s (%s)",
		e.ResourceKind,
		e.Window.Start.Format(time.RFC3339),
		e.Window.End.Format(time.RFC3339),
		e.Type)
}

func advisoryNote(e model.CalendarEntry) string {
	return fmt.Sprintf("advisory block on %s %s to %s",
		e.ResourceKind,
		e.Window.Start.Format(time.RFC3339),
		e.Window.End.Format(time.RFC3339))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
