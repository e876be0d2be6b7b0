package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetops/fleetsched/app"
	"github.com/fleetops/fleetsched/config"
	"github.com/fleetops/fleetsched/core/directory"
	"github.com/fleetops/fleetsched/core/model"
	"github.com/fleetops/fleetsched/infra/logger"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank candidates for a smoke-test trip request",
	RunE:  scoreTrip,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func scoreTrip(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("score-command")
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	ctx := context.Background()
	svc.Directory.PutVehicle(ctx, model.Vehicle{ID: "test-vehicle", Plate: "TEST-001", Class: "van", Active: true})

	pickup := time.Now().Truncate(time.Hour).Add(time.Hour)
	trip := model.TripRequest{
		ID:            "smoke-test",
		Pickup:        pickup,
		Return:        pickup.Add(2 * time.Hour),
		RequiredClass: "van",
		Status:        model.TripDraft,
	}
	scores, err := svc.Scorer.Score(ctx, trip, svc.Directory.Vehicles(ctx, directory.Filter{ActiveOnly: true}))
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	for i, s := range scores {
		fmt.Printf("%d. %s (%s) total=%d assignable=%t\n", i+1, s.Vehicle.Plate, s.Vehicle.ID, s.Total, s.Assignable())
	}
	return nil
}
