package usecase

import (
	"context"
	"fmt"

	"transit-booking/internal/data/entity"
	"transit-booking/internal/data/repository"
	"transit-booking/pkg/metrics"

	"go.uber.org/zap"
)

// SeatInventory moves seats between a run's free counter and reservations.
// Every write is checked against the run version read in the same transaction,
// so a racing writer surfaces as repository.ErrModifiedConcurrently.
type SeatInventory struct {
	runs repository.VehicleRunRepository
	log  *zap.Logger
}

func NewSeatInventory(runs repository.VehicleRunRepository, log *zap.Logger) *SeatInventory {
	return &SeatInventory{
		runs: runs,
		log:  log.With(zap.String("component", "inventory")),
	}
}

func (m *SeatInventory) Reserve(ctx context.Context, run *entity.VehicleRun, n int) error {
	if n < 0 {
		return fmt.Errorf("reserve %d seats on run %s: negative count", n, run.ID)
	}
	if run.AvailableSeats < n {
		return insufficientSeatsError(run.AvailableSeats)
	}

	run.AvailableSeats -= n
	if err := m.runs.UpdateSeats(ctx, run); err != nil {
		run.AvailableSeats += n
		return fmt.Errorf("reserve seats on run %s: %w", run.ID, err)
	}

	metrics.SeatsHeld.WithLabelValues("reserve").Add(float64(n))
	m.log.Debug("Seats reserved",
		zap.String("run_id", run.ID.String()),
		zap.Int("seats", n),
		zap.Int("available", run.AvailableSeats),
	)
	return nil
}

func (m *SeatInventory) Release(ctx context.Context, run *entity.VehicleRun, n int) error {
	if n < 0 {
		return fmt.Errorf("release %d seats on run %s: negative count", n, run.ID)
	}

	run.AvailableSeats += n
	if err := m.runs.UpdateSeats(ctx, run); err != nil {
		run.AvailableSeats -= n
		return fmt.Errorf("release seats on run %s: %w", run.ID, err)
	}

	metrics.SeatsHeld.WithLabelValues("release").Add(float64(n))
	m.log.Debug("Seats released",
		zap.String("run_id", run.ID.String()),
		zap.Int("seats", n),
		zap.Int("available", run.AvailableSeats),
	)
	return nil
}

// Adjust applies an edit from oldSeats to newSeats. A zero delta still bumps
// the run version so the edit is serialized with other writers of the run.
func (m *SeatInventory) Adjust(ctx context.Context, run *entity.VehicleRun, oldSeats, newSeats int) error {
	delta := newSeats - oldSeats
	if delta < 0 {
		return m.Release(ctx, run, -delta)
	}
	return m.Reserve(ctx, run, delta)
}
