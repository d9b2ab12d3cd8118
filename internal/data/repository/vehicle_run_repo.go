package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transit-booking/internal/data/entity"
	"transit-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type VehicleRunRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VehicleRun, error)

	// UpdateSeats writes run.AvailableSeats only if the stored version still
	// equals run.Version, then bumps run.Version. A stale version yields
	// ErrModifiedConcurrently.
	UpdateSeats(ctx context.Context, run *entity.VehicleRun) error
}

type vehicleRunRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVehicleRunRepository(db database.PgxIface, log *zap.Logger) VehicleRunRepository {
	return &vehicleRunRepository{
		db:  db,
		log: log.With(zap.String("repository", "vehicle_run")),
	}
}

func (r *vehicleRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VehicleRun, error) {
	query := `
		SELECT id, code, origin, destination, departure_time, arrival_time, fare,
		       capacity, available_seats, version, created_at, updated_at
		FROM vehicle_runs
		WHERE id = $1
	`

	var (
		run       entity.VehicleRun
		departure pgtype.Time
		arrival   pgtype.Time
	)
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Code,
		&run.Origin,
		&run.Destination,
		&departure,
		&arrival,
		&run.Fare,
		&run.Capacity,
		&run.AvailableSeats,
		&run.Version,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find vehicle run by ID",
			zap.Error(err),
			zap.String("run_id", id.String()),
		)
		return nil, fmt.Errorf("find vehicle run by ID %s: %w", id.String(), err)
	}

	run.DepartureTime = timeOfDay(departure)
	run.ArrivalTime = timeOfDay(arrival)

	return &run, nil
}

func (r *vehicleRunRepository) UpdateSeats(ctx context.Context, run *entity.VehicleRun) error {
	query := `
		UPDATE vehicle_runs
		SET available_seats = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, run.ID, run.AvailableSeats, run.Version)
	if err != nil {
		r.log.Error("Failed to update vehicle run seats",
			zap.Error(err),
			zap.String("run_id", run.ID.String()),
			zap.Int("available_seats", run.AvailableSeats),
		)
		return fmt.Errorf("update seats of vehicle run %s: %w", run.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Warn("Vehicle run version conflict",
			zap.String("run_id", run.ID.String()),
			zap.Int64("version", run.Version),
		)
		return fmt.Errorf("update seats of vehicle run %s: %w", run.ID.String(), ErrModifiedConcurrently)
	}

	run.Version++
	return nil
}

func timeOfDay(t pgtype.Time) time.Duration {
	if !t.Valid {
		return 0
	}
	return time.Duration(t.Microseconds) * time.Microsecond
}
