package repository

import (
	"context"
	"errors"
	"fmt"

	"transit-booking/internal/data/entity"
	"transit-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const passengerEmailConstraint = "passengers_email_key"

type PassengerRepository interface {
	Create(ctx context.Context, passenger *entity.Passenger) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error)
	FindByEmail(ctx context.Context, email string) (*entity.Passenger, error)
	Update(ctx context.Context, passenger *entity.Passenger) error
}

type passengerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPassengerRepository(db database.PgxIface, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

func (r *passengerRepository) Create(ctx context.Context, passenger *entity.Passenger) error {
	query := `
		INSERT INTO passengers (id, full_name, email, phone, account_type, registered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		passenger.ID,
		passenger.FullName,
		passenger.Email,
		passenger.Phone,
		passenger.AccountType,
		passenger.Registered,
		passenger.CreatedAt,
		passenger.UpdatedAt,
	)

	if database.IsUniqueViolation(err, passengerEmailConstraint) {
		return fmt.Errorf("create passenger %s: %w", passenger.Email, ErrDuplicateEmail)
	}
	if err != nil {
		r.log.Error("Failed to create passenger",
			zap.Error(err),
			zap.String("email", passenger.Email),
		)
		return fmt.Errorf("create passenger %s: %w", passenger.Email, err)
	}

	return nil
}

func (r *passengerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error) {
	query := `
		SELECT id, full_name, email, phone, account_type, registered, created_at, updated_at
		FROM passengers
		WHERE id = $1
	`

	passenger, err := scanPassenger(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find passenger by ID",
			zap.Error(err),
			zap.String("passenger_id", id.String()),
		)
		return nil, fmt.Errorf("find passenger by ID %s: %w", id.String(), err)
	}

	return passenger, nil
}

func (r *passengerRepository) FindByEmail(ctx context.Context, email string) (*entity.Passenger, error) {
	query := `
		SELECT id, full_name, email, phone, account_type, registered, created_at, updated_at
		FROM passengers
		WHERE lower(email) = lower($1)
	`

	passenger, err := scanPassenger(database.Conn(ctx, r.db).QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find passenger by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find passenger by email %s: %w", email, err)
	}

	return passenger, nil
}

func (r *passengerRepository) Update(ctx context.Context, passenger *entity.Passenger) error {
	query := `
		UPDATE passengers
		SET full_name = $2, email = $3, phone = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		passenger.ID,
		passenger.FullName,
		passenger.Email,
		passenger.Phone,
		passenger.UpdatedAt,
	)

	if database.IsUniqueViolation(err, passengerEmailConstraint) {
		return fmt.Errorf("update passenger %s: %w", passenger.ID.String(), ErrDuplicateEmail)
	}
	if err != nil {
		r.log.Error("Failed to update passenger",
			zap.Error(err),
			zap.String("passenger_id", passenger.ID.String()),
		)
		return fmt.Errorf("update passenger %s: %w", passenger.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("passenger %s not found", passenger.ID.String())
	}

	return nil
}

func scanPassenger(row pgx.Row) (*entity.Passenger, error) {
	var p entity.Passenger
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.AccountType,
		&p.Registered,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
