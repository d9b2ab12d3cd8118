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

const (
	reservationTicketConstraint      = "reservations_ticket_id_key"
	reservationTransactionConstraint = "reservations_transaction_id_key"
)

const reservationColumns = `
	id, passenger_id, run_id, seats_booked, travel_date, departure_at, arrival_at,
	status, payment_status, payment_method, expires_at, ticket_id, transaction_id,
	discount_pct, total_cost, discount_amount, final_cost, cancelled_at, edited_at,
	version, created_at, updated_at`

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)

	// Update writes every mutable column only if the stored version still
	// equals reservation.Version, then bumps reservation.Version. A stale
	// version yields ErrModifiedConcurrently.
	Update(ctx context.Context, reservation *entity.Reservation) error

	// FindLive returns reservations still holding an open decision window
	// (PENDING or PROCESSING), oldest deadline first.
	FindLive(ctx context.Context) ([]*entity.Reservation, error)

	IdentifierExists(ctx context.Context, ticketID, transactionID string) (bool, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	res.Version = 1
	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		res.ID,
		res.PassengerID,
		res.RunID,
		res.SeatsBooked,
		res.TravelDate,
		res.DepartureAt,
		res.ArrivalAt,
		res.Status,
		res.PaymentStatus,
		res.PaymentMethod,
		res.ExpiresAt,
		res.TicketID,
		res.TransactionID,
		res.DiscountPct,
		res.TotalCost,
		res.DiscountAmount,
		res.FinalCost,
		res.CancelledAt,
		res.EditedAt,
		res.Version,
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
			zap.String("run_id", res.RunID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", res.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET seats_booked = $2, travel_date = $3, departure_at = $4, arrival_at = $5,
		    status = $6, payment_status = $7, payment_method = $8, expires_at = $9,
		    ticket_id = $10, transaction_id = $11, discount_pct = $12, total_cost = $13,
		    discount_amount = $14, final_cost = $15, cancelled_at = $16, edited_at = $17,
		    updated_at = $18, version = version + 1
		WHERE id = $1 AND version = $19
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		res.ID,
		res.SeatsBooked,
		res.TravelDate,
		res.DepartureAt,
		res.ArrivalAt,
		res.Status,
		res.PaymentStatus,
		res.PaymentMethod,
		res.ExpiresAt,
		res.TicketID,
		res.TransactionID,
		res.DiscountPct,
		res.TotalCost,
		res.DiscountAmount,
		res.FinalCost,
		res.CancelledAt,
		res.EditedAt,
		res.UpdatedAt,
		res.Version,
	)

	if database.IsUniqueViolation(err, reservationTicketConstraint) ||
		database.IsUniqueViolation(err, reservationTransactionConstraint) {
		return fmt.Errorf("update reservation %s: %w", res.ID.String(), ErrDuplicateIdentifier)
	}
	if err != nil {
		r.log.Error("Failed to update reservation",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
		)
		return fmt.Errorf("update reservation %s: %w", res.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Warn("Reservation version conflict",
			zap.String("reservation_id", res.ID.String()),
			zap.Int64("version", res.Version),
		)
		return fmt.Errorf("update reservation %s: %w", res.ID.String(), ErrModifiedConcurrently)
	}

	res.Version++
	return nil
}

func (r *reservationRepository) FindLive(ctx context.Context) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status IN ('PENDING', 'PROCESSING')
		ORDER BY expires_at NULLS LAST
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find live reservations", zap.Error(err))
		return nil, fmt.Errorf("find live reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate live reservations: %w", err)
	}

	return reservations, nil
}

func (r *reservationRepository) IdentifierExists(ctx context.Context, ticketID, transactionID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE ticket_id = $1 OR transaction_id = $2)`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, ticketID, transactionID).Scan(&exists); err != nil {
		r.log.Error("Failed to check issued identifiers",
			zap.Error(err),
			zap.String("ticket_id", ticketID),
			zap.String("transaction_id", transactionID),
		)
		return false, fmt.Errorf("check identifiers %s/%s: %w", ticketID, transactionID, err)
	}

	return exists, nil
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.PassengerID,
		&res.RunID,
		&res.SeatsBooked,
		&res.TravelDate,
		&res.DepartureAt,
		&res.ArrivalAt,
		&res.Status,
		&res.PaymentStatus,
		&res.PaymentMethod,
		&res.ExpiresAt,
		&res.TicketID,
		&res.TransactionID,
		&res.DiscountPct,
		&res.TotalCost,
		&res.DiscountAmount,
		&res.FinalCost,
		&res.CancelledAt,
		&res.EditedAt,
		&res.Version,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
