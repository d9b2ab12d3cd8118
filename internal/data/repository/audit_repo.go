package repository

import (
	"context"
	"fmt"

	"transit-booking/internal/data/entity"
	"transit-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Record(ctx context.Context, entry *entity.AuditEntry) error
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.AuditEntry, error)
}

type auditRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuditRepository(db database.PgxIface, log *zap.Logger) AuditRepository {
	return &auditRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

func (r *auditRepository) Record(ctx context.Context, entry *entity.AuditEntry) error {
	query := `
		INSERT INTO reservation_audit (reservation_id, actor, operation, status, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		entry.ReservationID,
		entry.Actor,
		entry.Operation,
		entry.Status,
		entry.PaymentStatus,
		entry.CreatedAt,
	).Scan(&entry.ID)

	if err != nil {
		r.log.Error("Failed to record audit entry",
			zap.Error(err),
			zap.String("reservation_id", entry.ReservationID.String()),
			zap.String("operation", entry.Operation),
		)
		return fmt.Errorf("record audit for reservation %s: %w", entry.ReservationID.String(), err)
	}

	return nil
}

func (r *auditRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, reservation_id, actor, operation, status, payment_status, created_at
		FROM reservation_audit
		WHERE reservation_id = $1
		ORDER BY id
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, reservationID)
	if err != nil {
		r.log.Error("Failed to find audit entries",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find audit entries for reservation %s: %w", reservationID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.ReservationID, &e.Actor, &e.Operation, &e.Status, &e.PaymentStatus, &e.CreatedAt); err != nil {
			r.log.Error("Failed to scan audit row", zap.Error(err))
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}
