package repository

import (
	"context"

	"transit-booking/pkg/database"

	"go.uber.org/zap"
)

// TxManager runs fn in one transaction; repositories called with the ctx it
// passes to fn take part in that transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repository struct {
	Tx          TxManager
	Reservation ReservationRepository
	VehicleRun  VehicleRunRepository
	Passenger   PassengerRepository
	Audit       AuditRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:          &txManager{db: db},
		Reservation: NewReservationRepository(db, log),
		VehicleRun:  NewVehicleRunRepository(db, log),
		Passenger:   NewPassengerRepository(db, log),
		Audit:       NewAuditRepository(db, log),
	}
}

type txManager struct {
	db database.PgxIface
}

func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithTx(ctx, m.db, fn)
}
