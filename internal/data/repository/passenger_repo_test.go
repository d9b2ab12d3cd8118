package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"transit-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var passengerCols = []string{"id", "full_name", "email", "phone", "account_type", "registered", "created_at", "updated_at"}

func TestPassengerRepository_FindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassengerRepository(mock, zap.NewNop())
	id := uuid.New()
	phone := "+911234567890"
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
		WithArgs("member@example.com").
		WillReturnRows(pgxmock.NewRows(passengerCols).
			AddRow(id, "Meera Iyer", "member@example.com", &phone, entity.AccountMember, true, at, at))

	p, err := repo.FindByEmail(context.Background(), "member@example.com")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, p.ID)
	assert.True(t, p.IsMember())
	require.NotNil(t, p.Phone)
	assert.Equal(t, phone, *p.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassengerRepository_FindByEmailMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassengerRepository(mock, zap.NewNop())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	p, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassengerRepository_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassengerRepository(mock, zap.NewNop())
	p := &entity.Passenger{
		Base:        entity.Base{ID: uuid.New()},
		FullName:    "Asha Rao",
		Email:       "taken@example.com",
		AccountType: entity.AccountGuest,
	}
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "passengers_email_key"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO passengers")).
		WithArgs(p.ID, p.FullName, p.Email, p.Phone, p.AccountType, p.Registered, p.CreatedAt, p.UpdatedAt).
		WillReturnError(dup)
	err = repo.Create(context.Background(), p)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE passengers")).
		WithArgs(p.ID, p.FullName, p.Email, p.Phone, p.UpdatedAt).
		WillReturnError(dup)
	err = repo.Update(context.Background(), p)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassengerRepository_UpdateMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPassengerRepository(mock, zap.NewNop())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE passengers")).
		WithArgs(anyArgs(5)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Update(context.Background(), &entity.Passenger{Base: entity.Base{ID: uuid.New()}})
	assert.ErrorContains(t, err, "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SharedTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, zap.NewNop())
	run := &entity.VehicleRun{Base: entity.Base{ID: uuid.New()}, Versioned: entity.Versioned{Version: 1}, AvailableSeats: 3}
	res := sampleReservation()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vehicle_runs")).
		WithArgs(run.ID, 3, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations")).
		WithArgs(updateArgs(res)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err = repo.Tx.WithTx(context.Background(), func(ctx context.Context) error {
		if err := repo.VehicleRun.UpdateSeats(ctx, run); err != nil {
			return err
		}
		return repo.Reservation.Update(ctx, res)
	})

	assert.True(t, errors.Is(err, ErrModifiedConcurrently))
	assert.NoError(t, mock.ExpectationsWereMet())
}
