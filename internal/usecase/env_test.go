package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"transit-booking/internal/data/entity"
	"transit-booking/internal/dto/request"
	"transit-booking/pkg/clock"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

const (
	testTravelDate = "2026-03-10"
	testHold       = 10 * time.Minute
)

type testEnv struct {
	store   *memStore
	clock   *clock.Manual
	ids     *IdentifierGenerator
	svc     BookingService
	sweeper *ExpirySweeper
	sched   *fakeScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	clk := clock.NewManual(testNow)
	repo := store.repository()
	log := zap.NewNop()

	inventory := NewSeatInventory(repo.VehicleRun, log)
	ids := NewIdentifierGenerator(clk)
	sched := &fakeScheduler{}

	return &testEnv{
		store:   store,
		clock:   clk,
		ids:     ids,
		svc:     NewBookingService(repo, inventory, NewFareCalculator(5), ids, clk, testHold, log),
		sweeper: NewExpirySweeper(repo, inventory, clk, sched, time.Minute, log),
		sched:   sched,
	}
}

func (e *testEnv) seedRun(t *testing.T, seats int, fare string) entity.VehicleRun {
	t.Helper()

	run := entity.VehicleRun{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		Versioned:      entity.Versioned{Version: 1},
		Code:           "RUN-" + uuid.NewString()[:4],
		Origin:         "Pune",
		Destination:    "Mumbai",
		DepartureTime:  8*time.Hour + 30*time.Minute,
		ArrivalTime:    14 * time.Hour,
		Fare:           decimal.RequireFromString(fare),
		Capacity:       seats,
		AvailableSeats: seats,
	}
	e.store.addRun(run)
	return run
}

func (e *testEnv) seedPassenger(t *testing.T, email string, accountType entity.AccountType, registered bool) entity.Passenger {
	t.Helper()

	p := entity.Passenger{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		FullName:    "Seeded Passenger",
		Email:       email,
		AccountType: accountType,
		Registered:  registered,
	}
	e.store.addPassenger(p)
	return p
}

// create books seats for email and returns the new reservation id.
func (e *testEnv) create(t *testing.T, runID uuid.UUID, seats int, email string) uuid.UUID {
	t.Helper()

	preview, err := e.svc.CreateReservation(context.Background(), createRequest(runID, seats, email))
	require.NoError(t, err)
	return uuid.MustParse(preview.ID)
}

// assertInventory checks capacity == available + held seats for the run.
func (e *testEnv) assertInventory(t *testing.T, runID uuid.UUID) {
	t.Helper()

	run := e.store.run(runID)
	require.Equal(t, run.Capacity, run.AvailableSeats+e.store.heldSeats(runID),
		"run %s: capacity %d, available %d", run.Code, run.Capacity, run.AvailableSeats)
}

func createRequest(runID uuid.UUID, seats int, email string) *request.CreateReservationRequest {
	return &request.CreateReservationRequest{
		RunID: runID.String(),
		Seats: seats,
		Passenger: request.PassengerInfo{
			FullName: "Asha Rao",
			Email:    email,
		},
		TravelDate: testTravelDate,
	}
}

func editRequest(seats int, email, travelDate string) *request.EditReservationRequest {
	return &request.EditReservationRequest{
		Seats: seats,
		Passenger: request.PassengerInfo{
			FullName: "Asha Rao",
			Email:    email,
		},
		TravelDate: travelDate,
	}
}

func confirmRequest(method string) *request.ConfirmReservationRequest {
	return &request.ConfirmReservationRequest{PaymentMethod: method}
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()

	require.Error(t, err)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *usecase.Error, got %T: %v", err, err)
	require.Equal(t, kind, svcErr.Kind, "error: %v", err)
}

type fakeScheduler struct {
	mu      sync.Mutex
	specs   []string
	jobs    []func()
	started bool
	stopped bool
}

func (f *fakeScheduler) AddFunc(spec string, cmd func()) (cron.EntryID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.specs = append(f.specs, spec)
	f.jobs = append(f.jobs, cmd)
	return cron.EntryID(len(f.jobs)), nil
}

func (f *fakeScheduler) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
}

func (f *fakeScheduler) Stop() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// tick runs every scheduled job once, as cron would on a firing.
func (f *fakeScheduler) tick() {
	f.mu.Lock()
	jobs := append([]func(){}, f.jobs...)
	f.mu.Unlock()

	for _, job := range jobs {
		job()
	}
}
