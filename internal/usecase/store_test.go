package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"transit-booking/internal/data/entity"
	"transit-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for Postgres. Transactions are
// serialized and roll back by restoring a snapshot; version checks behave
// like the SQL repositories.
type memStore struct {
	txMu sync.Mutex

	mu           sync.Mutex
	reservations map[uuid.UUID]entity.Reservation
	runs         map[uuid.UUID]entity.VehicleRun
	passengers   map[uuid.UUID]entity.Passenger
	audit        []entity.AuditEntry

	// afterFindLive runs once the live list is read, before any expiry write.
	afterFindLive func()
	// beforeReservationUpdate runs inside Update before the version check.
	beforeReservationUpdate func(res *entity.Reservation)
	// beforePassengerCreate runs inside Create before the email check.
	beforePassengerCreate func(p *entity.Passenger)
}

type inTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		reservations: make(map[uuid.UUID]entity.Reservation),
		runs:         make(map[uuid.UUID]entity.VehicleRun),
		passengers:   make(map[uuid.UUID]entity.Passenger),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Tx:          s,
		Reservation: &memReservations{s},
		VehicleRun:  &memRuns{s},
		Passenger:   &memPassengers{s},
		Audit:       &memAudit{s},
	}
}

func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	reservations map[uuid.UUID]entity.Reservation
	runs         map[uuid.UUID]entity.VehicleRun
	passengers   map[uuid.UUID]entity.Passenger
	audit        []entity.AuditEntry
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		reservations: make(map[uuid.UUID]entity.Reservation, len(s.reservations)),
		runs:         make(map[uuid.UUID]entity.VehicleRun, len(s.runs)),
		passengers:   make(map[uuid.UUID]entity.Passenger, len(s.passengers)),
		audit:        append([]entity.AuditEntry(nil), s.audit...),
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	for k, v := range s.runs {
		snap.runs[k] = v
	}
	for k, v := range s.passengers {
		snap.passengers[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reservations = snap.reservations
	s.runs = snap.runs
	s.passengers = snap.passengers
	s.audit = snap.audit
}

func (s *memStore) addRun(run entity.VehicleRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *memStore) addPassenger(p entity.Passenger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passengers[p.ID] = p
}

func (s *memStore) addReservation(r entity.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ID] = r
}

func (s *memStore) run(id uuid.UUID) entity.VehicleRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

func (s *memStore) reservation(id uuid.UUID) entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

func (s *memStore) auditFor(id uuid.UUID) []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.AuditEntry
	for _, e := range s.audit {
		if e.ReservationID == id {
			out = append(out, e)
		}
	}
	return out
}

// heldSeats sums seats of reservations that still count against runID.
func (s *memStore) heldSeats(runID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, r := range s.reservations {
		if r.RunID == runID && r.Status.HoldsSeats() {
			total += r.SeatsBooked
		}
	}
	return total
}

type memReservations struct{ s *memStore }

func (m *memReservations) Create(_ context.Context, res *entity.Reservation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.reservations[res.ID]; ok {
		return fmt.Errorf("reservation %s exists", res.ID)
	}
	res.Version = 1
	m.s.reservations[res.ID] = *res
	return nil
}

func (m *memReservations) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	res, ok := m.s.reservations[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (m *memReservations) Update(_ context.Context, res *entity.Reservation) error {
	if hook := m.s.beforeReservationUpdate; hook != nil {
		hook(res)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.reservations[res.ID]
	if !ok || stored.Version != res.Version {
		return fmt.Errorf("update reservation %s: %w", res.ID, repository.ErrModifiedConcurrently)
	}
	for id, other := range m.s.reservations {
		if id == res.ID {
			continue
		}
		if sameID(other.TicketID, res.TicketID) || sameID(other.TransactionID, res.TransactionID) {
			return fmt.Errorf("update reservation %s: %w", res.ID, repository.ErrDuplicateIdentifier)
		}
	}

	res.Version++
	m.s.reservations[res.ID] = *res
	return nil
}

func (m *memReservations) FindLive(_ context.Context) ([]*entity.Reservation, error) {
	m.s.mu.Lock()
	var live []*entity.Reservation
	for _, r := range m.s.reservations {
		if r.Status == entity.StatusPending || r.Status == entity.StatusProcessing {
			r := r
			live = append(live, &r)
		}
	}
	m.s.mu.Unlock()

	if hook := m.s.afterFindLive; hook != nil {
		hook()
	}
	return live, nil
}

func (m *memReservations) IdentifierExists(_ context.Context, ticketID, transactionID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, r := range m.s.reservations {
		if sameID(r.TicketID, &ticketID) || sameID(r.TransactionID, &transactionID) {
			return true, nil
		}
	}
	return false, nil
}

func sameID(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

type memRuns struct{ s *memStore }

func (m *memRuns) FindByID(_ context.Context, id uuid.UUID) (*entity.VehicleRun, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	run, ok := m.s.runs[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (m *memRuns) UpdateSeats(_ context.Context, run *entity.VehicleRun) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.runs[run.ID]
	if !ok || stored.Version != run.Version {
		return fmt.Errorf("update seats of vehicle run %s: %w", run.ID, repository.ErrModifiedConcurrently)
	}
	if run.AvailableSeats < 0 || run.AvailableSeats > stored.Capacity {
		return fmt.Errorf("available seats %d out of range for run %s", run.AvailableSeats, run.ID)
	}

	stored.AvailableSeats = run.AvailableSeats
	stored.Version++
	m.s.runs[run.ID] = stored
	run.Version++
	return nil
}

type memPassengers struct{ s *memStore }

func (m *memPassengers) Create(_ context.Context, p *entity.Passenger) error {
	if hook := m.s.beforePassengerCreate; hook != nil {
		hook(p)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, other := range m.s.passengers {
		if strings.EqualFold(other.Email, p.Email) {
			return fmt.Errorf("create passenger %s: %w", p.Email, repository.ErrDuplicateEmail)
		}
	}
	m.s.passengers[p.ID] = *p
	return nil
}

func (m *memPassengers) FindByID(_ context.Context, id uuid.UUID) (*entity.Passenger, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	p, ok := m.s.passengers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPassengers) FindByEmail(_ context.Context, email string) (*entity.Passenger, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, p := range m.s.passengers {
		if strings.EqualFold(p.Email, email) {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memPassengers) Update(_ context.Context, p *entity.Passenger) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.passengers[p.ID]; !ok {
		return fmt.Errorf("passenger %s not found", p.ID)
	}
	for id, other := range m.s.passengers {
		if id != p.ID && strings.EqualFold(other.Email, p.Email) {
			return fmt.Errorf("update passenger %s: %w", p.ID, repository.ErrDuplicateEmail)
		}
	}
	m.s.passengers[p.ID] = *p
	return nil
}

type memAudit struct{ s *memStore }

func (m *memAudit) Record(_ context.Context, e *entity.AuditEntry) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e.ID = int64(len(m.s.audit) + 1)
	m.s.audit = append(m.s.audit, *e)
	return nil
}

func (m *memAudit) FindByReservationID(_ context.Context, id uuid.UUID) ([]*entity.AuditEntry, error) {
	var out []*entity.AuditEntry
	for _, e := range m.s.auditFor(id) {
		e := e
		out = append(out, &e)
	}
	return out, nil
}
