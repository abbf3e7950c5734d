package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/mailer"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/clients"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAccounts struct{ items map[uuid.UUID]*domain.Account }

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, accountRepo.ErrAccountNotFound
	}
	return a, nil
}

type fakeCatalog struct {
	services      map[uuid.UUID]*domain.Service
	professionals map[uuid.UUID]*domain.Professional
	assignments   map[[2]uuid.UUID]bool
}

func (f *fakeCatalog) GetService(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetProfessional(_ context.Context, id uuid.UUID) (*domain.Professional, error) {
	p, ok := f.professionals[id]
	if !ok {
		return nil, catalogRepo.ErrProfessionalNotFound
	}
	return p, nil
}

func (f *fakeCatalog) IsProfessionalAssigned(_ context.Context, professionalID, serviceID uuid.UUID) (bool, error) {
	return f.assignments[[2]uuid.UUID{professionalID, serviceID}], nil
}

type fakeSchedule struct {
	intervals []domain.WorkingInterval
	blocks    []domain.Block
}

func (f *fakeSchedule) ListWorkingIntervals(_ context.Context, _ uuid.UUID, _ *int, _ bool) ([]domain.WorkingInterval, error) {
	return f.intervals, nil
}

func (f *fakeSchedule) ListBlocks(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]domain.Block, error) {
	return f.blocks, nil
}

// fakeReservations хранилище в памяти; Create повторяет exclusion constraint
type fakeReservations struct {
	mu         sync.Mutex
	items      []*domain.Reservation
	hideOnList bool
	createErr  error
}

func (f *fakeReservations) List(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideOnList {
		return nil, nil
	}
	out := make([]*domain.Reservation, 0, len(f.items))
	for _, r := range f.items {
		if filter.ProfessionalID != nil && r.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if !filter.IncludeCancelled && r.IsCancelled() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservations) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.items {
		if existing.ProfessionalID == r.ProfessionalID && existing.OccupiesTime() &&
			availability.Overlaps(existing.StartTime, existing.EndTime, r.StartTime, r.EndTime) {
			return nil, fmt.Errorf("%w: overlap", reservationRepo.ErrSlotConflict)
		}
	}
	r.ID = uuid.New()
	f.items = append(f.items, r)
	return r, nil
}

func (f *fakeReservations) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeClients struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Client
}

func (f *fakeClients) Validate(info clients.ContactInfo) error {
	if !strings.Contains(info.Email, "@") || info.Name == "" {
		return fmt.Errorf("%w: bad contact", clients.ErrInvalidInput)
	}
	return nil
}

func (f *fakeClients) FindOrCreateByEmail(_ context.Context, info clients.ContactInfo) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byEmail[info.Email]; ok {
		return c, nil
	}
	c := &domain.Client{ID: uuid.New(), Email: info.Email, Name: info.Name, Phone: info.Phone}
	f.byEmail[info.Email] = c
	return c, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.BookingConfirmation
	err  error
}

func (m *fakeMailer) SendBookingConfirmation(_ context.Context, msg mailer.BookingConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// lockingTxManager сериализует транзакции мьютексом, как это делает блокировка строки специалиста
type lockingTxManager struct {
	mu  sync.Mutex
	err error
}

func (m *lockingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type countingMetrics struct {
	mu            sync.Mutex
	outcomes      map[string]int
	emailFailures int
}

func (m *countingMetrics) IncReservation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *countingMetrics) IncEmailFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailFailures++
}

var (
	accountID      = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	otherAccountID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	professionalID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	serviceID      = uuid.MustParse("44444444-4444-4444-4444-444444444444")

	// понедельник
	monday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	accounts     *fakeAccounts
	catalog      *fakeCatalog
	schedule     *fakeSchedule
	reservations *fakeReservations
	clients      *fakeClients
	mailer       *fakeMailer
	tx           *lockingTxManager
	metrics      *countingMetrics
	uc           *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		accounts: &fakeAccounts{items: map[uuid.UUID]*domain.Account{
			accountID: {ID: accountID, Name: "Салон", Timezone: "UTC"},
		}},
		catalog: &fakeCatalog{
			services: map[uuid.UUID]*domain.Service{
				serviceID: {
					ID: serviceID, AccountID: accountID, Name: "Стрижка",
					DurationMinutes: 60, Price: decimal.RequireFromString("1500.00"), Active: true,
				},
			},
			professionals: map[uuid.UUID]*domain.Professional{
				professionalID: {ID: professionalID, AccountID: accountID, Name: "Мария", Active: true},
			},
			assignments: map[[2]uuid.UUID]bool{{professionalID, serviceID}: true},
		},
		schedule: &fakeSchedule{intervals: []domain.WorkingInterval{
			{ID: uuid.New(), ProfessionalID: professionalID, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Active: true},
		}},
		reservations: &fakeReservations{},
		clients:      &fakeClients{byEmail: map[string]*domain.Client{}},
		mailer:       &fakeMailer{},
		tx:           &lockingTxManager{},
		metrics:      &countingMetrics{outcomes: map[string]int{}},
	}
	f.uc = NewUseCase(f.accounts, f.catalog, f.schedule, f.reservations, f.clients, f.mailer, f.tx, f.metrics, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func request(start string) *Request {
	return &Request{
		AccountID:      accountID,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Client:         clients.ContactInfo{Email: "  Anna@Example.com ", Name: "Анна"},
		Date:           monday,
		StartTime:      types.TimeString(start),
		Notes:          ptr.Ptr("  первый визит "),
	}
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))

	resp, err := f.uc.Execute(context.Background(), request("10:00"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ReservationID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, monday.Add(10*time.Hour), resp.StartTime)
	assert.Equal(t, monday.Add(11*time.Hour), resp.EndTime)
	assert.True(t, decimal.RequireFromString("1500").Equal(resp.TotalAmount))

	require.Equal(t, 1, f.reservations.count())
	stored := f.reservations.items[0]
	require.NotNil(t, stored.Notes)
	assert.Equal(t, "первый визит", *stored.Notes)
	assert.Equal(t, resp.ClientID, stored.ClientID)

	require.Contains(t, f.clients.byEmail, "anna@example.com")

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "anna@example.com", f.mailer.sent[0].ClientEmail)
	assert.Equal(t, "Мария", f.mailer.sent[0].ProfessionalName)
	assert.Equal(t, 1, f.metrics.outcomes[outcomeCreated])
}

func TestExecute_SlotNoLongerAvailable(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	require.NoError(t, err)

	req := request("10:00")
	req.Client.Email = "boris@example.com"
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.ErrorIs(t, err, availability.ErrOccupied)
	assert.Equal(t, 1, f.reservations.count())
	assert.Equal(t, 1, f.metrics.outcomes[outcomeSlotUnavailable])
}

func TestExecute_SlotRejections(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		start  string
		mutate func(f *fixture)
		reason error
	}{
		{name: "outside working hours", now: monday.AddDate(0, 0, -1), start: "18:00", reason: availability.ErrOutsideWorkingHours},
		{name: "not on grid", now: monday.AddDate(0, 0, -1), start: "09:30", reason: availability.ErrOutsideWorkingHours},
		{name: "past date", now: monday.AddDate(0, 0, 1), start: "10:00", reason: availability.ErrInPast},
		{name: "lead time today", now: monday.Add(9 * time.Hour), start: "10:00", reason: availability.ErrLeadTime,
			mutate: func(f *fixture) { f.accounts.items[accountID].MinBookingHours = 2 }},
		{name: "blocked", now: monday.AddDate(0, 0, -1), start: "12:00", reason: availability.ErrBlocked,
			mutate: func(f *fixture) {
				f.schedule.blocks = []domain.Block{{ProfessionalID: professionalID,
					StartTime: monday.Add(11*time.Hour + 30*time.Minute), EndTime: monday.Add(12*time.Hour + 30*time.Minute)}}
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.now)
			if tt.mutate != nil {
				tt.mutate(f)
			}

			_, err := f.uc.Execute(context.Background(), request(tt.start))
			assert.ErrorIs(t, err, ErrSlotUnavailable)
			assert.ErrorIs(t, err, tt.reason)
			assert.Zero(t, f.reservations.count())
			assert.Empty(t, f.mailer.sent)
		})
	}
}

func TestExecute_ConcurrentBookingsOfSameSlot(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := request("14:00")
			req.Client.Email = fmt.Sprintf("client%d@example.com", i)

			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotUnavailable):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.Equal(t, 1, f.reservations.count())
}

func TestExecute_ExclusionConstraintConflict(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))
	// чужая транзакция успела записать пересекающееся бронирование
	f.reservations.items = []*domain.Reservation{{
		ID: uuid.New(), ProfessionalID: professionalID,
		StartTime: monday.Add(10 * time.Hour), EndTime: monday.Add(11 * time.Hour), Status: domain.StatusConfirmed,
	}}
	f.reservations.hideOnList = true

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1, f.metrics.outcomes[outcomeSlotUnavailable])
}

func TestExecute_SerializationRetriesExhausted(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))
	f.tx.err = fmt.Errorf("%w: after 4 attempts", txmanager.ErrSerializationFailure)

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_CancelledReservationFreesSlot(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))
	f.reservations.items = []*domain.Reservation{{
		ID: uuid.New(), ProfessionalID: professionalID,
		StartTime: monday.Add(10 * time.Hour), EndTime: monday.Add(11 * time.Hour), Status: domain.StatusCancelled,
	}}

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.reservations.count())
}

func TestExecute_EmailFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))
	f.mailer.err = errors.New("smtp: connection refused")

	resp, err := f.uc.Execute(context.Background(), request("10:00"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ReservationID)
	assert.Equal(t, 1, f.metrics.emailFailures)
	assert.Equal(t, 1, f.reservations.count())
}

func TestExecute_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture, req *Request)
		wantErr error
	}{
		{
			name:    "unknown account",
			mutate:  func(_ *fixture, req *Request) { req.AccountID = uuid.New() },
			wantErr: ErrAccountNotFound,
		},
		{
			name:    "unknown service",
			mutate:  func(_ *fixture, req *Request) { req.ServiceID = uuid.New() },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "service of another account",
			mutate:  func(f *fixture, _ *Request) { f.catalog.services[serviceID].AccountID = otherAccountID },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "inactive professional",
			mutate:  func(f *fixture, _ *Request) { f.catalog.professionals[professionalID].Active = false },
			wantErr: ErrProfessionalNotFound,
		},
		{
			name:    "professional not assigned",
			mutate:  func(f *fixture, _ *Request) { f.catalog.assignments = map[[2]uuid.UUID]bool{} },
			wantErr: ErrServiceNotOffered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(monday.AddDate(0, 0, -1))
			req := request("10:00")
			tt.mutate(f, req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.reservations.count())
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -1))

	req := request("10:00")
	req.StartTime = "25:00"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = request("10:00")
	req.Notes = ptr.Ptr(strings.Repeat("а", domain.MaxNotesLength+1))
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = request("10:00")
	req.Client.Email = "not-an-email"
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidClientInfo)

	assert.Zero(t, f.reservations.count())
}

func TestExecute_RepositoryFailureIsInternal(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -3))
	f.reservations.createErr = fmt.Errorf("%w: connection reset", reservationRepo.ErrExecQuery)

	_, err := f.uc.Execute(context.Background(), request("10:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, f.metrics.outcomes[outcomeSlotUnavailable])
}
