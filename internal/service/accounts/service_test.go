package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeAccounts struct {
	account *domain.Account
	updates int
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	if f.account == nil || f.account.ID != id {
		return nil, accountRepo.ErrAccountNotFound
	}
	cp := *f.account
	return &cp, nil
}

func (f *fakeAccounts) UpdatePolicy(ctx context.Context, id uuid.UUID, u domain.AccountPolicyUpdate) (*domain.Account, error) {
	if f.account == nil || f.account.ID != id {
		return nil, accountRepo.ErrAccountNotFound
	}
	f.updates++
	if u.Timezone != nil {
		f.account.Timezone = *u.Timezone
	}
	if u.MinBookingHours != nil {
		f.account.MinBookingHours = *u.MinBookingHours
	}
	if u.MinCancelHours != nil {
		f.account.MinCancelHours = *u.MinCancelHours
	}
	return f.GetByID(ctx, id)
}

func newTestService() (*Service, *fakeAccounts, uuid.UUID) {
	id := uuid.New()
	repo := &fakeAccounts{account: &domain.Account{ID: id, Name: "Салон", Timezone: "UTC", MinBookingHours: 2, MinCancelHours: 24}}
	return NewService(repo, nopLogger{}), repo, id
}

func TestGetSettings(t *testing.T) {
	svc, _, id := newTestService()

	resp, err := svc.GetSettings(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.InDelta(t, 2, resp.MinBookingHours, 1e-9)

	_, err = svc.GetSettings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdateSettings_Partial(t *testing.T) {
	svc, repo, id := newTestService()

	resp, err := svc.UpdateSettings(context.Background(), id, &models.UpdateSettingsRequest{
		Timezone:        ptr.Ptr(" Europe/Moscow "),
		MinBookingHours: ptr.Ptr(1.5),
	})
	require.NoError(t, err)

	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	assert.InDelta(t, 1.5, resp.MinBookingHours, 1e-9)
	assert.InDelta(t, 24, resp.MinCancelHours, 1e-9)
	assert.Equal(t, 1, repo.updates)
}

func TestUpdateSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		req     models.UpdateSettingsRequest
		wantErr error
	}{
		{name: "empty", req: models.UpdateSettingsRequest{}, wantErr: ErrInvalidInput},
		{name: "unknown timezone", req: models.UpdateSettingsRequest{Timezone: ptr.Ptr("Mars/Olympus")}, wantErr: ErrInvalidTimezone},
		{name: "blank timezone", req: models.UpdateSettingsRequest{Timezone: ptr.Ptr("  ")}, wantErr: ErrInvalidTimezone},
		{name: "negative booking lead", req: models.UpdateSettingsRequest{MinBookingHours: ptr.Ptr(-1.0)}, wantErr: ErrInvalidLeadTime},
		{name: "cancel lead too large", req: models.UpdateSettingsRequest{MinCancelHours: ptr.Ptr(10000.0)}, wantErr: ErrInvalidLeadTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, id := newTestService()
			_, err := svc.UpdateSettings(context.Background(), id, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, repo.updates)
		})
	}
}

func TestUpdateSettings_AccountNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateSettings(context.Background(), uuid.New(), &models.UpdateSettingsRequest{MinCancelHours: ptr.Ptr(1.0)})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
