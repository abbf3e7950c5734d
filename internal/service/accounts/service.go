package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/accounts/models"
)

// maxLeadHours верхняя граница ограничений по времени (30 дней)
const maxLeadHours = 24 * 30

// Service сервис настроек аккаунта
type Service struct {
	accountRepo AccountRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса аккаунтов
func NewService(accountRepo AccountRepository, logger Logger) *Service {
	return &Service{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// GetSettings получает политику бронирования аккаунта
func (s *Service) GetSettings(ctx context.Context, accountID uuid.UUID) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for account=%s", accountID)

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, accountRepo.ErrAccountNotFound) {
			s.logger.Warn("GetSettings: account id=%s not found", accountID)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("GetSettings: repository error for account id=%s: %v", accountID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAccount(account), nil
}

// UpdateSettings обновляет политику бронирования аккаунта.
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) UpdateSettings(ctx context.Context, accountID uuid.UUID, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for account=%s", accountID)

	if req.IsEmpty() {
		s.logger.Warn("UpdateSettings: empty update for account=%s", accountID)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	update := domain.AccountPolicyUpdate{
		MinBookingHours: req.MinBookingHours,
		MinCancelHours:  req.MinCancelHours,
	}

	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			s.logger.Warn("UpdateSettings: unknown timezone %q", tz)
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
		}
		update.Timezone = &tz
	}

	if err := validateLeadHours("minBookingHours", req.MinBookingHours); err != nil {
		s.logger.Warn("UpdateSettings: %v", err)
		return nil, err
	}
	if err := validateLeadHours("minCancelHours", req.MinCancelHours); err != nil {
		s.logger.Warn("UpdateSettings: %v", err)
		return nil, err
	}

	account, err := s.accountRepo.UpdatePolicy(ctx, accountID, update)
	if err != nil {
		if errors.Is(err, accountRepo.ErrAccountNotFound) {
			s.logger.Warn("UpdateSettings: account id=%s not found", accountID)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("UpdateSettings: repository error for account id=%s: %v", accountID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: settings updated for account=%s", accountID)
	return models.FromDomainAccount(account), nil
}

func validateLeadHours(field string, hours *float64) error {
	if hours == nil {
		return nil
	}
	if *hours < 0 || *hours > maxLeadHours {
		return fmt.Errorf("%w: %s must be between 0 and %d, got %v", ErrInvalidLeadTime, field, maxLeadHours, *hours)
	}
	return nil
}
