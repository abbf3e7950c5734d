package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями аккаунта
type Service struct {
	reservationRepo ReservationRepository
	accountRepo     AccountRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	accountRepo AccountRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		accountRepo:     accountRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование аккаунта по ID
func (s *Service) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%s for account=%s", id, accountID)

	reservation, err := s.reservationRepo.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(reservation), nil
}

// List получает бронирования аккаунта с фильтрацией по специалисту, периоду и статусу.
// Отменённые бронирования возвращаются только при IncludeCancelled или явном status=cancelled
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("List: fetching reservations for account=%s", req.AccountID)

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("List: invalid period from=%s to=%s", req.From, req.To)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter := domain.ReservationsFilter{
		AccountID:        req.AccountID,
		ProfessionalID:   req.ProfessionalID,
		From:             req.From,
		To:               req.To,
		IncludeCancelled: req.IncludeCancelled,
	}

	if req.Status != nil {
		status, ok := domain.ParseReservationStatus(*req.Status)
		if !ok {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for account=%s: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d reservations for account=%s", len(list), req.AccountID)
	return models.FromDomainReservationList(list), nil
}

// Cancel отменяет бронирование. Отменённое бронирование освобождает время специалиста.
// Отмена клиентом запрещена позже, чем за min_cancel_hours до начала.
func (s *Service) Cancel(ctx context.Context, accountID, id uuid.UUID, req *models.CancelReservationRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%s for account=%s, by_client=%t", id, accountID, req.ByClient)

	reason, err := normalizeReason(req.Reason)
	if err != nil {
		s.logger.Warn("Cancel: invalid reason: %v", err)
		return nil, err
	}

	var result *domain.Reservation

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Внутри транзакции строка бронирования блокируется (FOR UPDATE)
		reservation, err := s.getForUpdate(txCtx, accountID, id, "Cancel")
		if err != nil {
			return err
		}

		if !reservation.CanBeCancelled() {
			s.logger.Warn("Cancel: reservation id=%s cannot be cancelled, status=%s", id, reservation.Status)
			return ErrCannotCancel
		}

		if req.ByClient {
			account, err := s.accountRepo.GetByID(txCtx, accountID)
			if err != nil {
				if errors.Is(err, accountRepo.ErrAccountNotFound) {
					return ErrAccountNotFound
				}
				s.logger.Error("Cancel: failed to get account=%s: %v", accountID, err)
				return fmt.Errorf("%w: Cancel - get account: %v", ErrInternal, err)
			}

			deadline := reservation.StartTime.Add(-account.MinCancelLead())
			if s.timeProvider.Now().After(deadline) {
				s.logger.Warn("Cancel: reservation id=%s cancellation deadline %s passed", id, deadline)
				return ErrCancellationTooLate
			}
		}

		if err := s.reservationRepo.Cancel(txCtx, accountID, id, reason); err != nil {
			s.logger.Error("Cancel: repository error for reservation id=%s: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		reservation.Status = domain.StatusCancelled
		reservation.CancellationReason = reason
		now := s.timeProvider.Now()
		reservation.CancelledAt = &now
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: reservation id=%s cancelled", id)
	return models.FromDomainReservation(result), nil
}

// UpdateStatus меняет статус бронирования по допустимым переходам:
// pending -> confirmed|cancelled, confirmed -> completed|cancelled
func (s *Service) UpdateStatus(ctx context.Context, accountID, id uuid.UUID, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateStatus: reservation id=%s for account=%s -> %s", id, accountID, req.Status)

	next, ok := domain.ParseReservationStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, ErrInvalidStatus
	}

	var result *domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservation, err := s.getForUpdate(txCtx, accountID, id, "UpdateStatus")
		if err != nil {
			return err
		}

		if !reservation.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for reservation id=%s",
				reservation.Status, next, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, next)
		}

		if next == domain.StatusCancelled {
			err = s.reservationRepo.Cancel(txCtx, accountID, id, nil)
		} else {
			err = s.reservationRepo.UpdateStatus(txCtx, accountID, id, next)
		}
		if err != nil {
			s.logger.Error("UpdateStatus: repository error for reservation id=%s: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		reservation.Status = next
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: reservation id=%s is now %s", id, next)
	return models.FromDomainReservation(result), nil
}

func (s *Service) getForUpdate(ctx context.Context, accountID, id uuid.UUID, op string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%s not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return reservation, nil
}

func normalizeReason(reason *string) (*string, error) {
	if reason == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return &trimmed, nil
}
