package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Service сервис для управления рабочим расписанием и блокировками специалистов
type Service struct {
	scheduleRepo     ScheduleRepository
	professionalRepo ProfessionalRepository
	validate         *validator.Validate
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	professionalRepo ProfessionalRepository,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:     scheduleRepo,
		professionalRepo: professionalRepo,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		logger:           logger,
	}
}

// ListWorkingIntervals получает все рабочие интервалы специалиста, включая неактивные
func (s *Service) ListWorkingIntervals(ctx context.Context, accountID, professionalID uuid.UUID) (*models.WorkingIntervalListResponse, error) {
	s.logger.Info("ListWorkingIntervals: professional=%s account=%s", professionalID, accountID)

	if err := s.checkProfessional(ctx, accountID, professionalID, "ListWorkingIntervals"); err != nil {
		return nil, err
	}

	intervals, err := s.scheduleRepo.ListWorkingIntervals(ctx, professionalID, nil, true)
	if err != nil {
		s.logger.Error("ListWorkingIntervals: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListWorkingIntervals - repository error: %v", ErrInternal, err)
	}

	resp := &models.WorkingIntervalListResponse{Intervals: make([]models.WorkingIntervalResponse, 0, len(intervals))}
	for i := range intervals {
		resp.Intervals = append(resp.Intervals, models.FromDomainWorkingInterval(&intervals[i]))
	}
	return resp, nil
}

// CreateWorkingInterval создает рабочий интервал.
// День недели 0..6, время в формате HH:MM, начало строго раньше конца.
// Интервалы одного дня могут идти с перерывом (несколько смен в день).
func (s *Service) CreateWorkingInterval(ctx context.Context, accountID, professionalID uuid.UUID, req *models.CreateWorkingIntervalRequest) (*models.WorkingIntervalResponse, error) {
	s.logger.Info("CreateWorkingInterval: professional=%s account=%s", professionalID, accountID)

	if err := s.validateStruct(req); err != nil {
		s.logger.Warn("CreateWorkingInterval: validation failed: %v", err)
		return nil, err
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	interval := &domain.WorkingInterval{
		ProfessionalID: professionalID,
		DayOfWeek:      *req.DayOfWeek,
		StartTime:      start,
		EndTime:        end,
		Active:         req.Active == nil || *req.Active,
	}
	if _, _, err := interval.Bounds(); err != nil {
		s.logger.Warn("CreateWorkingInterval: start=%s is not before end=%s", start, end)
		return nil, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, start, end)
	}

	if err := s.checkProfessional(ctx, accountID, professionalID, "CreateWorkingInterval"); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.CreateWorkingInterval(ctx, interval)
	if err != nil {
		s.logger.Error("CreateWorkingInterval: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateWorkingInterval - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateWorkingInterval: created interval id=%s day=%d %s-%s",
		created.ID, created.DayOfWeek, created.StartTime, created.EndTime)
	resp := models.FromDomainWorkingInterval(created)
	return &resp, nil
}

// DeleteWorkingInterval удаляет рабочий интервал специалиста
func (s *Service) DeleteWorkingInterval(ctx context.Context, accountID, professionalID, intervalID uuid.UUID) error {
	s.logger.Info("DeleteWorkingInterval: interval=%s professional=%s", intervalID, professionalID)

	if err := s.checkProfessional(ctx, accountID, professionalID, "DeleteWorkingInterval"); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteWorkingInterval(ctx, professionalID, intervalID); err != nil {
		if errors.Is(err, scheduleRepo.ErrIntervalNotFound) {
			s.logger.Warn("DeleteWorkingInterval: interval id=%s not found", intervalID)
			return ErrIntervalNotFound
		}
		s.logger.Error("DeleteWorkingInterval: repository error: %v", err)
		return fmt.Errorf("%w: DeleteWorkingInterval - repository error: %v", ErrInternal, err)
	}

	return nil
}

// ListBlocks получает блокировки специалиста, пересекающиеся с периодом [from, to)
func (s *Service) ListBlocks(ctx context.Context, accountID, professionalID uuid.UUID, from, to time.Time) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: professional=%s from=%s to=%s", professionalID, from.Format(time.RFC3339), to.Format(time.RFC3339))

	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidTimeRange)
	}

	if err := s.checkProfessional(ctx, accountID, professionalID, "ListBlocks"); err != nil {
		return nil, err
	}

	blocks, err := s.scheduleRepo.ListBlocks(ctx, professionalID, from, to)
	if err != nil {
		s.logger.Error("ListBlocks: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	resp := &models.BlockListResponse{Blocks: make([]models.BlockResponse, 0, len(blocks))}
	for i := range blocks {
		resp.Blocks = append(resp.Blocks, models.FromDomainBlock(&blocks[i]))
	}
	return resp, nil
}

// CreateBlock создает блокировку времени (отпуск, больничный). Блокировка может занимать несколько дней.
func (s *Service) CreateBlock(ctx context.Context, accountID, professionalID uuid.UUID, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: professional=%s account=%s", professionalID, accountID)

	if err := s.validateStruct(req); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}
	if !req.StartTime.Before(req.EndTime) {
		s.logger.Warn("CreateBlock: start=%s is not before end=%s", req.StartTime, req.EndTime)
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidTimeRange)
	}

	if err := s.checkProfessional(ctx, accountID, professionalID, "CreateBlock"); err != nil {
		return nil, err
	}

	var reason *string
	if req.Reason != nil {
		if trimmed := strings.TrimSpace(*req.Reason); trimmed != "" {
			reason = &trimmed
		}
	}

	created, err := s.scheduleRepo.CreateBlock(ctx, &domain.Block{
		ProfessionalID: professionalID,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
		Reason:         reason,
	})
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: created block id=%s", created.ID)
	resp := models.FromDomainBlock(created)
	return &resp, nil
}

// DeleteBlock удаляет блокировку специалиста
func (s *Service) DeleteBlock(ctx context.Context, accountID, professionalID, blockID uuid.UUID) error {
	s.logger.Info("DeleteBlock: block=%s professional=%s", blockID, professionalID)

	if err := s.checkProfessional(ctx, accountID, professionalID, "DeleteBlock"); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteBlock(ctx, professionalID, blockID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlock: block id=%s not found", blockID)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBlock - repository error: %v", ErrInternal, err)
	}

	return nil
}

// checkProfessional проверяет, что специалист существует и принадлежит аккаунту.
// Чужой специалист неотличим от несуществующего.
func (s *Service) checkProfessional(ctx context.Context, accountID, professionalID uuid.UUID, op string) error {
	professional, err := s.professionalRepo.GetProfessional(ctx, professionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			s.logger.Warn("%s: professional id=%s not found", op, professionalID)
			return ErrProfessionalNotFound
		}
		s.logger.Error("%s: failed to get professional id=%s: %v", op, professionalID, err)
		return fmt.Errorf("%w: %s - get professional: %v", ErrInternal, op, err)
	}

	if professional.AccountID != accountID {
		s.logger.Warn("%s: professional id=%s belongs to another account", op, professionalID)
		return ErrProfessionalNotFound
	}

	return nil
}

func (s *Service) validateStruct(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: field %s failed on %q", ErrInvalidInput, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
