package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

// UseCase use case для получения доступных слотов специалиста на дату
type UseCase struct {
	accountRepo     AccountRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	metrics         MetricsCollector
	defaultLocation *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// defaultLocation используется для аккаунтов без настроенного часового пояса
func NewUseCase(
	accountRepo AccountRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	metrics MetricsCollector,
	defaultLocation *time.Location,
	logger Logger,
) *UseCase {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &UseCase{
		accountRepo:     accountRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		metrics:         metrics,
		defaultLocation: defaultLocation,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов.
// Слоты пересчитываются на каждый запрос, кеш не используется: результат отражает
// бронирования и блокировки на момент вызова.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: account=%s, professional=%s, service=%s, date=%s",
		req.AccountID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем аккаунт: часовой пояс и минимальное время до записи
	account, err := uc.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, accountRepo.ErrAccountNotFound) {
			uc.logger.Warn("GetAvailableSlots: account id=%s not found", req.AccountID)
			return nil, ErrAccountNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get account id=%s: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to get account: %v", ErrInternal, err)
	}

	// 4. Проверяем услугу и специалиста
	service, err := uc.getService(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProfessional(ctx, req); err != nil {
		return nil, err
	}

	// 5. Загружаем расписание дня одной пачкой
	loc := account.Location(uc.defaultLocation)
	agenda, err := uc.loadAgenda(ctx, req, loc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load agenda: %v", err)
		return nil, fmt.Errorf("%w: failed to load agenda: %v", ErrInternal, err)
	}

	// 6. Считаем слоты
	result := availability.ComputeSlots(agenda, service.DurationMinutes, account.MinBookingHours, now)

	for _, skipped := range result.Skipped {
		uc.logger.Warn("GetAvailableSlots: skipping malformed working interval id=%s (%s-%s): %v",
			skipped.Interval.ID, skipped.Interval.StartTime, skipped.Interval.EndTime, skipped.Err)
	}
	if len(result.Skipped) > 0 && uc.metrics != nil {
		uc.metrics.AddSkippedScheduleRows(len(result.Skipped))
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for professional=%s, service=%s, date=%s",
		len(result.Slots), req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            availability.DayStart(req.Date, loc),
		Timezone:        loc.String(),
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           result.Slots,
	}, nil
}

// getService получает услугу и проверяет, что она активна и принадлежит аккаунту
func (uc *UseCase) getService(ctx context.Context, req *Request) (*domain.Service, error) {
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.AccountID != req.AccountID || !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%s is inactive or belongs to another account", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	return service, nil
}

// checkProfessional проверяет, что специалист активен, из того же аккаунта и оказывает услугу
func (uc *UseCase) checkProfessional(ctx context.Context, req *Request) error {
	professional, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%s not found", req.ProfessionalID)
			return ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if professional.AccountID != req.AccountID || !professional.Active {
		uc.logger.Warn("GetAvailableSlots: professional id=%s is inactive or belongs to another account", req.ProfessionalID)
		return ErrProfessionalNotFound
	}

	assigned, err := uc.catalogRepo.IsProfessionalAssigned(ctx, req.ProfessionalID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check assignment: %v", err)
		return fmt.Errorf("%w: failed to check assignment: %v", ErrInternal, err)
	}
	if !assigned {
		uc.logger.Warn("GetAvailableSlots: professional id=%s does not offer service id=%s", req.ProfessionalID, req.ServiceID)
		return ErrServiceNotOffered
	}

	return nil
}

// loadAgenda параллельно загружает рабочие интервалы, блокировки и бронирования на день
func (uc *UseCase) loadAgenda(ctx context.Context, req *Request, loc *time.Location) (availability.DayAgenda, error) {
	dayStart, dayEnd := availability.DayBounds(req.Date, loc)
	weekday := int(dayStart.Weekday())

	agenda := availability.DayAgenda{
		Date:     dayStart,
		Location: loc,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		intervals, err := uc.scheduleRepo.ListWorkingIntervals(gctx, req.ProfessionalID, ptr.Ptr(weekday), false)
		if err != nil {
			return fmt.Errorf("working intervals: %w", err)
		}
		agenda.Intervals = intervals
		return nil
	})

	g.Go(func() error {
		blocks, err := uc.scheduleRepo.ListBlocks(gctx, req.ProfessionalID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("blocks: %w", err)
		}
		agenda.Blocks = blocks
		return nil
	})

	g.Go(func() error {
		reservations, err := uc.reservationRepo.List(gctx, domain.ReservationsFilter{
			AccountID:      req.AccountID,
			ProfessionalID: ptr.Ptr(req.ProfessionalID),
			From:           ptr.Ptr(dayStart),
			To:             ptr.Ptr(dayEnd),
		})
		if err != nil {
			return fmt.Errorf("reservations: %w", err)
		}
		agenda.Reservations = make([]domain.Reservation, 0, len(reservations))
		for _, r := range reservations {
			agenda.Reservations = append(agenda.Reservations, *r)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return availability.DayAgenda{}, err
	}

	return agenda, nil
}
