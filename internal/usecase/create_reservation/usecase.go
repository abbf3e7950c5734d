package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	accountRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/account"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/mailer"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/clients"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	accountRepo     AccountRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	clientService   ClientService
	mailer          Mailer
	txManager       TransactionManager
	metrics         MetricsCollector
	defaultLocation *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	accountRepo AccountRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	clientService ClientService,
	mailer Mailer,
	txManager TransactionManager,
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
		clientService:   clientService,
		mailer:          mailer,
		txManager:       txManager,
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

// committed результат транзакции бронирования
type committed struct {
	reservation  *domain.Reservation
	professional *domain.Professional
	client       *domain.Client
}

// Execute выполняет use case создания бронирования.
//
// Проверка слота и вставка выполняются в одной SERIALIZABLE транзакции, которая
// блокирует строку специалиста. Поверх этого exclusion constraint в БД не даёт
// сохранить пересекающиеся бронирования одного специалиста. Проигравший гонку
// получает ErrSlotUnavailable.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: account=%s, professional=%s, service=%s, date=%s, time=%s",
		req.AccountID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	contact := clients.Normalize(req.Client)
	if err := uc.clientService.Validate(contact); err != nil {
		uc.logger.Warn("CreateReservation: invalid client info: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidClientInfo, err)
	}
	notes := normalizeNotes(req.Notes)

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем аккаунт и услугу
	account, err := uc.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, accountRepo.ErrAccountNotFound) {
			uc.logger.Warn("CreateReservation: account id=%s not found", req.AccountID)
			return nil, ErrAccountNotFound
		}
		uc.logger.Error("CreateReservation: failed to get account id=%s: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to get account: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.AccountID != req.AccountID || !service.Active {
		uc.logger.Warn("CreateReservation: service id=%s is inactive or belongs to another account", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Переводим дату и время слота в момент времени аккаунта
	loc := account.Location(uc.defaultLocation)
	dayStart, dayEnd := availability.DayBounds(req.Date, loc)
	startAt, err := req.StartTime.On(dayStart, loc)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid start time %s: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	var result committed

	// 5. Проверяем слот и создаём бронирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем специалиста (SELECT ... FOR UPDATE)
		professional, err := uc.lockProfessional(txCtx, req)
		if err != nil {
			return err
		}

		// 5.2. Загружаем расписание дня внутри транзакции
		agenda, err := uc.loadAgenda(txCtx, req, dayStart, dayEnd, loc)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to load agenda: %v", err)
			return fmt.Errorf("%w: failed to load agenda: %w", ErrInternal, err)
		}

		// 5.3. Повторяем расчёт слота на актуальных данных
		if reason := availability.CheckSlot(agenda, req.StartTime, service.DurationMinutes, account.MinBookingHours, now); reason != nil {
			uc.logger.Warn("CreateReservation: slot %s %s is unavailable: %v",
				req.Date.Format(domain.DateFormat), req.StartTime, reason)
			return fmt.Errorf("%w: %w", ErrSlotUnavailable, reason)
		}

		// 5.4. Находим или создаём клиента
		client, err := uc.clientService.FindOrCreateByEmail(txCtx, contact)
		if err != nil {
			if errors.Is(err, clients.ErrInvalidInput) {
				return fmt.Errorf("%w: %v", ErrInvalidClientInfo, err)
			}
			uc.logger.Error("CreateReservation: failed to find or create client: %v", err)
			return fmt.Errorf("%w: failed to find or create client: %w", ErrInternal, err)
		}

		// 5.5. Сохраняем бронирование. Цена фиксируется на момент бронирования
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			AccountID:      req.AccountID,
			ServiceID:      service.ID,
			ProfessionalID: professional.ID,
			ClientID:       client.ID,
			StartTime:      startAt.UTC(),
			EndTime:        startAt.Add(service.Duration()).UTC(),
			Status:         domain.StatusPending,
			TotalAmount:    service.Price,
			Notes:          notes,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateReservation: overlapping reservation committed concurrently: %v", err)
				return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = committed{reservation: created, professional: professional, client: client}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateReservation: serialization retries exhausted: %v", err)
			err = fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		}
		if errors.Is(err, ErrSlotUnavailable) {
			uc.incReservation(outcomeSlotUnavailable)
			return nil, err
		}
		if !isBusinessError(err) && !errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateReservation: transaction failed: %v", err)
			err = fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
		return nil, err
	}

	reservation := result.reservation
	uc.incReservation(outcomeCreated)
	uc.logger.Info("CreateReservation: created reservation id=%s", reservation.ID)

	// 6. Отправляем письмо. Ошибка не отменяет бронирование
	uc.sendConfirmation(ctx, result, service, loc)

	return &Response{
		ReservationID: reservation.ID,
		ClientID:      result.client.ID,
		StartTime:     reservation.StartTime.In(loc),
		EndTime:       reservation.EndTime.In(loc),
		Status:        string(reservation.Status),
		TotalAmount:   reservation.TotalAmount,
	}, nil
}

// lockProfessional получает специалиста в транзакции и проверяет его принадлежность и услугу
func (uc *UseCase) lockProfessional(ctx context.Context, req *Request) (*domain.Professional, error) {
	professional, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateReservation: professional id=%s not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateReservation: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %w", ErrInternal, err)
	}

	if professional.AccountID != req.AccountID || !professional.Active {
		uc.logger.Warn("CreateReservation: professional id=%s is inactive or belongs to another account", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	assigned, err := uc.catalogRepo.IsProfessionalAssigned(ctx, req.ProfessionalID, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check assignment: %v", err)
		return nil, fmt.Errorf("%w: failed to check assignment: %w", ErrInternal, err)
	}
	if !assigned {
		uc.logger.Warn("CreateReservation: professional id=%s does not offer service id=%s", req.ProfessionalID, req.ServiceID)
		return nil, ErrServiceNotOffered
	}

	return professional, nil
}

// loadAgenda загружает расписание дня последовательно: запросы идут по одному соединению транзакции
func (uc *UseCase) loadAgenda(ctx context.Context, req *Request, dayStart, dayEnd time.Time, loc *time.Location) (availability.DayAgenda, error) {
	agenda := availability.DayAgenda{Date: dayStart, Location: loc}

	intervals, err := uc.scheduleRepo.ListWorkingIntervals(ctx, req.ProfessionalID, ptr.Ptr(int(dayStart.Weekday())), false)
	if err != nil {
		return agenda, fmt.Errorf("working intervals: %w", err)
	}
	agenda.Intervals = intervals

	blocks, err := uc.scheduleRepo.ListBlocks(ctx, req.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return agenda, fmt.Errorf("blocks: %w", err)
	}
	agenda.Blocks = blocks

	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationsFilter{
		AccountID:      req.AccountID,
		ProfessionalID: ptr.Ptr(req.ProfessionalID),
		From:           ptr.Ptr(dayStart),
		To:             ptr.Ptr(dayEnd),
	})
	if err != nil {
		return agenda, fmt.Errorf("reservations: %w", err)
	}
	agenda.Reservations = make([]domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		agenda.Reservations = append(agenda.Reservations, *r)
	}

	return agenda, nil
}

func (uc *UseCase) sendConfirmation(ctx context.Context, result committed, service *domain.Service, loc *time.Location) {
	if uc.mailer == nil {
		return
	}

	err := uc.mailer.SendBookingConfirmation(ctx, mailer.BookingConfirmation{
		ReservationID:    result.reservation.ID,
		ClientEmail:      result.client.Email,
		ClientName:       result.client.Name,
		ServiceName:      service.Name,
		ProfessionalName: result.professional.Name,
		StartTime:        result.reservation.StartTime.In(loc),
		EndTime:          result.reservation.EndTime.In(loc),
		TotalAmount:      result.reservation.TotalAmount,
		Notes:            result.reservation.Notes,
	})
	if err != nil {
		uc.logger.Warn("CreateReservation: failed to send confirmation for reservation id=%s: %v", result.reservation.ID, err)
		if uc.metrics != nil {
			uc.metrics.IncEmailFailure()
		}
	}
}

func (uc *UseCase) incReservation(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncReservation(outcome)
	}
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrProfessionalNotFound) ||
		errors.Is(err, ErrServiceNotOffered) ||
		errors.Is(err, ErrInvalidClientInfo) ||
		errors.Is(err, ErrSlotUnavailable)
}
