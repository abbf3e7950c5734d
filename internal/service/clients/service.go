package clients

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	clientRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/client"
)

// phonePattern цифры с необязательным "+" в начале, допускаются пробелы, скобки и дефисы
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{4,30}$`)

// Service сервис клиентов
type Service struct {
	clientRepo ClientRepository
	validate   *validator.Validate
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegisterValidation(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Service{
		clientRepo: clientRepo,
		validate:   v,
		logger:     logger,
	}
}

// mustRegisterValidation регистрирует правило валидации, паникует при ошибке
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("clients: register validation %q: %v", tag, err))
	}
}

// Normalize приводит контактные данные к каноническому виду: email в нижнем регистре,
// пробелы по краям убраны, пустой телефон становится nil
func Normalize(info ContactInfo) ContactInfo {
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	info.Name = strings.TrimSpace(info.Name)
	if info.Phone != nil {
		phone := strings.TrimSpace(*info.Phone)
		if phone == "" {
			info.Phone = nil
		} else {
			info.Phone = &phone
		}
	}
	return info
}

// Validate проверяет нормализованные контактные данные
func (s *Service) Validate(info ContactInfo) error {
	if err := s.validate.Struct(info); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: field %s failed on %q", ErrInvalidInput, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// FindOrCreateByEmail возвращает клиента по email, создавая его при отсутствии.
// У существующего клиента имя и телефон обновляются, только если они отличаются.
// Если клиента с тем же email параллельно создал другой запрос, он перечитывается.
//
// Вызывается внутри транзакции бронирования: репозиторий берет её из контекста.
func (s *Service) FindOrCreateByEmail(ctx context.Context, info ContactInfo) (*domain.Client, error) {
	info = Normalize(info)
	if err := s.Validate(info); err != nil {
		s.logger.Warn("FindOrCreateByEmail: invalid contact info: %v", err)
		return nil, err
	}

	existing, err := s.clientRepo.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		return s.updateIfChanged(ctx, existing, info)
	case !errors.Is(err, clientRepo.ErrClientNotFound):
		s.logger.Error("FindOrCreateByEmail: failed to get client by email: %v", err)
		return nil, fmt.Errorf("%w: FindOrCreateByEmail - get client: %w", ErrInternal, err)
	}

	created, err := s.clientRepo.Create(ctx, &domain.Client{
		Email: info.Email,
		Name:  info.Name,
		Phone: info.Phone,
	})
	if err == nil {
		s.logger.Info("FindOrCreateByEmail: created client id=%s", created.ID)
		return created, nil
	}
	if !errors.Is(err, clientRepo.ErrDuplicateEmail) {
		s.logger.Error("FindOrCreateByEmail: failed to create client: %v", err)
		return nil, fmt.Errorf("%w: FindOrCreateByEmail - create client: %w", ErrInternal, err)
	}

	s.logger.Info("FindOrCreateByEmail: client was created concurrently, re-reading")
	existing, err = s.clientRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		s.logger.Error("FindOrCreateByEmail: failed to re-read client: %v", err)
		return nil, fmt.Errorf("%w: FindOrCreateByEmail - re-read client: %w", ErrInternal, err)
	}

	return s.updateIfChanged(ctx, existing, info)
}

func (s *Service) updateIfChanged(ctx context.Context, client *domain.Client, info ContactInfo) (*domain.Client, error) {
	if client.Name == info.Name && equalPhones(client.Phone, info.Phone) {
		return client, nil
	}

	if err := s.clientRepo.UpdateContact(ctx, client.ID, info.Name, info.Phone); err != nil {
		s.logger.Error("FindOrCreateByEmail: failed to update client id=%s: %v", client.ID, err)
		return nil, fmt.Errorf("%w: FindOrCreateByEmail - update client: %w", ErrInternal, err)
	}

	s.logger.Info("FindOrCreateByEmail: updated contact info for client id=%s", client.ID)
	client.Name = info.Name
	client.Phone = info.Phone
	return client, nil
}

func equalPhones(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
