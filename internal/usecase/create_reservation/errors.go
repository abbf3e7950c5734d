package create_reservation

import "errors"

var (
	// ErrAccountNotFound возвращается, когда аккаунт не найден
	ErrAccountNotFound = errors.New("create_reservation: account not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна или принадлежит другому аккаунту
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден, неактивен или принадлежит другому аккаунту
	ErrProfessionalNotFound = errors.New("create_reservation: professional not found")

	// ErrServiceNotOffered возвращается, когда специалист не оказывает услугу
	ErrServiceNotOffered = errors.New("create_reservation: professional does not offer this service")

	// ErrSlotUnavailable возвращается, когда выбранное время уже недоступно.
	// Клиенту нужно выбрать другой слот.
	ErrSlotUnavailable = errors.New("create_reservation: slot is no longer available")

	// ErrInvalidClientInfo возвращается при некорректных контактных данных клиента
	ErrInvalidClientInfo = errors.New("create_reservation: invalid client contact info")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// Исходы бронирования для метрик
const (
	outcomeCreated         = "created"
	outcomeSlotUnavailable = "slot_unavailable"
)
