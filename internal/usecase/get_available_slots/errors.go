package get_available_slots

import "errors"

var (
	// ErrAccountNotFound возвращается, когда аккаунт не найден
	ErrAccountNotFound = errors.New("account not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна или принадлежит другому аккаунту
	ErrServiceNotFound = errors.New("service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден, неактивен или принадлежит другому аккаунту
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrServiceNotOffered возвращается, когда специалист не оказывает услугу
	ErrServiceNotOffered = errors.New("professional does not offer this service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
