package accounts

import "errors"

var (
	// ErrAccountNotFound возвращается, когда аккаунт не найден
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidTimezone возвращается при неизвестном часовом поясе
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidLeadTime возвращается при недопустимом ограничении по времени
	ErrInvalidLeadTime = errors.New("invalid lead time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("accounts service: internal error")
)
