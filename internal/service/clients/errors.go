package clients

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных контактных данных
	ErrInvalidInput = errors.New("invalid client contact info")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("clients service: internal error")
)
