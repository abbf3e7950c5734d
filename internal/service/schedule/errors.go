package schedule

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда специалист не найден в аккаунте
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrIntervalNotFound возвращается, когда рабочий интервал не найден
	ErrIntervalNotFound = errors.New("working interval not found")

	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("block not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeRange возвращается, когда начало не раньше конца
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
