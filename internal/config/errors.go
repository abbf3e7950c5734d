package config

import "errors"

var (
	// ErrReadConfig не удалось прочитать или разобрать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig конфигурация содержит недопустимые значения
	ErrInvalidConfig = errors.New("config: invalid config")
)
