package mailer

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sender транспорт доставки письма
type Sender interface {
	Send(to string, subject string, body string) error
}
