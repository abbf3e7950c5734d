package mailer

import "errors"

var (
	// ErrRender возвращается, когда не удалось сформировать текст письма
	ErrRender = errors.New("mailer: failed to render message")

	// ErrSend возвращается, когда SMTP сервер не принял письмо
	ErrSend = errors.New("mailer: failed to send message")

	// ErrNoRecipient возвращается, когда у клиента нет email
	ErrNoRecipient = errors.New("mailer: recipient email is empty")
)
