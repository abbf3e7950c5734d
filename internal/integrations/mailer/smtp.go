package mailer

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPSender отправляет письма через SMTP relay.
// Без имени пользователя авторизация не выполняется (Mailpit, локальные relay).
type SMTPSender struct {
	host      string
	addr      string
	from      string
	auth      smtp.Auth
	tlsConfig *tls.Config
	timeout   time.Duration
}

// NewSMTPSender создает отправителя. timeout ограничивает установку соединения
// и весь SMTP диалог
func NewSMTPSender(host string, port int, username, password, from string, timeout time.Duration) *SMTPSender {
	host = strings.TrimSpace(host)
	s := &SMTPSender{
		host:      host,
		addr:      net.JoinHostPort(host, strconv.Itoa(port)),
		from:      strings.TrimSpace(from),
		tlsConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		timeout:   timeout,
	}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

// Send отправляет текстовое письмо одному получателю
func (s *SMTPSender) Send(to string, subject string, body string) error {
	conn, err := net.DialTimeout("tcp", s.addr, s.timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	if s.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.timeout))
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(s.tlsConfig.Clone()); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.auth != nil {
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(s.from, to, subject, body))); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return c.Quit()
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Transfer-Encoding: 8bit\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		body,
	)
}
