package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
)

const confirmationSubject = "Подтверждение бронирования"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(
	`Здравствуйте, {{.ClientName}}!

Ваше бронирование создано и ожидает подтверждения.

Услуга: {{.ServiceName}}
Специалист: {{.ProfessionalName}}
Дата: {{.StartTime.Format "02.01.2006"}}
Время: {{.StartTime.Format "15:04"}} - {{.EndTime.Format "15:04"}}
Стоимость: {{.TotalAmount.StringFixed 2}}
{{- if .Notes}}
Комментарий: {{.Notes}}
{{- end}}

Номер бронирования: {{.ReservationID}}
`))

// Client отправляет клиентам письма о бронированиях
type Client struct {
	sender  Sender
	enabled bool
	log     Logger
}

// NewClient создает клиента рассылки. При enabled == false письма только логируются
func NewClient(sender Sender, enabled bool, log Logger) *Client {
	return &Client{
		sender:  sender,
		enabled: enabled,
		log:     log,
	}
}

// SendBookingConfirmation отправляет клиенту письмо с подтверждением бронирования
func (c *Client) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	to := strings.TrimSpace(msg.ClientEmail)
	if to == "" {
		return ErrNoRecipient
	}

	body, err := renderConfirmation(msg)
	if err != nil {
		return err
	}

	if !c.enabled || c.sender == nil {
		c.log.Info("Mailer disabled, skipping confirmation for reservation_id=%s to=%s", msg.ReservationID, to)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	if err := c.sender.Send(to, confirmationSubject, body); err != nil {
		return fmt.Errorf("%w: reservation_id=%s: %v", ErrSend, msg.ReservationID, err)
	}

	c.log.Info("Confirmation sent for reservation_id=%s", msg.ReservationID)
	return nil
}

func renderConfirmation(msg BookingConfirmation) (string, error) {
	data := struct {
		BookingConfirmation
		Notes string
	}{BookingConfirmation: msg}
	if msg.Notes != nil {
		data.Notes = *msg.Notes
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}
