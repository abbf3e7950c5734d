package mailer

import (
	"context"
	"errors"
	"mime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.calls++
	s.to, s.subject, s.body = to, subject, body
	return s.err
}

func confirmation() BookingConfirmation {
	notes := "Первый визит"
	start := time.Date(2030, 1, 7, 14, 0, 0, 0, time.UTC)
	return BookingConfirmation{
		ReservationID:    uuid.MustParse("7f1c3d1e-3c44-4d6c-9d55-0d8f6f5e8a10"),
		ClientEmail:      "anna@example.com",
		ClientName:       "Анна",
		ServiceName:      "Стрижка",
		ProfessionalName: "Мария",
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		TotalAmount:      decimal.RequireFromString("1500"),
		Notes:            &notes,
	}
}

func TestSendBookingConfirmation_RendersAndSends(t *testing.T) {
	sender := &recordingSender{}
	client := NewClient(sender, true, nopLogger{})

	err := client.SendBookingConfirmation(context.Background(), confirmation())
	require.NoError(t, err)

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "anna@example.com", sender.to)
	assert.Equal(t, confirmationSubject, sender.subject)
	assert.Contains(t, sender.body, "Здравствуйте, Анна!")
	assert.Contains(t, sender.body, "Услуга: Стрижка")
	assert.Contains(t, sender.body, "Дата: 07.01.2030")
	assert.Contains(t, sender.body, "Время: 14:00 - 15:00")
	assert.Contains(t, sender.body, "Стоимость: 1500.00")
	assert.Contains(t, sender.body, "Комментарий: Первый визит")
	assert.Contains(t, sender.body, "7f1c3d1e-3c44-4d6c-9d55-0d8f6f5e8a10")
}

func TestSendBookingConfirmation_WithoutNotes(t *testing.T) {
	sender := &recordingSender{}
	msg := confirmation()
	msg.Notes = nil

	require.NoError(t, NewClient(sender, true, nopLogger{}).SendBookingConfirmation(context.Background(), msg))
	assert.NotContains(t, sender.body, "Комментарий")
}

func TestSendBookingConfirmation_Disabled(t *testing.T) {
	sender := &recordingSender{}
	client := NewClient(sender, false, nopLogger{})

	require.NoError(t, client.SendBookingConfirmation(context.Background(), confirmation()))
	assert.Zero(t, sender.calls)
}

func TestSendBookingConfirmation_Errors(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("connection refused")}
		err := NewClient(sender, true, nopLogger{}).SendBookingConfirmation(context.Background(), confirmation())
		assert.ErrorIs(t, err, ErrSend)
	})

	t.Run("empty recipient", func(t *testing.T) {
		msg := confirmation()
		msg.ClientEmail = "  "
		err := NewClient(&recordingSender{}, true, nopLogger{}).SendBookingConfirmation(context.Background(), msg)
		assert.ErrorIs(t, err, ErrNoRecipient)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sender := &recordingSender{}
		err := NewClient(sender, true, nopLogger{}).SendBookingConfirmation(ctx, confirmation())
		assert.ErrorIs(t, err, ErrSend)
		assert.Zero(t, sender.calls)
	})
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@example.com", "to@example.com", "Тема", "Текст")
	assert.Contains(t, msg, "From: from@example.com\r\n")
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Subject: "+mime.QEncoding.Encode("utf-8", "Тема")+"\r\n")
	assert.NotContains(t, msg, "Subject: Тема")
	assert.True(t, strings.HasPrefix(mime.QEncoding.Encode("utf-8", "Тема"), "=?utf-8?q?"))
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8\r\n\r\nТекст\r\n")
}
