package create_reservation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/clients"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	AccountID      uuid.UUID           // ID аккаунта
	ServiceID      uuid.UUID           // ID услуги
	ProfessionalID uuid.UUID           // ID специалиста
	Client         clients.ContactInfo // Контактные данные клиента
	Date           time.Time           // Календарная дата (время суток игнорируется)
	StartTime      types.TimeString    // Время начала слота во времени аккаунта, например "10:00"
	Notes          *string             // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID uuid.UUID       // ID созданного бронирования
	ClientID      uuid.UUID       // ID клиента
	StartTime     time.Time       // Начало во времени аккаунта
	EndTime       time.Time       // Конец во времени аккаунта
	Status        string          // Статус бронирования (pending)
	TotalAmount   decimal.Decimal // Стоимость на момент бронирования
}
