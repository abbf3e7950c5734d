package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	AccountID      uuid.UUID // ID аккаунта
	ProfessionalID uuid.UUID // ID специалиста
	ServiceID      uuid.UUID // ID услуги, её длительность задаёт шаг слотов
	Date           time.Time // Календарная дата (время суток игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Дата, на которую запрашивались слоты
	Timezone        string             // Часовой пояс аккаунта, в котором заданы слоты
	ProfessionalID  uuid.UUID          // ID специалиста
	ServiceID       uuid.UUID          // ID услуги
	DurationMinutes int                // Длительность услуги
	Slots           []types.TimeString // Время начала свободных слотов, по возрастанию
}
