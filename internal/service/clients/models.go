package clients

// ContactInfo контактные данные клиента из заявки на бронирование
type ContactInfo struct {
	Email string  `json:"email" validate:"required,email,max=320"`
	Name  string  `json:"name" validate:"required,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32,phone"`
}
