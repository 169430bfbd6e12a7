package models

import "time"

// Виды услуг. Закрытый перечень: свободный текст допускается только
// через ServiceOther вместе с полем CustomService.
const (
	ServiceGeneral          = "general cleaning"
	ServiceDeep             = "deep cleaning"
	ServicePostConstruction = "post-construction cleaning"
	ServiceUpholstery       = "upholstery cleaning"
	ServiceWindows          = "window washing"
	ServiceOther            = "other"
)

// Способы оплаты заявки.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Order представляет заявку на уборку, привязанную к одному пользователю.
// Статус меняет только администратор; CancelReason заполнен тогда и только
// тогда, когда заявка отменена.
type Order struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	Address       string    `json:"address"`
	ContactPhone  string    `json:"contactPhone"`
	ServiceType   string    `json:"serviceType"`
	CustomService string    `json:"customService,omitempty"` // Описание услуги при ServiceType = other
	PreferredDate time.Time `json:"preferredDate"`           // Желаемая дата уборки
	PreferredTime string    `json:"preferredTime"`           // Желаемое время, формат 15:04
	PaymentType   string    `json:"paymentType"`
	Status        string    `json:"status"`
	CancelReason  string    `json:"cancelReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OrderWithOwner — заявка для административного списка,
// дополненная контактными данными владельца.
type OrderWithOwner struct {
	Order
	OwnerFullName string `json:"ownerFullName"`
	OwnerPhone    string `json:"ownerPhone"`
	OwnerEmail    string `json:"ownerEmail"`
}

// DummyOrder используется для приёма заявки из JSON-запроса,
// прежде чем конвертировать её в Order. Дата и время приходят строками,
// чтобы их можно было валидировать и парсить вручную.
type DummyOrder struct {
	Address       string `json:"address" validate:"required"`
	ContactPhone  string `json:"contactPhone" validate:"required,ruphone"`
	ServiceType   string `json:"serviceType" validate:"required,servicetype"`
	CustomService string `json:"customService"`                // Обязательно при serviceType = other
	PreferredDate string `json:"preferredDate" validate:"required"` // Формат 2006-01-02
	PreferredTime string `json:"preferredTime" validate:"required"` // Формат 15:04
	PaymentType   string `json:"paymentType" validate:"required,oneof=cash card"`
}
