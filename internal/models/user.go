// Package models содержит доменные структуры клинингового портала:
// пользователей и заявки на уборку, а также вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей. Администратор назначает статусы заявок,
// обычный пользователь только создаёт и просматривает свои заявки.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя портала.
type User struct {
	ID           int       `json:"id"`       // Уникальный идентификатор
	Login        string    `json:"login"`    // Логин (уникальный, 3–50 символов)
	PasswordHash string    `json:"-"`        // bcrypt-хэш пароля, наружу не отдаётся
	FullName     string    `json:"fullName"` // ФИО, только кириллица и пробелы
	Phone        string    `json:"phone"`    // Телефон в формате +7(XXX)-XXX-XX-XX
	Email        string    `json:"email"`    // Электронная почта
	Role         string    `json:"role"`     // Роль: user или admin
	CreatedAt    time.Time `json:"createdAt"`
}
