package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkotelnikova/cleaning-portal/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Уникальность логина гарантирует индекс в базе: при гонке двух
// одинаковых регистраций проигравшая получает ErrLoginExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.CreateUser"

	var newID int
	query := `INSERT INTO users (login, password_hash, full_name, phone, email, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query,
		user.Login, user.PasswordHash, user.FullName, user.Phone, user.Email, user.Role,
	).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrLoginExists
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByLogin возвращает пользователя по его логину.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.GetUserByLogin"

	query := `SELECT id, login, password_hash, full_name, phone, email, role, created_at
			  FROM users
			  WHERE login = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, login)
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.FullName,
		&u.Phone, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
