// Package auth содержит логику бизнес-уровня для регистрации и входа пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	jwtlib "github.com/mkotelnikova/cleaning-portal/internal/lib/jwt"
	"github.com/mkotelnikova/cleaning-portal/internal/lib/password"
	"github.com/mkotelnikova/cleaning-portal/internal/metrics"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
	"github.com/mkotelnikova/cleaning-portal/internal/storage"
)

// Ошибки бизнес-уровня.
var (
	// ErrLoginTaken — логин уже занят другим пользователем.
	ErrLoginTaken = errors.New("login already taken")
	// ErrInvalidCredentials — неверная пара логин/пароль. Неизвестный логин
	// и неверный пароль намеренно неразличимы для вызывающего.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)

	// GetUserByLogin возвращает пользователя по логину или ошибку, если не найден.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// Service отвечает за регистрацию, вход и выпуск JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwtlib.Maker
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwtlib.Maker, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		metrics:  m,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user".
// Поля к этому моменту уже проверены валидацией; здесь контролируется
// только уникальность логина, и её окончательно решает база.
func (s *Service) Register(ctx context.Context, login, rawPassword, fullName, phone, email string) (int, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, err
	}
	user := models.User{
		Login:        login,
		PasswordHash: hashed,
		FullName:     fullName,
		Phone:        phone,
		Email:        email,
		Role:         models.RoleUser,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrLoginExists) {
			return 0, ErrLoginTaken
		}
		return 0, err
	}

	s.metrics.UsersRegistered.Inc()
	s.log.Info("registered new user", slog.Int("id", id), slog.String("login", login))
	return id, nil
}

// Login проверяет пароль пользователя и возвращает его вместе с JWT.
func (s *Service) Login(ctx context.Context, login, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Login, user.Role, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
// Вызывается один раз при старте приложения.
func (s *Service) EnsureAdmin(ctx context.Context, login, rawPassword, fullName, phone, email string) error {
	const op = "auth.EnsureAdmin"

	_, err := s.users.GetUserByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Login:        login,
		PasswordHash: hashed,
		FullName:     fullName,
		Phone:        phone,
		Email:        email,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		// Параллельный старт второго экземпляра мог успеть первым.
		if errors.Is(err, storage.ErrLoginExists) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("seeded admin account", slog.String("login", login))
	return nil
}
