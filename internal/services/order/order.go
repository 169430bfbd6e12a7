// Package order содержит бизнес-логику заявок на уборку: создание,
// выборки и переходы статусов с кешированием отдельных заявок.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkotelnikova/cleaning-portal/internal/metrics"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
	"github.com/mkotelnikova/cleaning-portal/internal/orderstatus"
	"github.com/mkotelnikova/cleaning-portal/internal/validation"
)

// Repository определяет методы для работы с заявками в хранилище.
type Repository interface {
	// CreateOrder добавляет новую заявку и возвращает её с присвоенным ID.
	CreateOrder(ctx context.Context, o models.Order) (*models.Order, error)
	// GetOrder возвращает заявку по ID.
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	// ListOrdersByUser возвращает заявки пользователя, новые первыми.
	ListOrdersByUser(ctx context.Context, userID int) ([]*models.Order, error)
	// ListAllOrders возвращает все заявки с контактами владельцев.
	ListAllOrders(ctx context.Context) ([]*models.OrderWithOwner, error)
	// UpdateOrderStatus записывает новый статус и причину отмены.
	UpdateOrderStatus(ctx context.Context, id int, status, cancelReason string) (*models.Order, error)
}

// Cache описывает методы для кэширования заявок.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику заявок.
type Service struct {
	repo    Repository
	cache   Cache
	metrics *metrics.Metrics
	rules   *validation.Rules
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: m,
		rules:   validation.New(),
		log:     log,
	}
}

// Create проверяет заявку и сохраняет её со статусом "new". Проверки
// форматов по тегам и содержательные правила (дата не в прошлом,
// описание для услуги "other") собираются в одну карту, чтобы все
// нарушения вернулись разом как validation.Errors.
func (s *Service) Create(ctx context.Context, userID int, req models.DummyOrder) (*models.Order, error) {
	errs := s.rules.Check(req)
	if errs == nil {
		errs = validation.Errors{}
	}

	var preferredDate time.Time
	if _, seen := errs["preferredDate"]; !seen {
		var err error
		preferredDate, err = time.Parse("2006-01-02", req.PreferredDate)
		switch {
		case err != nil:
			errs["preferredDate"] = "дата в формате ГГГГ-ММ-ДД"
		case preferredDate.Before(today()):
			errs["preferredDate"] = "дата не может быть в прошлом"
		}
	}
	if _, seen := errs["preferredTime"]; !seen {
		if _, err := time.Parse("15:04", req.PreferredTime); err != nil {
			errs["preferredTime"] = "время в формате ЧЧ:ММ"
		}
	}

	customService := strings.TrimSpace(req.CustomService)
	if req.ServiceType == models.ServiceOther && customService == "" {
		errs["customService"] = "опишите услугу"
	}
	// Для услуг из перечня описание игнорируется.
	if req.ServiceType != models.ServiceOther {
		customService = ""
	}

	if len(errs) > 0 {
		return nil, errs
	}

	entry := models.Order{
		UserID:        userID,
		Address:       req.Address,
		ContactPhone:  req.ContactPhone,
		ServiceType:   req.ServiceType,
		CustomService: customService,
		PreferredDate: preferredDate,
		PreferredTime: req.PreferredTime,
		PaymentType:   req.PaymentType,
		Status:        string(orderstatus.New),
	}
	created, err := s.repo.CreateOrder(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	s.log.Info("created new order", slog.Int("id", created.ID), slog.Int("user_id", userID))

	cacheKey := fmt.Sprintf("order:%d", created.ID)
	if err := s.cache.Set(cacheKey, created, time.Hour); err != nil {
		s.log.Warn("failed to cache order", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return created, nil
}

// today — полночь текущего календарного дня в часовом поясе сервера,
// в UTC для сравнения с распарсенной датой заявки.
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Get возвращает заявку по ID, используя кеш или хранилище.
func (s *Service) Get(ctx context.Context, id int) (*models.Order, error) {
	var result *models.Order
	cacheKey := fmt.Sprintf("order:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && result != nil {
		return result, nil
	}
	result, err = s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache order", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ListForUser возвращает заявки пользователя, новые первыми.
func (s *Service) ListForUser(ctx context.Context, userID int) ([]*models.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

// ListAll возвращает все заявки с контактами владельцев для администратора.
func (s *Service) ListAll(ctx context.Context) ([]*models.OrderWithOwner, error) {
	return s.repo.ListAllOrders(ctx)
}

// UpdateStatus применяет переход статуса к заявке. Текущий статус читается
// из хранилища, правила перехода проверяет orderstatus, результат
// записывается вместе с причиной отмены (пустой для любых статусов,
// кроме "cancelled").
func (s *Service) UpdateStatus(ctx context.Context, id int, newStatus, cancelReason string) (*models.Order, error) {
	to, err := orderstatus.Parse(newStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	status, reason, err := orderstatus.Transition(orderstatus.Status(current.Status), to, cancelReason)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, id, string(status), reason)
	if err != nil {
		return nil, err
	}

	s.metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	s.log.Info("order status updated",
		slog.Int("id", id),
		slog.String("from", current.Status),
		slog.String("to", string(status)))

	cacheKey := fmt.Sprintf("order:%d", id)
	if err := s.cache.Set(cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache order", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return updated, nil
}
