package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkotelnikova/cleaning-portal/internal/models"
)

const orderColumns = `id, user_id, address, contact_phone, service_type,
			  COALESCE(custom_service, ''), preferred_date,
			  to_char(preferred_time, 'HH24:MI'), payment_type, status,
			  COALESCE(cancel_reason, ''), created_at`

// CreateOrder сохраняет новую заявку и возвращает её вместе с
// присвоенными базой id и created_at.
func (s *Storage) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	const op = "storage.CreateOrder"

	query := `INSERT INTO orders (user_id, address, contact_phone, service_type,
			      custom_service, preferred_date, preferred_time, payment_type, status)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7::time, $8, $9)
			  RETURNING ` + orderColumns
	row := s.DB.QueryRowContext(ctx, query,
		o.UserID, o.Address, o.ContactPhone, o.ServiceType,
		o.CustomService, o.PreferredDate, o.PreferredTime, o.PaymentType, o.Status)

	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetOrder возвращает заявку по её ID.
func (s *Storage) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	const op = "storage.GetOrder"

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// ListOrdersByUser возвращает заявки пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	// Пустая выборка сериализуется как [], а не null.
	result := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllOrders возвращает все заявки с контактами владельцев
// для административной панели, новые первыми.
func (s *Storage) ListAllOrders(ctx context.Context) ([]*models.OrderWithOwner, error) {
	const op = "storage.ListAllOrders"

	query := `SELECT o.id, o.user_id, o.address, o.contact_phone, o.service_type,
			      COALESCE(o.custom_service, ''), o.preferred_date,
			      to_char(o.preferred_time, 'HH24:MI'), o.payment_type, o.status,
			      COALESCE(o.cancel_reason, ''), o.created_at,
			      u.full_name, u.phone, u.email
			  FROM orders o
			  JOIN users u ON o.user_id = u.id
			  ORDER BY o.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.OrderWithOwner{}
	for rows.Next() {
		var o models.OrderWithOwner
		if err = rows.Scan(&o.ID, &o.UserID, &o.Address, &o.ContactPhone, &o.ServiceType,
			&o.CustomService, &o.PreferredDate, &o.PreferredTime, &o.PaymentType,
			&o.Status, &o.CancelReason, &o.CreatedAt,
			&o.OwnerFullName, &o.OwnerPhone, &o.OwnerEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus записывает новый статус и причину отмены и возвращает
// обновлённую заявку. Пустая причина сохраняется как NULL, так что после
// любого перехода причина заполнена только у отменённых заявок.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int, status, cancelReason string) (*models.Order, error) {
	const op = "storage.UpdateOrderStatus"

	query := `UPDATE orders
			  SET status = $1, cancel_reason = NULLIF($2, '')
			  WHERE id = $3
			  RETURNING ` + orderColumns
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, status, cancelReason, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// scanner покрывает *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Address, &o.ContactPhone, &o.ServiceType,
		&o.CustomService, &o.PreferredDate, &o.PreferredTime, &o.PaymentType,
		&o.Status, &o.CancelReason, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
