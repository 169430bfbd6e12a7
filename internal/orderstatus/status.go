// Package orderstatus описывает жизненный цикл заявки на уборку.
//
// Заявка создаётся в статусе "new", администратор переводит её в
// "in-progress", "completed" или "cancelled". Завершённые и отменённые
// заявки менять больше нельзя. Для отмены обязательна причина; при любом
// другом переходе причина очищается, так что инвариант "причина заполнена
// тогда и только тогда, когда заявка отменена" держится после каждого перехода.
package orderstatus

import (
	"errors"
	"fmt"
	"strings"
)

// Status — стадия жизненного цикла заявки.
type Status string

// Статусы заявки.
const (
	New        Status = "new"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
	Cancelled  Status = "cancelled"
)

var (
	// ErrUnknownStatus — значение вне перечня статусов.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrInvalidTransition — попытка перевести заявку из терминального статуса.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCancelReasonRequired — отмена без указания причины.
	ErrCancelReasonRequired = errors.New("cancel reason is required")
)

// Parse проверяет строковое значение статуса.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case New, InProgress, Completed, Cancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Terminal сообщает, завершён ли жизненный цикл заявки.
func (s Status) Terminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransition разрешает любой переход из незавершённой заявки: пропуск
// "in-progress" и повторное назначение текущего статуса допустимы, возврат
// из терминального статуса — нет.
func CanTransition(from, to Status) bool {
	return !from.Terminal()
}

// Transition применяет переход и возвращает новый статус вместе с причиной
// отмены, которую следует сохранить. Для нецелевого статуса причина пустая.
func Transition(from, to Status, cancelReason string) (Status, string, error) {
	if !CanTransition(from, to) {
		return "", "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to != Cancelled {
		return to, "", nil
	}
	if strings.TrimSpace(cancelReason) == "" {
		return "", "", ErrCancelReasonRequired
	}
	return to, cancelReason, nil
}
