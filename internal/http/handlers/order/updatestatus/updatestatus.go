// Package updatestatus реализует HTTP-обработчик смены статуса заявки
// администратором.
package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkotelnikova/cleaning-portal/internal/http/response"
	"github.com/mkotelnikova/cleaning-portal/internal/lib/sl"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
	"github.com/mkotelnikova/cleaning-portal/internal/orderstatus"
	"github.com/mkotelnikova/cleaning-portal/internal/storage"
	"github.com/mkotelnikova/cleaning-portal/internal/validation"
)

// Request — структура входных данных для смены статуса заявки.
type Request struct {
	Status       string `json:"status" validate:"required"`
	CancelReason string `json:"cancelReason"`
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	UpdateStatus(ctx context.Context, id int, newStatus, cancelReason string) (*models.Order, error)
}

// Handler обрабатывает HTTP-запросы смены статуса заявки.
type Handler struct {
	log     *slog.Logger
	service Service
	rules   *validation.Rules
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		rules:   validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена статуса заявки
// @Description Переводит заявку в новый статус. Отмена требует причины; из
// завершенных статусов переходы невозможны.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "Идентификатор заявки"
// @Param request body Request true "Новый статус и причина отмены"
// @Success 200 {object} map[string]any "Обновленная заявка"
// @Failure 400 {object} map[string]any "Недопустимый переход или отсутствует причина отмены"
// @Failure 404 {object} map[string]any "Заявка не найдена"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/orders/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.updatestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid order id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.FailGeneral("некорректный идентификатор заявки"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.FailGeneral("некорректное тело запроса"))
		return
	}

	if errs := h.rules.Check(req); errs != nil {
		log.Error("validation failed", sl.Err(errs))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Fail(errs))
		return
	}

	ord, err := h.service.UpdateStatus(r.Context(), id, req.Status, req.CancelReason)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			log.Error("order not found", slog.Int("order_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.FailGeneral("заявка не найдена"))
		case errors.Is(err, orderstatus.ErrCancelReasonRequired):
			log.Error("cancel reason required", slog.Int("order_id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Fail(validation.Errors{
				"cancelReason": "укажите причину отмены",
			}))
		case errors.Is(err, orderstatus.ErrUnknownStatus),
			errors.Is(err, orderstatus.ErrInvalidTransition):
			log.Error("invalid status transition", slog.Int("order_id", id),
				slog.String("status", req.Status), sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Fail(validation.Errors{
				"status": "недопустимый переход статуса",
			}))
		default:
			log.Error("failed to update order status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.FailGeneral("ошибка сервера при смене статуса"))
		}
		return
	}

	log.Info("order status updated",
		slog.Int("order_id", id), slog.String("status", ord.Status))
	render.JSON(w, r, response.OKWith("order", ord))
}
