// Package create реализует HTTP-обработчик создания заявки на уборку.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkotelnikova/cleaning-portal/internal/http/middlewarectx"
	"github.com/mkotelnikova/cleaning-portal/internal/http/response"
	"github.com/mkotelnikova/cleaning-portal/internal/lib/sl"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
	"github.com/mkotelnikova/cleaning-portal/internal/validation"
)

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	Create(ctx context.Context, userID int, req models.DummyOrder) (*models.Order, error)
}

// Handler обрабатывает HTTP-запросы создания заявки.
// Все проверки полей выполняет сервис, чтобы нарушения форматов и
// содержательных правил пришли клиенту одним ответом.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создание заявки
// @Description Создает заявку на уборку от имени аутентифицированного пользователя.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.DummyOrder true "Данные заявки"
// @Success 200 {object} map[string]any "Созданная заявка"
// @Failure 400 {object} map[string]any "Ошибки валидации"
// @Failure 401 {object} map[string]any "Отсутствует или недействителен токен"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(int)
	if !ok {
		log.Error("user id missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.FailGeneral("требуется аутентификация"))
		return
	}

	var req models.DummyOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.FailGeneral("некорректное тело запроса"))
		return
	}

	ord, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(verrs))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Fail(verrs))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.FailGeneral("ошибка сервера при создании заявки"))
		return
	}

	log.Info("order created", slog.Int("order_id", ord.ID), slog.Int("user_id", userID))
	render.JSON(w, r, response.OKWith("order", ord))
}
