// Package list реализует HTTP-обработчик списка заявок пользователя.
//
// Свои заявки может смотреть только их владелец; администратору доступен
// список любого пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkotelnikova/cleaning-portal/internal/http/middlewarectx"
	"github.com/mkotelnikova/cleaning-portal/internal/http/response"
	"github.com/mkotelnikova/cleaning-portal/internal/lib/sl"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	ListForUser(ctx context.Context, userID int) ([]*models.Order, error)
}

// Handler обрабатывает HTTP-запросы списка заявок пользователя.
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
// @Summary Заявки пользователя
// @Description Возвращает заявки указанного пользователя, новые первыми.
// @Tags Orders
// @Produce  json
// @Param userId path int true "Идентификатор пользователя"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 400 {object} map[string]any "Некорректный идентификатор"
// @Failure 403 {object} map[string]any "Чужие заявки недоступны"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /orders/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil {
		log.Error("invalid user id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.FailGeneral("некорректный идентификатор пользователя"))
		return
	}

	callerID, ok := r.Context().Value(middlewarectx.UserID).(int)
	if !ok {
		log.Error("user id missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.FailGeneral("требуется аутентификация"))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if callerID != targetID && role != models.RoleAdmin {
		log.Error("forbidden order list access",
			slog.Int("caller_id", callerID), slog.Int("target_id", targetID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.FailGeneral("доступ к чужим заявкам запрещен"))
		return
	}

	orders, err := h.service.ListForUser(r.Context(), targetID)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.FailGeneral("ошибка сервера при получении заявок"))
		return
	}

	log.Info("orders listed", slog.Int("user_id", targetID), slog.Int("count", len(orders)))
	render.JSON(w, r, response.OKWith("orders", orders))
}
