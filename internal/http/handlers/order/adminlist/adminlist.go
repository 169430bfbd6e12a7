// Package adminlist реализует HTTP-обработчик общего списка заявок
// для администратора.
package adminlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkotelnikova/cleaning-portal/internal/http/response"
	"github.com/mkotelnikova/cleaning-portal/internal/lib/sl"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
)

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	ListAll(ctx context.Context) ([]*models.OrderWithOwner, error)
}

// Handler обрабатывает HTTP-запросы общего списка заявок.
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
// @Summary Все заявки
// @Description Возвращает все заявки с контактами владельцев, новые первыми.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} map[string]any "Отсутствует или недействителен токен"
// @Failure 403 {object} map[string]any "Требуются права администратора"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.adminlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.FailGeneral("ошибка сервера при получении заявок"))
		return
	}

	log.Info("all orders listed", slog.Int("count", len(orders)))
	render.JSON(w, r, response.OKWith("orders", orders))
}
