// Package login реализует HTTP-обработчик входа пользователей.
//
// При успешной аутентификации возвращается снимок пользователя и JWT;
// неверные учётные данные дают общий ответ 401 без уточнения, что именно
// не совпало.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkotelnikova/cleaning-portal/internal/http/response"
	"github.com/mkotelnikova/cleaning-portal/internal/lib/sl"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
	authservice "github.com/mkotelnikova/cleaning-portal/internal/services/auth"
	"github.com/mkotelnikova/cleaning-portal/internal/validation"
)

// Request — структура входных данных для авторизации.
type Request struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, login, password string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по логину и паролю. Возвращает пользователя и JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} map[string]any "Некорректный JSON"
// @Failure 401 {object} map[string]any "Неверные учетные данные"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, token, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			log.Error("invalid credentials", slog.String("login", req.Login))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.FailGeneral("неверный логин или пароль"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.FailGeneral("ошибка сервера при входе"))
		return
	}

	log.Info("login success", slog.String("login", req.Login))
	render.JSON(w, r, response.OKFields(map[string]any{
		"user":  user,
		"token": token,
	}))
}
