// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Handler принимает JSON-анкету, проверяет все поля разом через доменные
// правила валидации и передаёт создание учётной записи сервису. Занятый
// логин возвращается как ошибка поля login, в том же формате, что и
// ошибки формата.
package register

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
	authservice "github.com/mkotelnikova/cleaning-portal/internal/services/auth"
	"github.com/mkotelnikova/cleaning-portal/internal/validation"
)

// Request — входные данные для регистрации.
type Request struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required,cyrillic"`
	Phone    string `json:"phone" validate:"required,ruphone"`
	Email    string `json:"email" validate:"required,simpleemail"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, login, password, fullName, phone, email string) (int, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log     *slog.Logger      // Логгер для записи операций и ошибок
	service Service           // Сервис бизнес-логики
	rules   *validation.Rules // Доменные правила валидации полей
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		rules:   validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает новую учётную запись. Все ошибки полей возвращаются разом.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Анкета пользователя"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} map[string]any "Ошибки валидации или занятый логин"
// @Failure 500 {object} map[string]any "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
	log.Info("request body decoded", slog.String("login", req.Login))

	if errs := h.rules.Check(req); errs != nil {
		log.Error("validation failed", sl.Err(errs))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Fail(errs))
		return
	}
	log.Info("all fields are validated")

	_, err := h.service.Register(r.Context(), req.Login, req.Password, req.FullName, req.Phone, req.Email)
	if err != nil {
		if errors.Is(err, authservice.ErrLoginTaken) {
			log.Error("login already taken", slog.String("login", req.Login))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Fail(map[string]string{
				"login": "пользователь с таким логином уже существует",
			}))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.FailGeneral("ошибка сервера при регистрации"))
		return
	}

	log.Info("user registered", slog.String("login", req.Login))
	render.JSON(w, r, response.OK())
}
