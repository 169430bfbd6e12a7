// Package cleaningportal собирает HTTP-приложение сервиса заявок на уборку:
// хранилище, кеш, сервисы и маршруты.
package cleaningportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mkotelnikova/cleaning-portal/internal/http/handlers/auth/login"
	"github.com/mkotelnikova/cleaning-portal/internal/http/handlers/auth/register"
	"github.com/mkotelnikova/cleaning-portal/internal/http/handlers/order/adminlist"
	"github.com/mkotelnikova/cleaning-portal/internal/http/handlers/order/create"
	"github.com/mkotelnikova/cleaning-portal/internal/http/handlers/order/list"
	"github.com/mkotelnikova/cleaning-portal/internal/http/handlers/order/updatestatus"
	"github.com/mkotelnikova/cleaning-portal/internal/http/middlewarectx"
	"github.com/mkotelnikova/cleaning-portal/internal/metrics"
	authservice "github.com/mkotelnikova/cleaning-portal/internal/services/auth"
	orderservice "github.com/mkotelnikova/cleaning-portal/internal/services/order"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenParser middlewarectx.TokenParser, authService *authservice.Service, orderService *orderservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/register", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/orders", create.New(logger, orderService).ServeHTTP)
		r.Get("/orders/{userId}", list.New(logger, orderService).ServeHTTP)

		// Конечные точки администратора
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Get("/admin/orders", adminlist.New(logger, orderService).ServeHTTP)
			r.Put("/admin/orders/{id}", updatestatus.New(logger, orderService).ServeHTTP)
		})
	})

	r.Handle("/metrics", metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
