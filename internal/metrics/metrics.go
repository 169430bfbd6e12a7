// Package metrics регистрирует счётчики Prometheus для основных
// бизнес-событий портала.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счётчики бизнес-событий.
type Metrics struct {
	UsersRegistered   prometheus.Counter
	OrdersCreated     prometheus.Counter
	StatusTransitions *prometheus.CounterVec
}

// New создаёт и регистрирует счётчики в переданном реестре.
// Тесты передают отдельный prometheus.NewRegistry, чтобы не
// конфликтовать с глобальным.
func New(reg prometheus.Registerer) *Metrics {
	usersRegistered := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cleaning_portal",
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cleaning_portal",
		Name:      "orders_created_total",
		Help:      "Total number of created orders.",
	})
	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cleaning_portal",
		Name:      "order_status_transitions_total",
		Help:      "Total number of order status transitions.",
	}, []string{"status"})

	reg.MustRegister(usersRegistered, ordersCreated, statusTransitions)
	return &Metrics{
		UsersRegistered:   usersRegistered,
		OrdersCreated:     ordersCreated,
		StatusTransitions: statusTransitions,
	}
}

// Handler отдаёт стандартный обработчик /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
