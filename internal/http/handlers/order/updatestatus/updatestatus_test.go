package updatestatus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkotelnikova/cleaning-portal/internal/models"
	"github.com/mkotelnikova/cleaning-portal/internal/orderstatus"
	"github.com/mkotelnikova/cleaning-portal/internal/storage"
)

// MockService реализует интерфейс updatestatus.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateStatus(ctx context.Context, id int, newStatus, cancelReason string) (*models.Order, error) {
	args := m.Called(ctx, id, newStatus, cancelReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func TestUpdateStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		pathID         string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "перевод в работу",
			pathID:      "42",
			requestBody: Request{Status: "in-progress"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 42, "in-progress", "").
					Return(&models.Order{ID: 42, Status: "in-progress"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"in-progress"`,
		},
		{
			name:        "отмена с причиной",
			pathID:      "42",
			requestBody: Request{Status: "cancelled", CancelReason: "клиент передумал"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 42, "cancelled", "клиент передумал").
					Return(&models.Order{ID: 42, Status: "cancelled", CancelReason: "клиент передумал"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"cancelReason":"клиент передумал"`,
		},
		{
			name:        "отмена без причины",
			pathID:      "42",
			requestBody: Request{Status: "cancelled"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 42, "cancelled", "").
					Return(nil, orderstatus.ErrCancelReasonRequired)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"cancelReason":"укажите причину отмены"`,
		},
		{
			name:        "переход из завершенного статуса",
			pathID:      "42",
			requestBody: Request{Status: "in-progress"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 42, "in-progress", "").
					Return(nil, fmt.Errorf("%w: completed -> in-progress", orderstatus.ErrInvalidTransition))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"недопустимый переход статуса"`,
		},
		{
			name:        "неизвестный статус",
			pathID:      "42",
			requestBody: Request{Status: "shipped"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 42, "shipped", "").
					Return(nil, fmt.Errorf("%w: %q", orderstatus.ErrUnknownStatus, "shipped"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"недопустимый переход статуса"`,
		},
		{
			name:        "заявка не найдена",
			pathID:      "404",
			requestBody: Request{Status: "in-progress"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 404, "in-progress", "").
					Return(nil, storage.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"general":"заявка не найдена"`,
		},
		{
			name:           "некорректный идентификатор",
			pathID:         "abc",
			requestBody:    Request{Status: "in-progress"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"general":"некорректный идентификатор заявки"`,
		},
		{
			name:           "некорректный JSON",
			pathID:         "42",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"general":"некорректное тело запроса"`,
		},
		{
			name:           "пустой статус",
			pathID:         "42",
			requestBody:    Request{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"обязательное поле"`,
		},
		{
			name:        "ошибка сервиса",
			pathID:      "42",
			requestBody: Request{Status: "completed"},
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 42, "completed", "").
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"general":"ошибка сервера при смене статуса"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, "/admin/orders/"+tt.pathID, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.pathID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
