package order

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkotelnikova/cleaning-portal/internal/metrics"
	"github.com/mkotelnikova/cleaning-portal/internal/models"
	"github.com/mkotelnikova/cleaning-portal/internal/orderstatus"
	"github.com/mkotelnikova/cleaning-portal/internal/storage"
	"github.com/mkotelnikova/cleaning-portal/internal/validation"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) ListOrdersByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *RepoMock) ListAllOrders(ctx context.Context) ([]*models.OrderWithOwner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderWithOwner), args.Error(1)
}

func (m *RepoMock) UpdateOrderStatus(ctx context.Context, id int, status, cancelReason string) (*models.Order, error) {
	args := m.Called(ctx, id, status, cancelReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// CacheMock не возражает против любых операций.
type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newService(repo *RepoMock, cache *CacheMock) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, cache, metrics.New(prometheus.NewRegistry()), logger)
}

func validDraft() models.DummyOrder {
	return models.DummyOrder{
		Address:       "Ленина 10-5",
		ContactPhone:  "+7(912)-345-67-89",
		ServiceType:   models.ServiceGeneral,
		PreferredDate: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		PreferredTime: "10:00",
		PaymentType:   models.PaymentCash,
	}
}

func TestCreate(t *testing.T) {
	t.Run("успешное создание со статусом new", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		saved := &models.Order{ID: 42, UserID: 7, Status: string(orderstatus.New)}

		repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
			return o.UserID == 7 && o.Status == "new" && o.CustomService == ""
		})).Return(saved, nil)
		cache.On("Set", "order:42", saved, time.Hour).Return(nil)

		svc := newService(repo, cache)
		got, err := svc.Create(context.Background(), 7, draft)

		require.NoError(t, err)
		assert.Equal(t, 42, got.ID)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("другая услуга сохраняет описание", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.ServiceType = models.ServiceOther
		draft.CustomService = "удаление глубокой плесени"
		saved := &models.Order{ID: 43, ServiceType: models.ServiceOther, CustomService: "удаление глубокой плесени"}

		repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
			return o.ServiceType == models.ServiceOther && o.CustomService == "удаление глубокой плесени"
		})).Return(saved, nil)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newService(repo, cache)
		got, err := svc.Create(context.Background(), 7, draft)

		require.NoError(t, err)
		assert.Equal(t, "удаление глубокой плесени", got.CustomService)
	})

	t.Run("другая услуга без описания отклоняется", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.ServiceType = models.ServiceOther
		draft.CustomService = "   "

		svc := newService(repo, cache)
		_, err := svc.Create(context.Background(), 7, draft)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "customService")
		repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("дата в прошлом отклоняется", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.PreferredDate = "2020-01-01"

		svc := newService(repo, cache)
		_, err := svc.Create(context.Background(), 7, draft)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "preferredDate")
	})

	t.Run("описание игнорируется для услуги из перечня", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.CustomService = "не должно сохраниться"
		saved := &models.Order{ID: 44}

		repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
			return o.CustomService == ""
		})).Return(saved, nil)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newService(repo, cache)
		_, err := svc.Create(context.Background(), 7, draft)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("заявка на сегодня принимается", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.PreferredDate = time.Now().Format("2006-01-02")
		saved := &models.Order{ID: 45, UserID: 7, Status: "new"}

		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(saved, nil)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newService(repo, cache)
		_, err := svc.Create(context.Background(), 7, draft)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("ошибки формата и содержательные в одном ответе", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.ContactPhone = "+79123456789"
		draft.PreferredDate = "2020-01-01"

		svc := newService(repo, cache)
		_, err := svc.Create(context.Background(), 7, draft)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "contactPhone")
		assert.Contains(t, verrs, "preferredDate")
		repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("все нарушения возвращаются разом", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		draft := validDraft()
		draft.PreferredDate = "10.01.2025"
		draft.PreferredTime = "десять утра"
		draft.ServiceType = models.ServiceOther
		draft.CustomService = ""

		svc := newService(repo, cache)
		_, err := svc.Create(context.Background(), 7, draft)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 3)
		assert.Contains(t, verrs, "preferredDate")
		assert.Contains(t, verrs, "preferredTime")
		assert.Contains(t, verrs, "customService")
	})
}

func TestUpdateStatus(t *testing.T) {
	newOrder := func(status string) *models.Order {
		return &models.Order{ID: 42, UserID: 7, Status: status}
	}

	tests := []struct {
		name      string
		status    string
		reason    string
		setupMock func(*RepoMock, *CacheMock)
		wantErr   error
	}{
		{
			name:   "новая в работу",
			status: "in-progress",
			setupMock: func(repo *RepoMock, cache *CacheMock) {
				repo.On("GetOrder", mock.Anything, 42).Return(newOrder("new"), nil)
				repo.On("UpdateOrderStatus", mock.Anything, 42, "in-progress", "").
					Return(newOrder("in-progress"), nil)
				cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "отмена с причиной",
			status: "cancelled",
			reason: "клиент перенёс",
			setupMock: func(repo *RepoMock, cache *CacheMock) {
				repo.On("GetOrder", mock.Anything, 42).Return(newOrder("in-progress"), nil)
				repo.On("UpdateOrderStatus", mock.Anything, 42, "cancelled", "клиент перенёс").
					Return(&models.Order{ID: 42, Status: "cancelled", CancelReason: "клиент перенёс"}, nil)
				cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "отмена без причины",
			status: "cancelled",
			reason: "",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("GetOrder", mock.Anything, 42).Return(newOrder("new"), nil)
			},
			wantErr: orderstatus.ErrCancelReasonRequired,
		},
		{
			name:   "заявка не найдена",
			status: "in-progress",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("GetOrder", mock.Anything, 42).Return(nil, storage.ErrOrderNotFound)
			},
			wantErr: storage.ErrOrderNotFound,
		},
		{
			name:   "возврат из терминального статуса",
			status: "in-progress",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("GetOrder", mock.Anything, 42).Return(newOrder("completed"), nil)
			},
			wantErr: orderstatus.ErrInvalidTransition,
		},
		{
			name:      "неизвестный статус",
			status:    "pending",
			setupMock: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:   orderstatus.ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMock(repo, cache)
			svc := newService(repo, cache)

			got, err := svc.UpdateStatus(context.Background(), 42, tt.status, tt.reason)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateStatus_CancelledKeepsReason(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("GetOrder", mock.Anything, 42).Return(&models.Order{ID: 42, Status: "in-progress"}, nil)
	repo.On("UpdateOrderStatus", mock.Anything, 42, "cancelled", "клиент перенёс").
		Return(&models.Order{ID: 42, Status: "cancelled", CancelReason: "клиент перенёс"}, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, cache)
	got, err := svc.UpdateStatus(context.Background(), 42, "cancelled", "клиент перенёс")

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, "клиент перенёс", got.CancelReason)
}

func TestGet_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	stored := &models.Order{ID: 42, Status: "new"}

	cache.On("Get", "order:42", mock.Anything).Return(false, nil)
	repo.On("GetOrder", mock.Anything, 42).Return(stored, nil)
	cache.On("Set", "order:42", stored, time.Hour).Return(nil)

	svc := newService(repo, cache)
	got, err := svc.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, 42, got.ID)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestListForUser(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	orders := []*models.Order{{ID: 2, UserID: 7}, {ID: 1, UserID: 7}}
	repo.On("ListOrdersByUser", mock.Anything, 7).Return(orders, nil)

	svc := newService(repo, cache)
	got, err := svc.ListForUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListAll_Error(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("ListAllOrders", mock.Anything).Return(nil, errors.New("db down"))

	svc := newService(repo, cache)
	_, err := svc.ListAll(context.Background())

	assert.Error(t, err)
}
