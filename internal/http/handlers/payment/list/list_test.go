package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Payments(ctx context.Context, owner, id string) ([]*models.PaymentRecord, error) {
	args := m.Called(ctx, owner, id)
	payments, _ := args.Get(0).([]*models.PaymentRecord)
	return payments, args.Error(1)
}

func TestListPaymentsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	paidAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		id             string
		owner          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "история платежей",
			id:    "netflix",
			owner: "alice",
			setupMock: func(m *MockService) {
				m.On("Payments", mock.Anything, "alice", "netflix").Return([]*models.PaymentRecord{
					{Owner: "alice", SubscriptionID: "netflix", PaidAt: paidAt, Amount: 1599},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_id":"netflix"`,
		},
		{
			name:  "нет платежей",
			id:    "gym",
			owner: "alice",
			setupMock: func(m *MockService) {
				m.On("Payments", mock.Anything, "alice", "gym").Return([]*models.PaymentRecord{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "без владельца",
			id:             "netflix",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:  "ошибка сервиса",
			id:    "netflix",
			owner: "alice",
			setupMock: func(m *MockService) {
				m.On("Payments", mock.Anything, "alice", "netflix").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not list payments"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/subscriptions/"+tt.id+"/payments", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.owner != "" {
				ctx = middlewarectx.WithOwner(ctx, tt.owner)
			}
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
