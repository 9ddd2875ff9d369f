package usage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateUsage(ctx context.Context, owner, id string, frequency int) error {
	return m.Called(ctx, owner, id, frequency).Error(0)
}

func TestUsageHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "частота обновлена",
			body: `{"usage_frequency":2}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUsage", mock.Anything, "alice", "netflix", 2).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "нулевая частота допустима",
			body: `{"usage_frequency":0}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUsage", mock.Anything, "alice", "netflix", 0).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "частота не передана",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field UsageFrequency is a required field`,
		},
		{
			name: "частота вне диапазона",
			body: `{"usage_frequency":11}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUsage", mock.Anything, "alice", "netflix", 11).
					Return(fmt.Errorf("%w: usage frequency 11 out of range", models.ErrInvalidSubscription))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `out of range`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, "/subscriptions/netflix/usage", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "netflix")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithOwner(ctx, "alice"))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
