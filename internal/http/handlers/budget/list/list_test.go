package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Budgets(ctx context.Context, owner string) ([]*models.BudgetLimit, error) {
	args := m.Called(ctx, owner)
	budgets, _ := args.Get(0).([]*models.BudgetLimit)
	return budgets, args.Error(1)
}

func TestListBudgetsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := new(MockService)
	svc.On("Budgets", mock.Anything, "alice").Return([]*models.BudgetLimit{
		{Owner: "alice", Category: models.CategoryFood, MonthlyLimit: 5000},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/budgets", nil)
	req = req.WithContext(middlewarectx.WithOwner(req.Context(), "alice"))
	w := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"food"`)
	assert.Contains(t, w.Body.String(), `"monthly_limit":5000`)
	assert.NotContains(t, w.Body.String(), `alice`)
	svc.AssertExpectations(t)
}

func TestListBudgetsHandler_Unauthorized(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := new(MockService)

	w := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/budgets", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Budgets", mock.Anything, mock.Anything)
}

func TestListBudgetsHandler_ServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := new(MockService)
	svc.On("Budgets", mock.Anything, "alice").Return(nil, errors.New("db error"))

	req := httptest.NewRequest(http.MethodGet, "/budgets", nil)
	req = req.WithContext(middlewarectx.WithOwner(req.Context(), "alice"))
	w := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"could not list budgets"`)
}
