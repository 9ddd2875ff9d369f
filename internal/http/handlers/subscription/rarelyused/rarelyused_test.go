package rarelyused

import (
	"context"
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

func (m *MockService) RarelyUsed(ctx context.Context, owner string) ([]*models.RarelyUsedSubscription, error) {
	args := m.Called(ctx, owner)
	subs, _ := args.Get(0).([]*models.RarelyUsedSubscription)
	return subs, args.Error(1)
}

func TestRarelyUsedHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := new(MockService)
	svc.On("RarelyUsed", mock.Anything, "alice").Return([]*models.RarelyUsedSubscription{
		{
			Subscription:        &models.Subscription{ID: "gym", Category: models.CategoryHealth, UsageFrequency: 1},
			EstimatedDaysUnused: 12,
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/rarely-used", nil)
	req = req.WithContext(middlewarectx.WithOwner(req.Context(), "alice"))
	w := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"gym"`)
	assert.Contains(t, w.Body.String(), `"estimated_days_unused":12`)
	svc.AssertExpectations(t)
}

func TestRarelyUsedHandler_Unauthorized(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := new(MockService)

	w := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscriptions/rarely-used", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "RarelyUsed", mock.Anything, mock.Anything)
}
