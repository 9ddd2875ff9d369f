package generate

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

func (m *MockService) GenerateSuggestions(ctx context.Context, owner string) ([]*models.Suggestion, error) {
	args := m.Called(ctx, owner)
	sgs, _ := args.Get(0).([]*models.Suggestion)
	return sgs, args.Error(1)
}

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/suggestions/generate", nil)
	return req.WithContext(middlewarectx.WithOwner(req.Context(), "alice"))
}

func TestGenerateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("рекомендации созданы", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateSuggestions", mock.Anything, "alice").Return([]*models.Suggestion{
			{ID: 7, SubscriptionID: "gym", Type: models.SuggestionCancel, EstimatedSavings: 2500, Reason: "rarely used"},
		}, nil)

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		assert.Contains(t, w.Body.String(), `"type":"cancel"`)
	})

	t.Run("нечего предложить", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateSuggestions", mock.Anything, "alice").Return([]*models.Suggestion{}, nil)

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"status":"OK","data":[]}`, w.Body.String())
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GenerateSuggestions", mock.Anything, "alice").Return(nil, errors.New("tx aborted"))

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "could not generate suggestions")
	})
}
