// Package generate реализует HTTP-обработчик генерации рекомендаций.
//
// Каждый вызов создаёт новые рекомендации с новыми ID, даже если данные не менялись.
package generate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	GenerateSuggestions(ctx context.Context, owner string) ([]*models.Suggestion, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать рекомендации
// @Description Создаёт cancel-рекомендации для редко используемых подписок и review-рекомендации для скорых продлений.
// @Tags Suggestions
// @Produce  json
// @Success 201 {object} response.Response{data=[]models.Suggestion}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /suggestions/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.suggestion.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner, ok := middlewarectx.OwnerFromContext(r.Context())
	if !ok {
		log.Error("owner not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	suggestions, err := h.service.GenerateSuggestions(r.Context(), owner)
	if err != nil {
		log.Error("failed to generate suggestions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate suggestions"))
		return
	}

	log.Info("suggestions generated", slog.Int("count", len(suggestions)))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(suggestions))
}
