// Package rarelyused реализует HTTP-обработчик списка редко используемых подписок.
package rarelyused

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
	RarelyUsed(ctx context.Context, owner string) ([]*models.RarelyUsedSubscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Редко используемые подписки
// @Description Подписки с частотой использования не выше 3 и оценкой дней простоя.
// @Tags Analytics
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.RarelyUsedSubscription}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/rarely-used [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.rarelyused"
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

	subs, err := h.service.RarelyUsed(r.Context(), owner)
	if err != nil {
		log.Error("failed to get rarely used subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get rarely used subscriptions"))
		return
	}

	render.JSON(w, r, response.OKWithData(subs))
}
