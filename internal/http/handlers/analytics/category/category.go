// Package category реализует HTTP-обработчик месячных расходов по одной категории.
package category

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	SpendingByCategory(ctx context.Context, owner, category string) (int64, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Расходы по категории
// @Description Сумма месячной стоимости подписок одной категории. Для категории без подписок — 0.
// @Tags Analytics
// @Produce  json
// @Param category path string true "Категория" Enums(entertainment, productivity, health, food, other)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестная категория"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /spending/{category} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.category"
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

	category := chi.URLParam(r, "category")
	total, err := h.service.SpendingByCategory(r.Context(), owner, category)
	if err != nil {
		log.Error("failed to count spending by category", sl.Err(err))
		w.WriteHeader(response.StatusFor(err))
		render.JSON(w, r, response.Error(response.MessageFor(err, "could not count spending")))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"category": category,
		"total":    total,
	}))
}
