package list

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
	Budgets(ctx context.Context, owner string) ([]*models.BudgetLimit, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Бюджеты по категориям
// @Tags Budgets
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.BudgetLimit}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /budgets [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.list"
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

	budgets, err := h.service.Budgets(r.Context(), owner)
	if err != nil {
		log.Error("failed to list budgets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list budgets"))
		return
	}

	render.JSON(w, r, response.OKWithData(budgets))
}
