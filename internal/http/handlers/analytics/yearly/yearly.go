// Package yearly реализует HTTP-обработчик сравнения расходов год к году.
// Сейчас сервис возвращает фиксированную заглушку.
package yearly

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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
	YearlySpendingChange(ctx context.Context, owner string, currentYear, previousYear int) models.YearlySpendingChange
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изменение расходов год к году
// @Tags Analytics
// @Produce  json
// @Param current_year query int true "Текущий год"
// @Param previous_year query int true "Предыдущий год"
// @Success 200 {object} response.Response{data=models.YearlySpendingChange}
// @Failure 400 {object} response.ErrorResponse "Некорректный год"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /spending/yearly [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.yearly"
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

	query := r.URL.Query()
	currentYear, err := strconv.Atoi(query.Get("current_year"))
	if err != nil {
		log.Error("invalid current_year", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid current_year"))
		return
	}
	previousYear, err := strconv.Atoi(query.Get("previous_year"))
	if err != nil {
		log.Error("invalid previous_year", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid previous_year"))
		return
	}

	change := h.service.YearlySpendingChange(r.Context(), owner, currentYear, previousYear)
	render.JSON(w, r, response.OKWithData(change))
}
