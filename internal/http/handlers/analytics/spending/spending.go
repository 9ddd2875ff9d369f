// Package spending реализует HTTP-обработчик суммарных месячных расходов владельца.
//
// Стоимость каждой подписки приводится к 30-дневному месяцу с отбрасыванием остатка.
package spending

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
)

// Handler обрабатывает запросы на расчёт месячных расходов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает метод расчёта месячных расходов.
type Service interface {
	MonthlySpending(ctx context.Context, owner string) (int64, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Месячные расходы
// @Description Сумма месячной стоимости всех подписок владельца.
// @Tags Analytics
// @Produce  json
// @Success 200 {object} response.Response "data.total — сумма в минимальных единицах валюты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /spending [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.spending"
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

	total, err := h.service.MonthlySpending(r.Context(), owner)
	if err != nil {
		log.Error("failed to count monthly spending", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count monthly spending"))
		return
	}

	log.Info("monthly spending counted", slog.Int64("total", total))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"total": total,
	}))
}
