// Package set реализует HTTP-обработчик установки месячного лимита по категории.
package set

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// Handler обрабатывает запросы на установку бюджета.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает метод установки бюджета.
type Service interface {
	SetBudget(ctx context.Context, owner, category string, monthlyLimit int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Установить бюджет категории
// @Description Устанавливает или перезаписывает месячный лимит по категории. Лимит носит справочный характер.
// @Tags Budgets
// @Accept  json
// @Produce  json
// @Param request body models.DummyBudget true "Категория и лимит"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестная категория или некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /budgets [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.set"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBudget
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	owner, ok := middlewarectx.OwnerFromContext(r.Context())
	if !ok {
		log.Error("owner not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.SetBudget(r.Context(), owner, req.Category, req.MonthlyLimit); err != nil {
		log.Error("failed to set budget", sl.Err(err))
		w.WriteHeader(response.StatusFor(err))
		render.JSON(w, r, response.Error(response.MessageFor(err, "could not set budget")))
		return
	}

	log.Info("budget set", slog.String("category", req.Category))
	render.JSON(w, r, response.OK())
}
