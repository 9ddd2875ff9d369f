// Package optimizer собирает HTTP-приложение трекера подписок.
package optimizer

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	analyticscategory "github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/analytics/category"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/analytics/renewals"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/analytics/spending"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/analytics/yearly"
	budgetlist "github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/budget/list"
	budgetset "github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/budget/set"
	paymentlist "github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/payment/list"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/payment/record"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/export"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/rarelyused"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/subscription/usage"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/suggestion/generate"
	suggestionlist "github.com/magabrotheeeer/subscription-optimizer/internal/http/handlers/suggestion/list"
	"github.com/magabrotheeeer/subscription-optimizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/jwt"
	optimizerservice "github.com/magabrotheeeer/subscription-optimizer/internal/services/optimizer"
	subservice "github.com/magabrotheeeer/subscription-optimizer/internal/services/subscription"
)

// Limits задаёт параметры ограничения частоты запросов.
type Limits struct {
	RPS   float64
	Burst int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, subscriptionService *subservice.SubscriptionService,
	optimizerService *optimizerservice.Service, maker jwt.Maker, limits Limits) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", health.New(logger).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(maker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RPS, limits.Burst))

		r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/export", export.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/rarely-used", rarelyused.New(logger, optimizerService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}/usage", usage.New(logger, subscriptionService).ServeHTTP)
		r.Post("/subscriptions/{id}/payments", record.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{id}/payments", paymentlist.New(logger, subscriptionService).ServeHTTP)

		r.Put("/budgets", budgetset.New(logger, subscriptionService).ServeHTTP)
		r.Get("/budgets", budgetlist.New(logger, subscriptionService).ServeHTTP)

		r.Get("/spending", spending.New(logger, optimizerService).ServeHTTP)
		r.Get("/spending/yearly", yearly.New(logger, optimizerService).ServeHTTP)
		r.Get("/spending/{category}", analyticscategory.New(logger, optimizerService).ServeHTTP)
		r.Get("/renewals", renewals.New(logger, optimizerService).ServeHTTP)

		r.Get("/suggestions", suggestionlist.New(logger, optimizerService).ServeHTTP)
		r.Post("/suggestions/generate", generate.New(logger, optimizerService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
