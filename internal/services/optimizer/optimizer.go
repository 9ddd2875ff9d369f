// Package optimizer реализует аналитику расходов владельца и генерацию
// рекомендаций по оптимизации подписок.
package optimizer

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-optimizer/internal/cache"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/analytics"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/metrics"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

const (
	cancelReason = "Subscription is rarely used; cancelling it saves its full amount."
	reviewReason = "Subscription renews within 7 days; review whether it is still needed."
)

// Repository определяет методы хранилища, нужные аналитике.
type Repository interface {
	ListSubscriptions(ctx context.Context, owner string) ([]*models.Subscription, error)
	// CreateSuggestions сохраняет рекомендации и присваивает им ID за одну атомарную операцию.
	CreateSuggestions(ctx context.Context, suggestions []*models.Suggestion) error
	ListSuggestions(ctx context.Context, owner string) ([]*models.Suggestion, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get получает значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set устанавливает значение в кеш с заданным TTL.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша по ключам.
	Invalidate(keys ...string) error
}

// Service считает расходы и формирует рекомендации.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	clock    clock.Clock
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, cacheTTL time.Duration, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		clock:    clk,
		log:      log,
	}
}

// MonthlySpending возвращает суммарную месячную стоимость подписок владельца.
func (s *Service) MonthlySpending(ctx context.Context, owner string) (int64, error) {
	key := cache.SpendingKey(owner)

	var total int64
	found, err := s.cache.Get(key, &total)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return total, nil
	}

	subs, err := s.repo.ListSubscriptions(ctx, owner)
	if err != nil {
		return 0, err
	}
	total = analytics.TotalMonthlySpending(subs)

	if err := s.cache.Set(key, total, s.cacheTTL); err != nil {
		s.log.Warn("failed to write cache", slog.String("key", key), sl.Err(err))
	}
	return total, nil
}

// SpendingByCategory возвращает месячную стоимость подписок одной категории.
func (s *Service) SpendingByCategory(ctx context.Context, owner, rawCategory string) (int64, error) {
	category, err := models.ParseCategory(rawCategory)
	if err != nil {
		metrics.ValidationFailures.WithLabelValues(models.ErrInvalidCategory.Error()).Inc()
		return 0, err
	}
	subs, err := s.repo.ListSubscriptions(ctx, owner)
	if err != nil {
		return 0, err
	}
	return analytics.SpendingByCategory(subs, category), nil
}

// UpcomingRenewals возвращает подписки, списание по которым ожидается в ближайшие 7 дней.
func (s *Service) UpcomingRenewals(ctx context.Context, owner string) ([]*models.Subscription, error) {
	subs, err := s.repo.ListSubscriptions(ctx, owner)
	if err != nil {
		return nil, err
	}
	return analytics.UpcomingRenewals(subs, s.clock.Now()), nil
}

// RarelyUsed возвращает редко используемые подписки с оценкой дней простоя.
func (s *Service) RarelyUsed(ctx context.Context, owner string) ([]*models.RarelyUsedSubscription, error) {
	subs, err := s.repo.ListSubscriptions(ctx, owner)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	rarely := analytics.RarelyUsed(subs)

	result := make([]*models.RarelyUsedSubscription, 0, len(rarely))
	for _, sub := range rarely {
		result = append(result, &models.RarelyUsedSubscription{
			Subscription:        sub,
			EstimatedDaysUnused: analytics.EstimatedDaysUnused(sub, now),
		})
	}
	return result, nil
}

// ListSuggestions возвращает все сохранённые рекомендации владельца.
func (s *Service) ListSuggestions(ctx context.Context, owner string) ([]*models.Suggestion, error) {
	key := cache.SuggestionsKey(owner)

	var suggestions []*models.Suggestion
	found, err := s.cache.Get(key, &suggestions)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return suggestions, nil
	}

	suggestions, err = s.repo.ListSuggestions(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, suggestions, s.cacheTTL); err != nil {
		s.log.Warn("failed to write cache", slog.String("key", key), sl.Err(err))
	}
	return suggestions, nil
}

// GenerateSuggestions формирует рекомендации по текущему состоянию подписок.
//
// Сначала идут рекомендации cancel для всех редко используемых подписок,
// затем review для всех подписок со скорым продлением. Подписка из обоих
// наборов получает две рекомендации. Все рекомендации сохраняются одной
// операцией, поэтому их ID идут подряд в порядке формирования.
func (s *Service) GenerateSuggestions(ctx context.Context, owner string) ([]*models.Suggestion, error) {
	subs, err := s.repo.ListSubscriptions(ctx, owner)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC().Truncate(time.Second)

	rarely := analytics.RarelyUsed(subs)
	upcoming := analytics.UpcomingRenewals(subs, now)

	suggestions := make([]*models.Suggestion, 0, len(rarely)+len(upcoming))
	for _, sub := range rarely {
		suggestions = append(suggestions, &models.Suggestion{
			Owner:            owner,
			SubscriptionID:   sub.ID,
			Type:             models.SuggestionCancel,
			EstimatedSavings: sub.Amount,
			Reason:           cancelReason,
			CreatedAt:        now,
		})
	}
	for _, sub := range upcoming {
		suggestions = append(suggestions, &models.Suggestion{
			Owner:            owner,
			SubscriptionID:   sub.ID,
			Type:             models.SuggestionReview,
			EstimatedSavings: 0,
			Reason:           reviewReason,
			CreatedAt:        now,
		})
	}
	if len(suggestions) == 0 {
		s.log.Info("no suggestions generated", slog.String("owner", owner))
		return suggestions, nil
	}

	if err := s.repo.CreateSuggestions(ctx, suggestions); err != nil {
		return nil, err
	}
	metrics.SuggestionsGenerated.WithLabelValues(string(models.SuggestionCancel)).Add(float64(len(rarely)))
	metrics.SuggestionsGenerated.WithLabelValues(string(models.SuggestionReview)).Add(float64(len(upcoming)))
	s.log.Info("suggestions generated", slog.String("owner", owner),
		slog.Int("cancel", len(rarely)), slog.Int("review", len(upcoming)))

	if err := s.cache.Invalidate(cache.SuggestionsKey(owner)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("owner", owner), sl.Err(err))
	}
	return suggestions, nil
}

// YearlySpendingChange возвращает фиксированную заглушку сравнения год к году.
func (s *Service) YearlySpendingChange(_ context.Context, _ string, currentYear, previousYear int) models.YearlySpendingChange {
	return analytics.YearlySpendingChange(currentYear, previousYear)
}
