// Package services содержит бизнес-логику учёта подписок владельца:
// добавление, изменение частоты использования, запись платежей,
// удаление и установку бюджетов по категориям.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/subscription-optimizer/internal/cache"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/export"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/metrics"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками, платежами и бюджетами в хранилище.
type SubscriptionRepository interface {
	// UpsertSubscription вставляет или перезаписывает подписку.
	UpsertSubscription(ctx context.Context, sub *models.Subscription) error
	// UpdateUsageFrequency меняет частоту использования существующей подписки.
	UpdateUsageFrequency(ctx context.Context, owner, id string, frequency int) error
	// RecordPayment атомарно добавляет платёж и обновляет подписку.
	RecordPayment(ctx context.Context, payment models.PaymentRecord) error
	// DeleteSubscription удаляет подписку.
	DeleteSubscription(ctx context.Context, owner, id string) error
	// ListSubscriptions возвращает подписки владельца.
	ListSubscriptions(ctx context.Context, owner string) ([]*models.Subscription, error)
	// ListPayments возвращает историю платежей по подписке.
	ListPayments(ctx context.Context, owner, subscriptionID string) ([]*models.PaymentRecord, error)
	// SetBudget вставляет или перезаписывает лимит по категории.
	SetBudget(ctx context.Context, budget models.BudgetLimit) error
	// ListBudgets возвращает лимиты владельца.
	ListBudgets(ctx context.Context, owner string) ([]*models.BudgetLimit, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Invalidate удаляет значения из кеша по ключам.
	Invalidate(keys ...string) error
}

// SubscriptionService реализует операции записи над подписками владельца.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	clock clock.Clock
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, clk clock.Clock, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		clock: clk,
		log:   log,
	}
}

func reject(kind error, format string, args ...any) error {
	metrics.ValidationFailures.WithLabelValues(kind.Error()).Inc()
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

func validFrequency(frequency int) bool {
	return frequency >= 0 && frequency <= models.MaxUsageFrequency
}

// Add добавляет подписку или перезаписывает существующую с тем же ID.
// Дата последнего платежа устанавливается в текущее время.
func (s *SubscriptionService) Add(ctx context.Context, owner string, req models.DummySubscription) error {
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		metrics.ValidationFailures.WithLabelValues(models.ErrInvalidCategory.Error()).Inc()
		return err
	}
	if req.BillingCycleDays <= 0 {
		return reject(models.ErrInvalidPeriod, "billing cycle must be positive, got %d", req.BillingCycleDays)
	}
	if !validFrequency(req.UsageFrequency) {
		return reject(models.ErrInvalidSubscription, "usage frequency %d out of range", req.UsageFrequency)
	}
	if req.ID == "" || utf8.RuneCountInString(req.ID) > models.MaxSubscriptionIDLen {
		return reject(models.ErrInvalidSubscription, "id must be 1..%d characters", models.MaxSubscriptionIDLen)
	}
	if utf8.RuneCountInString(req.Name) > models.MaxNameLen {
		return reject(models.ErrInvalidSubscription, "name must be at most %d characters", models.MaxNameLen)
	}
	if req.Amount < 0 {
		return reject(models.ErrInvalidSubscription, "amount must not be negative")
	}

	sub := &models.Subscription{
		Owner:            owner,
		ID:               req.ID,
		Name:             req.Name,
		Amount:           req.Amount,
		Category:         category,
		BillingCycleDays: req.BillingCycleDays,
		StartDate:        req.StartDate,
		LastPayment:      s.now(),
		UsageFrequency:   req.UsageFrequency,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return err
	}
	s.log.Info("subscription added", slog.String("owner", owner), slog.String("id", sub.ID))

	s.invalidate(owner)
	return nil
}

// UpdateUsage меняет частоту использования подписки.
func (s *SubscriptionService) UpdateUsage(ctx context.Context, owner, id string, frequency int) error {
	if !validFrequency(frequency) {
		return reject(models.ErrInvalidSubscription, "usage frequency %d out of range", frequency)
	}
	if err := s.repo.UpdateUsageFrequency(ctx, owner, id, frequency); err != nil {
		return err
	}
	s.log.Info("usage frequency updated", slog.String("owner", owner), slog.String("id", id),
		slog.Int("usage_frequency", frequency))
	return nil
}

// RecordPayment записывает платёж текущим временем и обновляет сумму подписки.
func (s *SubscriptionService) RecordPayment(ctx context.Context, owner, id string, amount int64) error {
	if amount < 0 {
		return reject(models.ErrInvalidSubscription, "amount must not be negative")
	}
	payment := models.PaymentRecord{
		Owner:          owner,
		SubscriptionID: id,
		PaidAt:         s.now(),
		Amount:         amount,
	}
	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		return err
	}
	metrics.PaymentsRecorded.Inc()
	s.log.Info("payment recorded", slog.String("owner", owner), slog.String("id", id), slog.Int64("amount", amount))

	s.invalidate(owner)
	return nil
}

// Delete удаляет подписку. История платежей и рекомендации сохраняются.
func (s *SubscriptionService) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.DeleteSubscription(ctx, owner, id); err != nil {
		return err
	}
	s.log.Info("subscription deleted", slog.String("owner", owner), slog.String("id", id))

	s.invalidate(owner)
	return nil
}

// List возвращает подписки владельца.
func (s *SubscriptionService) List(ctx context.Context, owner string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, owner)
}

// Payments возвращает историю платежей по подписке, в том числе удалённой.
func (s *SubscriptionService) Payments(ctx context.Context, owner, id string) ([]*models.PaymentRecord, error) {
	return s.repo.ListPayments(ctx, owner, id)
}

// SetBudget устанавливает месячный лимит по категории.
func (s *SubscriptionService) SetBudget(ctx context.Context, owner, rawCategory string, monthlyLimit int64) error {
	category, err := models.ParseCategory(rawCategory)
	if err != nil {
		metrics.ValidationFailures.WithLabelValues(models.ErrInvalidCategory.Error()).Inc()
		return err
	}
	budget := models.BudgetLimit{Owner: owner, Category: category, MonthlyLimit: monthlyLimit}
	if err := s.repo.SetBudget(ctx, budget); err != nil {
		return err
	}
	s.log.Info("budget set", slog.String("owner", owner), slog.String("category", category.String()),
		slog.Int64("monthly_limit", monthlyLimit))
	return nil
}

// Budgets возвращает лимиты владельца.
func (s *SubscriptionService) Budgets(ctx context.Context, owner string) ([]*models.BudgetLimit, error) {
	return s.repo.ListBudgets(ctx, owner)
}

// Export формирует xlsx-выгрузку подписок владельца.
func (s *SubscriptionService) Export(ctx context.Context, owner string) ([]byte, error) {
	subs, err := s.repo.ListSubscriptions(ctx, owner)
	if err != nil {
		return nil, err
	}
	return export.SubscriptionsXLSX(subs)
}

// IsValidationError сообщает, является ли ошибка ошибкой входных данных, а не хранилища.
func IsValidationError(err error) bool {
	return errors.Is(err, models.ErrInvalidCategory) ||
		errors.Is(err, models.ErrInvalidPeriod) ||
		errors.Is(err, models.ErrInvalidSubscription)
}

func (s *SubscriptionService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func (s *SubscriptionService) invalidate(owner string) {
	if err := s.cache.Invalidate(cache.SpendingKey(owner)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("owner", owner), sl.Err(err))
	}
}
