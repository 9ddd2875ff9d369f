// Package services содержит планировщик напоминаний о скором продлении подписок.
// Планировщик только читает хранилище и публикует сообщения в RabbitMQ.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/analytics"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/metrics"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// SubscriptionRepository — доступ на чтение к подпискам всех владельцев.
type SubscriptionRepository interface {
	ListOwners(ctx context.Context) ([]string, error)
	ListSubscriptions(ctx context.Context, owner string) ([]*models.Subscription, error)
}

// SchedulerService периодически ищет подписки со скорым продлением.
type SchedulerService struct {
	repo  SubscriptionRepository
	clock clock.Clock
	log   *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, clk clock.Clock, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

// Run выполняет проход сразу и затем с периодом interval, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context, channel rabbitmq.Channel, interval time.Duration) {
	s.PublishUpcomingRenewals(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.PublishUpcomingRenewals(ctx, channel)
		}
	}
}

// PublishUpcomingRenewals публикует по одному напоминанию на каждую подписку
// со скорым продлением и возвращает число опубликованных сообщений.
func (s *SchedulerService) PublishUpcomingRenewals(ctx context.Context, channel rabbitmq.Channel) int {
	s.log.Info("starting search for upcoming renewals")
	owners, err := s.repo.ListOwners(ctx)
	if err != nil {
		s.log.Error("failed to list owners", sl.Err(err))
		return 0
	}

	now := s.clock.Now()
	published := 0
	for _, owner := range owners {
		subs, err := s.repo.ListSubscriptions(ctx, owner)
		if err != nil {
			s.log.Error("failed to list subscriptions", slog.String("owner", owner), sl.Err(err))
			continue
		}
		for _, sub := range analytics.UpcomingRenewals(subs, now) {
			reminder := models.RenewalReminder{
				MessageID:      uuid.NewString(),
				Owner:          owner,
				SubscriptionID: sub.ID,
				Name:           sub.Name,
				Amount:         sub.Amount,
				NextPayment:    analytics.NextPayment(sub),
			}
			err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, rabbitmq.RenewalRoutingKey, reminder)
			if err != nil {
				s.log.Error("failed to publish message", slog.String("owner", owner), sl.Err(err))
				continue
			}
			metrics.RemindersPublished.Inc()
			published++
		}
	}
	if published == 0 {
		s.log.Info("no upcoming renewals found")
		return 0
	}
	s.log.Info("published renewal reminders", "count", published)
	return published
}
