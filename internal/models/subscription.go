// Package models содержит доменные структуры трекера подписок: подписки,
// историю платежей, бюджеты по категориям и рекомендации,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

const (
	// MaxSubscriptionIDLen — максимальная длина идентификатора подписки.
	MaxSubscriptionIDLen = 50
	// MaxNameLen — максимальная длина названия подписки.
	MaxNameLen = 100
	// MaxUsageFrequency — верхняя граница шкалы частоты использования.
	MaxUsageFrequency = 10
)

// Subscription представляет подписку владельца.
// Ключ записи — пара (Owner, ID).
type Subscription struct {
	Owner            string    `json:"-"`
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Amount           int64     `json:"amount"` // В минимальных единицах валюты
	Category         Category  `json:"category"`
	BillingCycleDays int       `json:"billing_cycle_days"`
	StartDate        time.Time `json:"start_date"`
	LastPayment      time.Time `json:"last_payment"`
	UsageFrequency   int       `json:"usage_frequency"` // 0 — не пользуюсь, 10 — постоянно
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем сервис провалидирует категорию и период и построит Subscription.
type DummySubscription struct {
	ID               string    `json:"id" validate:"required,max=50"`
	Name             string    `json:"name" validate:"max=100"`
	Amount           int64     `json:"amount" validate:"min=0"`
	Category         string    `json:"category"`
	BillingCycleDays int       `json:"billing_cycle_days"`
	StartDate        time.Time `json:"start_date"`
	UsageFrequency   int       `json:"usage_frequency"`
}

// DummyUsage — тело запроса на обновление частоты использования.
type DummyUsage struct {
	UsageFrequency *int `json:"usage_frequency" validate:"required"`
}

// DummyPayment — тело запроса на запись платежа.
type DummyPayment struct {
	Amount int64 `json:"amount" validate:"min=0"`
}

// PaymentRecord — запись в истории платежей.
// Ключ — (Owner, SubscriptionID, PaidAt); повторная запись на ту же дату перезаписывает сумму.
type PaymentRecord struct {
	Owner          string    `json:"-"`
	SubscriptionID string    `json:"subscription_id"`
	PaidAt         time.Time `json:"paid_at"`
	Amount         int64     `json:"amount"`
}

// RarelyUsedSubscription — редко используемая подписка с оценкой простоя.
type RarelyUsedSubscription struct {
	*Subscription
	EstimatedDaysUnused int64 `json:"estimated_days_unused"`
}
