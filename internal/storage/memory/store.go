// Package memory реализует хранилище подписок в памяти процесса.
// Используется при storage_driver: memory и в тестах сервисов.
// Все операции выполняются под одним мьютексом, поэтому каждая
// операция атомарна и видит согласованное состояние.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

type subKey struct {
	owner string
	id    string
}

type paymentKey struct {
	owner  string
	subID  string
	paidAt int64
}

type budgetKey struct {
	owner    string
	category models.Category
}

// Store хранит все записи в map-ах, ключи которых всегда начинаются с владельца.
type Store struct {
	mu sync.RWMutex

	subscriptions map[subKey]models.Subscription
	payments      map[paymentKey]models.PaymentRecord
	budgets       map[budgetKey]models.BudgetLimit
	suggestions   []models.Suggestion

	// lastSuggestionID — общий для всех владельцев счётчик идентификаторов рекомендаций.
	lastSuggestionID int64
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		subscriptions: make(map[subKey]models.Subscription),
		payments:      make(map[paymentKey]models.PaymentRecord),
		budgets:       make(map[budgetKey]models.BudgetLimit),
	}
}

func notFound(op, owner, id string) error {
	return fmt.Errorf("%s: subscription %q of %q not found: %w: %w", op, id, owner, models.ErrInvalidSubscription, models.ErrSubscriptionNotFound)
}

// UpsertSubscription вставляет или перезаписывает подписку.
func (s *Store) UpsertSubscription(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscriptions[subKey{sub.Owner, sub.ID}] = *sub
	return nil
}

// GetSubscription возвращает подписку владельца по ID.
func (s *Store) GetSubscription(_ context.Context, owner, id string) (*models.Subscription, error) {
	const op = "storage.memory.GetSubscription"
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscriptions[subKey{owner, id}]
	if !ok {
		return nil, notFound(op, owner, id)
	}
	return &sub, nil
}

// UpdateUsageFrequency меняет только частоту использования.
func (s *Store) UpdateUsageFrequency(_ context.Context, owner, id string, frequency int) error {
	const op = "storage.memory.UpdateUsageFrequency"
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subKey{owner, id}
	sub, ok := s.subscriptions[key]
	if !ok {
		return notFound(op, owner, id)
	}
	sub.UsageFrequency = frequency
	s.subscriptions[key] = sub
	return nil
}

// RecordPayment добавляет платёж и обновляет сумму и дату последнего платежа подписки.
func (s *Store) RecordPayment(_ context.Context, payment models.PaymentRecord) error {
	const op = "storage.memory.RecordPayment"
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subKey{payment.Owner, payment.SubscriptionID}
	sub, ok := s.subscriptions[key]
	if !ok {
		return notFound(op, payment.Owner, payment.SubscriptionID)
	}
	s.payments[paymentKey{payment.Owner, payment.SubscriptionID, payment.PaidAt.Unix()}] = payment

	sub.LastPayment = payment.PaidAt
	sub.Amount = payment.Amount
	s.subscriptions[key] = sub
	return nil
}

// DeleteSubscription удаляет подписку. Платежи и рекомендации остаются.
func (s *Store) DeleteSubscription(_ context.Context, owner, id string) error {
	const op = "storage.memory.DeleteSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subKey{owner, id}
	if _, ok := s.subscriptions[key]; !ok {
		return notFound(op, owner, id)
	}
	delete(s.subscriptions, key)
	return nil
}

// ListSubscriptions возвращает подписки владельца, упорядоченные по ID.
func (s *Store) ListSubscriptions(_ context.Context, owner string) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Subscription, 0)
	for k, sub := range s.subscriptions {
		if k.owner != owner {
			continue
		}
		item := sub
		result = append(result, &item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListOwners возвращает всех владельцев, у которых есть подписки.
func (s *Store) ListOwners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for k := range s.subscriptions {
		seen[k.owner] = struct{}{}
	}
	owners := make([]string, 0, len(seen))
	for o := range seen {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners, nil
}

// ListPayments возвращает историю платежей по подписке в хронологическом порядке.
func (s *Store) ListPayments(_ context.Context, owner, subscriptionID string) ([]*models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.PaymentRecord, 0)
	for k, p := range s.payments {
		if k.owner != owner || k.subID != subscriptionID {
			continue
		}
		item := p
		result = append(result, &item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PaidAt.Before(result[j].PaidAt) })
	return result, nil
}

// SetBudget вставляет или перезаписывает лимит по категории.
func (s *Store) SetBudget(_ context.Context, budget models.BudgetLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgets[budgetKey{budget.Owner, budget.Category}] = budget
	return nil
}

// ListBudgets возвращает лимиты владельца в порядке models.Categories.
func (s *Store) ListBudgets(_ context.Context, owner string) ([]*models.BudgetLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.BudgetLimit, 0)
	for _, c := range models.Categories() {
		if b, ok := s.budgets[budgetKey{owner, c}]; ok {
			item := b
			result = append(result, &item)
		}
	}
	return result, nil
}

// CreateSuggestions выдаёт каждой рекомендации следующий ID счётчика и сохраняет их.
// Счётчик и записи меняются под одной блокировкой, поэтому ID не теряются и не повторяются.
func (s *Store) CreateSuggestions(_ context.Context, suggestions []*models.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sg := range suggestions {
		s.lastSuggestionID++
		sg.ID = s.lastSuggestionID
		s.suggestions = append(s.suggestions, *sg)
	}
	return nil
}

// ListSuggestions возвращает рекомендации владельца в порядке возрастания ID.
func (s *Store) ListSuggestions(_ context.Context, owner string) ([]*models.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Suggestion, 0)
	for _, sg := range s.suggestions {
		if sg.Owner != owner {
			continue
		}
		item := sg
		result = append(result, &item)
	}
	return result, nil
}
