package models

import "time"

// SuggestionType — тип рекомендации.
type SuggestionType string

const (
	SuggestionCancel      SuggestionType = "cancel"
	SuggestionReview      SuggestionType = "review"
	SuggestionDowngrade   SuggestionType = "downgrade"
	SuggestionConsolidate SuggestionType = "consolidate"
)

// MaxReasonLen — максимальная длина текста обоснования.
const MaxReasonLen = 200

// Suggestion — сохранённая рекомендация по одной подписке.
// ID выдаётся общим для всех владельцев монотонным счётчиком.
type Suggestion struct {
	Owner            string         `json:"-"`
	ID               int64          `json:"id"`
	SubscriptionID   string         `json:"subscription_id"`
	Type             SuggestionType `json:"type"`
	EstimatedSavings int64          `json:"estimated_savings"`
	Reason           string         `json:"reason"`
	CreatedAt        time.Time      `json:"created_at"`
}

// YearlySpendingChange — ответ операции сравнения год к году.
// Пока это заглушка с фиксированными значениями.
type YearlySpendingChange struct {
	CurrentYearTotal  int64   `json:"current_year_total"`
	PreviousYearTotal int64   `json:"previous_year_total"`
	ChangePercent     float64 `json:"change_percent"`
}

// RenewalReminder — сообщение планировщика о скором продлении.
type RenewalReminder struct {
	MessageID      string    `json:"message_id"`
	Owner          string    `json:"owner"`
	SubscriptionID string    `json:"subscription_id"`
	Name           string    `json:"name"`
	Amount         int64     `json:"amount"`
	NextPayment    time.Time `json:"next_payment"`
}
