package models

// BudgetLimit — месячный лимит владельца по категории.
// Хранится справочно, ни одна операция его не применяет.
type BudgetLimit struct {
	Owner        string   `json:"-"`
	Category     Category `json:"category"`
	MonthlyLimit int64    `json:"monthly_limit"`
}

// DummyBudget — тело запроса на установку лимита.
type DummyBudget struct {
	Category     string `json:"category" validate:"required"`
	MonthlyLimit int64  `json:"monthly_limit" validate:"min=0"`
}
