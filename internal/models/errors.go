package models

import "errors"

// Словарь доменных ошибок. Сервисы возвращают их (возможно, обёрнутыми),
// обработчики сравнивают через errors.Is.
var (
	// ErrInvalidCategory — категория не входит в фиксированный набор.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidPeriod — период списания не положительный.
	ErrInvalidPeriod = errors.New("invalid billing period")
	// ErrInvalidSubscription — частота использования вне [0,10] либо подписка не найдена.
	ErrInvalidSubscription = errors.New("invalid subscription")
	// ErrSubscriptionNotFound уточняет ErrInvalidSubscription: подписки с таким ID у владельца нет.
	// Хранилища оборачивают обе ошибки сразу.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrNotAuthorized зарезервирована, ни одна операция её не возвращает.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNoData зарезервирована, ни одна операция её не возвращает.
	ErrNoData = errors.New("no data")
)
