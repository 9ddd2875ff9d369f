// Package analytics содержит чистые функции расчёта по подпискам:
// приведение стоимости к месяцу, прогноз продлений и оценку «заброшенности».
// Функции ничего не изменяют и не читают текущее время сами — его передаёт вызывающий.
package analytics

import (
	"time"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

const (
	// DaysPerMonth — длина нормализованного месяца в днях.
	DaysPerMonth = 30
	// SecondsPerDay — количество секунд в сутках.
	SecondsPerDay = 86400
	// RenewalWindowDays — горизонт, в котором продление считается скорым.
	RenewalWindowDays = 7
	// RarelyUsedThreshold — частота использования, не выше которой подписка считается редко используемой.
	RarelyUsedThreshold = 3
)

// MonthlyCost приводит стоимость подписки к 30-дневному периоду.
// Деление целочисленное, с отбрасыванием остатка. Период должен быть больше нуля.
func MonthlyCost(amount int64, billingCycleDays int) int64 {
	return amount * DaysPerMonth / int64(billingCycleDays)
}

// TotalMonthlySpending суммирует месячную стоимость всех подписок.
func TotalMonthlySpending(subs []*models.Subscription) int64 {
	var total int64
	for _, s := range subs {
		total += MonthlyCost(s.Amount, s.BillingCycleDays)
	}
	return total
}

// SpendingByCategory суммирует месячную стоимость подписок указанной категории.
func SpendingByCategory(subs []*models.Subscription, category models.Category) int64 {
	return TotalMonthlySpending(Filter(subs, func(s *models.Subscription) bool {
		return s.Category == category
	}))
}

// NextPayment возвращает дату следующего списания.
func NextPayment(s *models.Subscription) time.Time {
	return s.LastPayment.Add(time.Duration(s.BillingCycleDays) * SecondsPerDay * time.Second)
}

// IsUpcomingRenewal сообщает, попадает ли следующее списание в окно
// [now, now + 7 дней]. Просроченные списания в окно не входят.
// Нижняя граница нужна: без неё подписка с циклом 5 дней считалась бы
// продлевающейся и через 13 дней после платежа.
func IsUpcomingRenewal(s *models.Subscription, now time.Time) bool {
	next := NextPayment(s).Unix()
	return next >= now.Unix() && next <= now.Unix()+RenewalWindowDays*SecondsPerDay
}

// UpcomingRenewals отбирает подписки со скорым продлением, сохраняя порядок.
func UpcomingRenewals(subs []*models.Subscription, now time.Time) []*models.Subscription {
	return Filter(subs, func(s *models.Subscription) bool {
		return IsUpcomingRenewal(s, now)
	})
}

// IsRarelyUsed сообщает, используется ли подписка редко.
func IsRarelyUsed(s *models.Subscription) bool {
	return s.UsageFrequency <= RarelyUsedThreshold
}

// RarelyUsed отбирает редко используемые подписки, сохраняя порядок.
func RarelyUsed(subs []*models.Subscription) []*models.Subscription {
	return Filter(subs, IsRarelyUsed)
}

// EstimatedDaysUnused оценивает, сколько дней подписка простаивала.
//
// При нулевой частоте подписка считается неиспользуемой весь период.
// Иначе прошедшие с последнего платежа полные сутки масштабируются на (10 - частота) / 10.
// Если последний платёж в будущем относительно now, прошедшее время считается нулевым.
func EstimatedDaysUnused(s *models.Subscription, now time.Time) int64 {
	if s.UsageFrequency == 0 {
		return int64(s.BillingCycleDays)
	}
	elapsed := now.Unix() - s.LastPayment.Unix()
	if elapsed < 0 {
		elapsed = 0
	}
	days := elapsed / SecondsPerDay
	return days * int64(models.MaxUsageFrequency-s.UsageFrequency) / models.MaxUsageFrequency
}

// YearlySpendingChange — заглушка сравнения расходов год к году.
// Возвращает одно и то же значение независимо от аргументов.
func YearlySpendingChange(_, _ int) models.YearlySpendingChange {
	return models.YearlySpendingChange{}
}

// Filter возвращает новый срез из элементов, для которых keep вернул true.
func Filter(subs []*models.Subscription, keep func(*models.Subscription) bool) []*models.Subscription {
	result := make([]*models.Subscription, 0, len(subs))
	for _, s := range subs {
		if keep(s) {
			result = append(result, s)
		}
	}
	return result
}
