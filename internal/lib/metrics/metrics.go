// Package metrics объявляет Prometheus-метрики сервиса.
// Метрики регистрируются в стандартном реестре и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SuggestionsGenerated считает созданные рекомендации по типам.
	SuggestionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subscription_optimizer",
		Name:      "suggestions_generated_total",
		Help:      "Number of generated optimization suggestions by type.",
	}, []string{"type"})

	// PaymentsRecorded считает записанные платежи.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "subscription_optimizer",
		Name:      "payments_recorded_total",
		Help:      "Number of recorded subscription payments.",
	})

	// RemindersPublished считает опубликованные напоминания о продлении.
	RemindersPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "subscription_optimizer",
		Name:      "renewal_reminders_published_total",
		Help:      "Number of renewal reminders published to the broker.",
	})

	// ValidationFailures считает отклонённые операции по виду ошибки.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subscription_optimizer",
		Name:      "validation_failures_total",
		Help:      "Number of rejected operations by error kind.",
	}, []string{"kind"})
)
