package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

const subscriptionColumns = `owner, id, name, amount, category, billing_cycle_days,
			      start_date, last_payment, usage_frequency`

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (*models.Subscription, error) {
	var item models.Subscription
	if err := row.Scan(&item.Owner, &item.ID, &item.Name, &item.Amount, &item.Category,
		&item.BillingCycleDays, &item.StartDate, &item.LastPayment, &item.UsageFrequency); err != nil {
		return nil, err
	}
	return &item, nil
}

func notFound(op, owner, id string) error {
	return fmt.Errorf("%s: subscription %q of %q not found: %w: %w", op, id, owner, models.ErrInvalidSubscription, models.ErrSubscriptionNotFound)
}

// UpsertSubscription вставляет подписку или перезаписывает существующую с тем же ключом.
func (s *Storage) UpsertSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (owner, id) DO UPDATE SET
			      name = EXCLUDED.name,
			      amount = EXCLUDED.amount,
			      category = EXCLUDED.category,
			      billing_cycle_days = EXCLUDED.billing_cycle_days,
			      start_date = EXCLUDED.start_date,
			      last_payment = EXCLUDED.last_payment,
			      usage_frequency = EXCLUDED.usage_frequency`
	_, err := s.DB.ExecContext(ctx, query,
		sub.Owner, sub.ID, sub.Name, sub.Amount, string(sub.Category), sub.BillingCycleDays,
		sub.StartDate, sub.LastPayment, sub.UsageFrequency)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription возвращает подписку владельца по ID.
func (s *Storage) GetSubscription(ctx context.Context, owner, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions WHERE owner = $1 AND id = $2`
	result, err := scanSubscription(s.DB.QueryRowContext(ctx, query, owner, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(op, owner, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUsageFrequency меняет только частоту использования подписки.
func (s *Storage) UpdateUsageFrequency(ctx context.Context, owner, id string, frequency int) error {
	const op = "storage.UpdateUsageFrequency"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET usage_frequency = $1 WHERE owner = $2 AND id = $3`
	result, err := s.DB.ExecContext(ctx, query, frequency, owner, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return notFound(op, owner, id)
	}
	return nil
}

// DeleteSubscription удаляет подписку. Платежи и рекомендации по ней остаются.
func (s *Storage) DeleteSubscription(ctx context.Context, owner, id string) error {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE owner = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query, owner, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return notFound(op, owner, id)
	}
	return nil
}

// ListSubscriptions возвращает все подписки владельца, упорядоченные по ID.
func (s *Storage) ListSubscriptions(ctx context.Context, owner string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE owner = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Subscription, 0)
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOwners возвращает владельцев, у которых есть хотя бы одна подписка.
func (s *Storage) ListOwners(ctx context.Context) ([]string, error) {
	const op = "storage.ListOwners"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT owner FROM subscriptions ORDER BY owner`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, owner)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
