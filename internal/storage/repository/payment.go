package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// RecordPayment в одной транзакции обновляет сумму и дату последнего платежа подписки
// и добавляет запись в историю. Платёж на ту же дату перезаписывает предыдущий.
func (s *Storage) RecordPayment(ctx context.Context, payment models.PaymentRecord) error {
	const op = "storage.RecordPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx, `UPDATE subscriptions
			  SET amount = $1, last_payment = $2
			  WHERE owner = $3 AND id = $4`,
		payment.Amount, payment.PaidAt, payment.Owner, payment.SubscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return notFound(op, payment.Owner, payment.SubscriptionID)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO payments (owner, subscription_id, paid_at, amount)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (owner, subscription_id, paid_at) DO UPDATE SET amount = EXCLUDED.amount`,
		payment.Owner, payment.SubscriptionID, payment.PaidAt, payment.Amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает историю платежей по подписке в хронологическом порядке.
func (s *Storage) ListPayments(ctx context.Context, owner, subscriptionID string) ([]*models.PaymentRecord, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT owner, subscription_id, paid_at, amount
			  FROM payments
			  WHERE owner = $1 AND subscription_id = $2
			  ORDER BY paid_at`
	rows, err := s.DB.QueryContext(ctx, query, owner, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.PaymentRecord, 0)
	for rows.Next() {
		var p models.PaymentRecord
		if err := rows.Scan(&p.Owner, &p.SubscriptionID, &p.PaidAt, &p.Amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
