// Package export формирует выгрузку подписок владельца в формате xlsx.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/analytics"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

// Header — заголовок листа с подписками.
var Header = []any{
	"id",
	"name",
	"category",
	"amount",
	"billing_cycle_days",
	"monthly_cost",
	"usage_frequency",
	"start_date",
	"last_payment",
	"next_payment",
}

const dateLayout = "2006-01-02"

// SubscriptionsXLSX возвращает xlsx-файл с одной строкой на подписку
// и итоговой строкой с суммарной месячной стоимостью.
func SubscriptionsXLSX(subs []*models.Subscription) ([]byte, error) {
	const op = "export.SubscriptionsXLSX"

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := Header
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("%s: header: %w", op, err)
	}

	row := 2
	for _, s := range subs {
		excelRow := []any{
			s.ID,
			s.Name,
			s.Category.String(),
			s.Amount,
			s.BillingCycleDays,
			analytics.MonthlyCost(s.Amount, s.BillingCycleDays),
			s.UsageFrequency,
			s.StartDate.Format(dateLayout),
			s.LastPayment.Format(dateLayout),
			analytics.NextPayment(s).Format(dateLayout),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("%s: cell: %w", op, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("%s: row: %w", op, err)
		}
		row++
	}

	totalRow := []any{"total", "", "", "", "", analytics.TotalMonthlySpending(subs)}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, fmt.Errorf("%s: cell: %w", op, err)
	}
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("%s: total: %w", op, err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}
	return buf.Bytes(), nil
}
