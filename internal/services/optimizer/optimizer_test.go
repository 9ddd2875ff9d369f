package optimizer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-optimizer/internal/cache"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
	"github.com/magabrotheeeer/subscription-optimizer/internal/storage/memory"
)

var lastPayment = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(keys ...string) error {
	return m.Called(keys).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seed(t *testing.T, store *memory.Store, owner string, subs ...models.Subscription) {
	t.Helper()
	for i := range subs {
		sub := subs[i]
		sub.Owner = owner
		require.NoError(t, store.UpsertSubscription(context.Background(), &sub))
	}
}

func sub(id string, amount int64, category models.Category, cycle, usage int) models.Subscription {
	return models.Subscription{
		ID:               id,
		Name:             id,
		Amount:           amount,
		Category:         category,
		BillingCycleDays: cycle,
		StartDate:        lastPayment.AddDate(-1, 0, 0),
		LastPayment:      lastPayment,
		UsageFrequency:   usage,
	}
}

func newService(store *memory.Store, now time.Time) *Service {
	return NewService(store, cache.Noop{}, time.Minute, clock.Fixed(now), discardLogger())
}

func TestService_MonthlySpending(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice",
		sub("a", 300, models.CategoryEntertainment, 30, 5),
		sub("b", 1200, models.CategoryProductivity, 365, 5),
	)
	seed(t, store, "bob", sub("c", 999, models.CategoryFood, 30, 5))

	svc := newService(store, lastPayment)

	total, err := svc.MonthlySpending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(398), total)

	total, err = svc.MonthlySpending(ctx, "carol")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_MonthlySpendingFromCache(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice", sub("a", 300, models.CategoryEntertainment, 30, 5))

	c := new(CacheMock)
	c.On("Get", "spending:alice", mock.Anything).Return(false, nil).Once()
	c.On("Set", "spending:alice", int64(300), time.Minute).Return(nil).Once()
	svc := NewService(store, c, time.Minute, clock.Fixed(lastPayment), discardLogger())

	total, err := svc.MonthlySpending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(300), total)

	c.On("Get", "spending:alice", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
		*args.Get(1).(*int64) = 777
	}).Once()
	total, err = svc.MonthlySpending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(777), total)
	c.AssertExpectations(t)
}

func TestService_SpendingByCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice",
		sub("a", 300, models.CategoryEntertainment, 30, 5),
		sub("b", 600, models.CategoryEntertainment, 60, 5),
		sub("c", 100, models.CategoryHealth, 30, 5),
	)
	svc := newService(store, lastPayment)

	total, err := svc.SpendingByCategory(ctx, "alice", "entertainment")
	require.NoError(t, err)
	assert.Equal(t, int64(600), total)

	total, err = svc.SpendingByCategory(ctx, "alice", "food")
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = svc.SpendingByCategory(ctx, "alice", "Entertainment")
	assert.ErrorIs(t, err, models.ErrInvalidCategory)
}

func TestService_UpcomingRenewals(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice", sub("a", 300, models.CategoryOther, 5, 5))

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"one second before payment", lastPayment.Add(5*24*time.Hour - time.Second), 1},
		{"exactly seven days ahead", lastPayment.Add(-2 * 24 * time.Hour), 1},
		{"outside window", lastPayment.Add(13 * 24 * time.Hour), 0},
		{"eight days ahead", lastPayment.Add(-3 * 24 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newService(store, tt.now).UpcomingRenewals(ctx, "alice")
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestService_RarelyUsed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice",
		sub("a", 100, models.CategoryOther, 30, 0),
		sub("b", 100, models.CategoryOther, 30, 3),
		sub("c", 100, models.CategoryOther, 30, 4),
	)
	svc := newService(store, lastPayment.Add(20*24*time.Hour))

	got, err := svc.RarelyUsed(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, int64(30), got[0].EstimatedDaysUnused)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, int64(14), got[1].EstimatedDaysUnused)
}

func TestService_GenerateSuggestions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice",
		sub("a-rare", 500, models.CategoryOther, 30, 1),
		sub("b-both", 700, models.CategoryOther, 5, 2),
		sub("c-busy", 900, models.CategoryOther, 30, 9),
	)
	svc := newService(store, lastPayment.Add(24*time.Hour))

	got, err := svc.GenerateSuggestions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, models.SuggestionCancel, got[0].Type)
	assert.Equal(t, "a-rare", got[0].SubscriptionID)
	assert.Equal(t, int64(500), got[0].EstimatedSavings)

	assert.Equal(t, models.SuggestionCancel, got[1].Type)
	assert.Equal(t, "b-both", got[1].SubscriptionID)

	assert.Equal(t, models.SuggestionReview, got[2].Type)
	assert.Equal(t, "b-both", got[2].SubscriptionID)
	assert.Zero(t, got[2].EstimatedSavings)

	for i, sg := range got {
		assert.Equal(t, int64(i+1), sg.ID)
		assert.LessOrEqual(t, len(sg.Reason), models.MaxReasonLen)
	}

	stored, err := svc.ListSuggestions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestService_GenerateTwiceAllocatesFreshIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice", sub("a", 500, models.CategoryOther, 30, 1))
	seed(t, store, "bob", sub("b", 500, models.CategoryOther, 30, 0))
	svc := newService(store, lastPayment.Add(24*time.Hour))

	first, err := svc.GenerateSuggestions(ctx, "alice")
	require.NoError(t, err)
	other, err := svc.GenerateSuggestions(ctx, "bob")
	require.NoError(t, err)
	second, err := svc.GenerateSuggestions(ctx, "alice")
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, other, 1)
	require.Len(t, second, 1)
	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, int64(2), other[0].ID)
	assert.Equal(t, int64(3), second[0].ID)

	stored, err := svc.ListSuggestions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestService_GenerateNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "alice", sub("a", 500, models.CategoryOther, 30, 9))
	svc := newService(store, lastPayment.Add(24*time.Hour))

	got, err := svc.GenerateSuggestions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got)

	stored, err := svc.ListSuggestions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestService_YearlySpendingChange(t *testing.T) {
	svc := newService(memory.New(), lastPayment)
	assert.Equal(t, models.YearlySpendingChange{}, svc.YearlySpendingChange(context.Background(), "alice", 2024, 2023))
	assert.Equal(t, models.YearlySpendingChange{}, svc.YearlySpendingChange(context.Background(), "bob", 1, 9999))
}
