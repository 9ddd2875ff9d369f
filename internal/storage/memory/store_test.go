package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-optimizer/internal/models"
)

var now = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

func newSub(owner, id string) *models.Subscription {
	return &models.Subscription{
		Owner:            owner,
		ID:               id,
		Name:             "Service " + id,
		Amount:           500,
		Category:         models.CategoryEntertainment,
		BillingCycleDays: 30,
		StartDate:        now,
		LastPayment:      now,
		UsageFrequency:   5,
	}
}

func TestStore_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.UpsertSubscription(ctx, newSub("alice", "netflix")))
	require.NoError(t, s.UpsertSubscription(ctx, newSub("bob", "netflix")))
	require.NoError(t, s.UpdateUsageFrequency(ctx, "alice", "netflix", 1))

	bob, err := s.GetSubscription(ctx, "bob", "netflix")
	require.NoError(t, err)
	assert.Equal(t, 5, bob.UsageFrequency)

	_, err = s.GetSubscription(ctx, "carol", "netflix")
	assert.True(t, errors.Is(err, models.ErrInvalidSubscription))

	owners, err := s.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)
}

func TestStore_ListSubscriptionsOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"zoom", "adobe", "miro"} {
		require.NoError(t, s.UpsertSubscription(ctx, newSub("alice", id)))
	}

	subs, err := s.ListSubscriptions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "adobe", subs[0].ID)
	assert.Equal(t, "miro", subs[1].ID)
	assert.Equal(t, "zoom", subs[2].ID)

	empty, err := s.ListSubscriptions(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_RecordPayment(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.UpsertSubscription(ctx, newSub("alice", "netflix")))

	later := now.Add(48 * time.Hour)
	require.NoError(t, s.RecordPayment(ctx, models.PaymentRecord{Owner: "alice", SubscriptionID: "netflix", PaidAt: later, Amount: 700}))
	require.NoError(t, s.RecordPayment(ctx, models.PaymentRecord{Owner: "alice", SubscriptionID: "netflix", PaidAt: later, Amount: 800}))

	sub, err := s.GetSubscription(ctx, "alice", "netflix")
	require.NoError(t, err)
	assert.Equal(t, int64(800), sub.Amount)
	assert.True(t, later.Equal(sub.LastPayment))

	payments, err := s.ListPayments(ctx, "alice", "netflix")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, int64(800), payments[0].Amount)

	err = s.RecordPayment(ctx, models.PaymentRecord{Owner: "alice", SubscriptionID: "missing", PaidAt: later, Amount: 1})
	assert.True(t, errors.Is(err, models.ErrInvalidSubscription))
}

func TestStore_DeleteKeepsPayments(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.UpsertSubscription(ctx, newSub("alice", "netflix")))
	require.NoError(t, s.RecordPayment(ctx, models.PaymentRecord{Owner: "alice", SubscriptionID: "netflix", PaidAt: now, Amount: 500}))

	require.NoError(t, s.DeleteSubscription(ctx, "alice", "netflix"))
	assert.True(t, errors.Is(s.DeleteSubscription(ctx, "alice", "netflix"), models.ErrInvalidSubscription))
	assert.True(t, errors.Is(s.UpdateUsageFrequency(ctx, "alice", "netflix", 3), models.ErrInvalidSubscription))

	payments, err := s.ListPayments(ctx, "alice", "netflix")
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestStore_Budgets(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SetBudget(ctx, models.BudgetLimit{Owner: "alice", Category: models.CategoryFood, MonthlyLimit: 100}))
	require.NoError(t, s.SetBudget(ctx, models.BudgetLimit{Owner: "alice", Category: models.CategoryFood, MonthlyLimit: 250}))
	require.NoError(t, s.SetBudget(ctx, models.BudgetLimit{Owner: "alice", Category: models.CategoryEntertainment, MonthlyLimit: 90}))

	budgets, err := s.ListBudgets(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, models.CategoryEntertainment, budgets[0].Category)
	assert.Equal(t, int64(250), budgets[1].MonthlyLimit)
}

func TestStore_SuggestionIDsSharedAcrossOwners(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := []*models.Suggestion{
		{Owner: "alice", SubscriptionID: "a", Type: models.SuggestionCancel},
		{Owner: "alice", SubscriptionID: "b", Type: models.SuggestionReview},
	}
	second := []*models.Suggestion{{Owner: "bob", SubscriptionID: "c", Type: models.SuggestionCancel}}
	third := []*models.Suggestion{{Owner: "alice", SubscriptionID: "a", Type: models.SuggestionCancel}}

	require.NoError(t, s.CreateSuggestions(ctx, first))
	require.NoError(t, s.CreateSuggestions(ctx, second))
	require.NoError(t, s.CreateSuggestions(ctx, third))

	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, int64(2), first[1].ID)
	assert.Equal(t, int64(3), second[0].ID)
	assert.Equal(t, int64(4), third[0].ID)

	alice, err := s.ListSuggestions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice, 3)
	assert.Equal(t, []int64{1, 2, 4}, []int64{alice[0].ID, alice[1].ID, alice[2].ID})
}
