package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func subscriptionEvent(eventType, subID, priceID string, periodEnd time.Time) *stripe.Event {
	raw := fmt.Sprintf(`{
		"id": %q,
		"customer": {"id": "cus_test"},
		"items": {"data": [{"current_period_end": %d, "price": {"id": %q}}]}
	}`, subID, periodEnd.Unix(), priceID)
	return &stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestHandleSubscriptionUpdated(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db, testConfig())

	subID := "sub_123"
	user := seedUser(t, db, "payer@example.com")
	require.NoError(t, db.Model(user).Update("stripe_subscription_id", subID).Error)

	periodEnd := time.Now().Add(30 * 24 * time.Hour)
	event := subscriptionEvent("customer.subscription.updated", subID, "price_new", periodEnd)
	require.NoError(t, svc.HandleWebhookEvent(event))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NotNil(t, updated.StripePriceID)
	assert.Equal(t, "price_new", *updated.StripePriceID)
	require.NotNil(t, updated.StripeCustomerID)
	assert.Equal(t, "cus_test", *updated.StripeCustomerID)
	require.NotNil(t, updated.StripeCurrentPeriodEnd)
	assert.WithinDuration(t, periodEnd, *updated.StripeCurrentPeriodEnd, time.Second)
	assert.True(t, updated.IsSubscribed())
}

func TestHandleSubscriptionUpdatedUnknownSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db, testConfig())

	// An update for a subscription no user carries yet is not an error;
	// checkout completion will link it later.
	event := subscriptionEvent("customer.subscription.updated", "sub_unseen", "price_x", time.Now())
	require.NoError(t, svc.HandleWebhookEvent(event))
}

func TestHandleSubscriptionDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db, testConfig())

	subID := "sub_123"
	priceID := "price_old"
	periodEnd := time.Now().Add(24 * time.Hour)
	user := seedUser(t, db, "payer@example.com")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"stripe_subscription_id":    subID,
		"stripe_price_id":           priceID,
		"stripe_current_period_end": periodEnd,
	}).Error)

	event := subscriptionEvent("customer.subscription.deleted", subID, priceID, periodEnd)
	require.NoError(t, svc.HandleWebhookEvent(event))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Nil(t, updated.StripeSubscriptionID)
	assert.Nil(t, updated.StripePriceID)
	assert.Nil(t, updated.StripeCurrentPeriodEnd)
	assert.False(t, updated.IsSubscribed())
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db, testConfig())

	event := &stripe.Event{Type: "invoice.finalized", Data: &stripe.EventData{Raw: json.RawMessage("{}")}}
	require.NoError(t, svc.HandleWebhookEvent(event))
}
