package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/subscription"
	"gorm.io/gorm"
)

// BillingService fronts the billing provider: it creates checkout or portal
// sessions and applies webhook events to the User's denormalized
// subscription fields.
type BillingService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewBillingService(db *gorm.DB, cfg *config.Config) *BillingService {
	stripe.Key = cfg.StripeSecretKey
	return &BillingService{db: db, cfg: cfg}
}

// CreateSession returns a billing-portal URL for subscribed customers and a
// checkout URL for everyone else.
func (s *BillingService) CreateSession(userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return "", ErrUserNotFound
	}

	if user.IsSubscribed() && user.StripeCustomerID != nil {
		params := &stripe.BillingPortalSessionParams{
			Customer:  stripe.String(*user.StripeCustomerID),
			ReturnURL: stripe.String(s.cfg.BillingReturnURL),
		}
		sess, err := portalsession.New(params)
		if err != nil {
			return "", fmt.Errorf("failed to create billing portal session: %w", err)
		}
		return sess.URL, nil
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:               stripe.String(s.cfg.BillingReturnURL),
		CancelURL:                stripe.String(s.cfg.BillingReturnURL),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.StripeAdminPriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("user_id", userID.String())

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhookEvent applies a verified billing event to the user row.
func (s *BillingService) HandleWebhookEvent(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(event)
	case "invoice.payment_succeeded":
		return s.handleInvoicePaid(event)
	case "customer.subscription.updated":
		return s.handleSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(event)
	default:
		return nil
	}
}

func (s *BillingService) handleCheckoutCompleted(event *stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	rawUserID, ok := sess.Metadata["user_id"]
	if !ok {
		return fmt.Errorf("checkout session %s carries no user_id metadata", sess.ID)
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return fmt.Errorf("checkout session %s carries a malformed user_id: %w", sess.ID, err)
	}

	if sess.Subscription == nil {
		return fmt.Errorf("checkout session %s carries no subscription", sess.ID)
	}
	sub, err := subscription.Get(sess.Subscription.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to retrieve subscription %s: %w", sess.Subscription.ID, err)
	}

	return s.applySubscription(userID, sub)
}

// handleInvoicePaid refreshes the paid-through date on renewal invoices.
func (s *BillingService) handleInvoicePaid(event *stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}

	if inv.Parent == nil || inv.Parent.SubscriptionDetails == nil || inv.Parent.SubscriptionDetails.Subscription == nil {
		// one-off invoices carry no subscription
		return nil
	}
	subID := inv.Parent.SubscriptionDetails.Subscription.ID

	var user models.User
	if err := s.db.Where("stripe_subscription_id = ?", subID).First(&user).Error; err != nil {
		return nil
	}

	sub, err := subscription.Get(subID, nil)
	if err != nil {
		return fmt.Errorf("failed to retrieve subscription %s: %w", subID, err)
	}
	return s.applySubscription(user.ID, sub)
}

func (s *BillingService) handleSubscriptionUpdated(event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	var user models.User
	if err := s.db.Where("stripe_subscription_id = ?", sub.ID).First(&user).Error; err != nil {
		// updates can arrive before checkout completion has linked the user
		return nil
	}
	return s.applySubscription(user.ID, &sub)
}

func (s *BillingService) handleSubscriptionDeleted(event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	return s.db.Model(&models.User{}).
		Where("stripe_subscription_id = ?", sub.ID).
		Updates(map[string]interface{}{
			"stripe_price_id":           nil,
			"stripe_current_period_end": nil,
			"stripe_subscription_id":    nil,
		}).Error
}

func (s *BillingService) applySubscription(userID uuid.UUID, sub *stripe.Subscription) error {
	if len(sub.Items.Data) == 0 {
		return fmt.Errorf("subscription %s has no items", sub.ID)
	}
	item := sub.Items.Data[0]
	periodEnd := time.Unix(item.CurrentPeriodEnd, 0)

	updates := map[string]interface{}{
		"stripe_subscription_id":    sub.ID,
		"stripe_price_id":           item.Price.ID,
		"stripe_current_period_end": periodEnd,
	}
	if sub.Customer != nil {
		updates["stripe_customer_id"] = sub.Customer.ID
	}

	return s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}
