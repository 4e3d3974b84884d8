package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"lifefashion/internal/models"
)

// StripeGateway creates hosted checkout sessions and verifies the webhook
// events that finalize them.
type StripeGateway struct {
	webhookSecret string
	logger        *zap.Logger
}

func NewStripeGateway(secretKey, webhookSecret string, logger *zap.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret, logger: logger}
}

func (g *StripeGateway) Configured() bool {
	return stripe.Key != ""
}

// CreateCheckoutSession builds a hosted checkout with one line item per order
// item plus the flat delivery charge. The order id travels in
// ClientReferenceID so the webhook can find the order again.
func (g *StripeGateway) CreateCheckoutSession(order models.Order, deliveryCharge float64, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items)+1)
	for _, item := range order.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(MinorUnits(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(Currency),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Delivery Charges"),
			},
			UnitAmount: stripe.Int64(MinorUnits(deliveryCharge)),
		},
		Quantity: stripe.Int64(1),
	})

	params := &stripe.CheckoutSessionParams{
		LineItems:         lineItems,
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(order.OrderID),
	}

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("failed to create checkout session",
			zap.String("orderId", order.OrderID), zap.Error(err))
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	g.logger.Info("created checkout session",
		zap.String("orderId", order.OrderID), zap.String("sessionId", sess.ID))
	return sess, nil
}

// VerifyEvent checks the Stripe-Signature header against the raw payload.
// Events that fail verification are worthless and must be discarded.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("stripe: verify webhook signature: %w", err)
	}
	return event, nil
}
