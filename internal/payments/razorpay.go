package payments

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"go.uber.org/zap"
)

// RazorpayGateway creates gateway orders and verifies the checkout signature
// the client posts back after payment.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
	logger    *zap.Logger
}

func NewRazorpayGateway(keyID, keySecret string, logger *zap.Logger) *RazorpayGateway {
	var client *razorpay.Client
	if keyID != "" && keySecret != "" {
		client = razorpay.NewClient(keyID, keySecret)
	}
	return &RazorpayGateway{client: client, keySecret: keySecret, logger: logger}
}

func (g *RazorpayGateway) Configured() bool {
	return g.client != nil
}

// CreateOrder registers the amount with Razorpay and tags the gateway order
// with our order id via the receipt field.
func (g *RazorpayGateway) CreateOrder(amount float64, orderID string) (map[string]interface{}, error) {
	if g.client == nil {
		return nil, fmt.Errorf("razorpay: gateway not configured")
	}

	data := map[string]interface{}{
		"amount":   MinorUnits(amount),
		"currency": "INR",
		"receipt":  orderID,
	}

	gatewayOrder, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error("failed to create razorpay order",
			zap.String("orderId", orderID), zap.Error(err))
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}

	return gatewayOrder, nil
}

// FetchOrder reads the gateway order back so the receipt can be trusted over
// anything the client sent.
func (g *RazorpayGateway) FetchOrder(gatewayOrderID string) (map[string]interface{}, error) {
	if g.client == nil {
		return nil, fmt.Errorf("razorpay: gateway not configured")
	}

	gatewayOrder, err := g.client.Order.Fetch(gatewayOrderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay: fetch order %s: %w", gatewayOrderID, err)
	}
	return gatewayOrder, nil
}

// VerifyPaymentSignature checks the HMAC the Razorpay checkout returns. A
// valid signature proves the payment id belongs to the order id and was
// issued by the gateway.
func (g *RazorpayGateway) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, g.keySecret)
}
