package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"lifefashion/internal/models"
)

const (
	// maxWebhookBody bounds the payload read from the gateway.
	maxWebhookBody = 64 * 1024
	// ledgerTTL keeps processed event ids around long past the gateway's
	// retry window.
	ledgerTTL = 24 * time.Hour
)

type verifyStripeRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Success string `json:"success"`
}

type verifyRazorpayRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PlaceStripe inserts a pending unpaid order and returns a hosted checkout
// URL. Stock is not touched until the signed webhook confirms payment.
func PlaceStripe(deps OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/stripe"
		defer handlePanic(c, route)

		if deps.Stripe == nil || !deps.Stripe.Configured() {
			respondError(c, http.StatusServiceUnavailable, "Stripe is not configured")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		items, err := validateOrderItems(req.Items)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		order := models.Order{
			OrderID:       generateOrderID(),
			UserID:        userID,
			Items:         items,
			Address:       req.Address,
			Amount:        req.Amount,
			PaymentMethod: paymentMethodStripe,
			Payment:       false,
			Status:        models.OrderStatusPlaced,
			Date:          time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := deps.DB.Collection("orders").InsertOne(ctx, order); err != nil {
			zap.L().Error("pending stripe order insert failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		origin := strings.TrimSpace(c.GetHeader("Origin"))
		successURL := origin + "/verify?success=true&orderId=" + order.OrderID
		cancelURL := origin + "/verify?success=false&orderId=" + order.OrderID

		sess, err := deps.Stripe.CreateCheckoutSession(order, deliveryCharge, successURL, cancelURL)
		if err != nil {
			// Leave no orphan behind when checkout could not be created.
			_, _ = deps.DB.Collection("orders").DeleteOne(ctx, bson.M{"orderId": order.OrderID})
			respondError(c, http.StatusBadGateway, "payment session creation failed")
			return
		}

		_, err = deps.DB.Collection("orders").UpdateOne(ctx,
			bson.M{"orderId": order.OrderID},
			bson.M{"$set": bson.M{"stripeSessionId": sess.ID}})
		if err != nil {
			zap.L().Warn("stripe session id store failed",
				zap.String("orderId", order.OrderID), zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "session_url": sess.URL, "orderId": order.OrderID})
	}
}

// StripeWebhook finalizes checkout sessions. This is the only path that may
// mark a Stripe order as paid.
func StripeWebhook(deps OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/webhook/stripe"
		defer handlePanic(c, route)

		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable payload")
			return
		}

		event, err := deps.Stripe.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			zap.L().Warn("stripe webhook signature rejected", zap.Error(err))
			respondError(c, http.StatusBadRequest, "signature verification failed")
			return
		}

		if event.Type != "checkout.session.completed" {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			zap.L().Error("stripe event decode failed", zap.String("eventId", event.ID), zap.Error(err))
			respondError(c, http.StatusBadRequest, "malformed event")
			return
		}

		orderID := sess.ClientReferenceID
		if orderID == "" {
			zap.L().Warn("checkout session without order reference", zap.String("eventId", event.ID))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := finalizeOrderPayment(ctx, deps, orderID, "stripe:"+event.ID); err != nil {
			zap.L().Error("stripe finalization failed",
				zap.String("orderId", orderID), zap.Error(err))
			// Non-2xx makes Stripe redeliver; finalization is idempotent.
			respondError(c, http.StatusInternalServerError, "finalization failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// VerifyStripe is the client redirect callback. A failure flag cancels the
// pending order; a success flag only reports what the webhook has decided.
func VerifyStripe(deps OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/verifyStripe"
		defer handlePanic(c, route)

		var req verifyStripeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if req.Success != "true" {
			// Cancelling can only touch the caller's own unpaid order.
			res, err := deps.DB.Collection("orders").DeleteOne(ctx, bson.M{
				"orderId": req.OrderID,
				"userId":  userID,
				"payment": false,
			})
			if err != nil {
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			if res.DeletedCount == 0 {
				respondError(c, http.StatusNotFound, "Order not found")
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment cancelled"})
			return
		}

		var order models.Order
		err := deps.DB.Collection("orders").FindOne(ctx, bson.M{
			"orderId": req.OrderID,
			"userId":  userID,
		}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Order not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": order.Payment, "payment": order.Payment})
	}
}

// PlaceRazorpay inserts a pending unpaid order and registers it with the
// gateway, receipt = our order id.
func PlaceRazorpay(deps OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/razorpay"
		defer handlePanic(c, route)

		if deps.Razorpay == nil || !deps.Razorpay.Configured() {
			respondError(c, http.StatusServiceUnavailable, "Razorpay is not configured")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		items, err := validateOrderItems(req.Items)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		order := models.Order{
			OrderID:       generateOrderID(),
			UserID:        userID,
			Items:         items,
			Address:       req.Address,
			Amount:        req.Amount,
			PaymentMethod: paymentMethodRazorpay,
			Payment:       false,
			Status:        models.OrderStatusPlaced,
			Date:          time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := deps.DB.Collection("orders").InsertOne(ctx, order); err != nil {
			zap.L().Error("pending razorpay order insert failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		gatewayOrder, err := deps.Razorpay.CreateOrder(order.Amount+deliveryCharge, order.OrderID)
		if err != nil {
			_, _ = deps.DB.Collection("orders").DeleteOne(ctx, bson.M{"orderId": order.OrderID})
			respondError(c, http.StatusBadGateway, "payment order creation failed")
			return
		}

		if gatewayOrderID, ok := gatewayOrder["id"].(string); ok {
			_, err = deps.DB.Collection("orders").UpdateOne(ctx,
				bson.M{"orderId": order.OrderID},
				bson.M{"$set": bson.M{"razorpayOrderId": gatewayOrderID}})
			if err != nil {
				zap.L().Warn("razorpay order id store failed",
					zap.String("orderId", order.OrderID), zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": gatewayOrder})
	}
}

// VerifyRazorpay finalizes a Razorpay payment. The checkout signature must
// verify before the gateway order is even fetched; the receipt on the fetched
// order, not the client, names which order gets paid.
func VerifyRazorpay(deps OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/verifyRazorpay"
		defer handlePanic(c, route)

		if deps.Razorpay == nil || !deps.Razorpay.Configured() {
			respondError(c, http.StatusServiceUnavailable, "Razorpay is not configured")
			return
		}

		var req verifyRazorpayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		if req.RazorpaySignature == "" || req.RazorpayPaymentID == "" ||
			!deps.Razorpay.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			zap.L().Warn("razorpay signature rejected",
				zap.String("razorpayOrderId", req.RazorpayOrderID))
			respondError(c, http.StatusBadRequest, "signature verification failed")
			return
		}

		gatewayOrder, err := deps.Razorpay.FetchOrder(req.RazorpayOrderID)
		if err != nil {
			respondError(c, http.StatusBadGateway, "gateway order lookup failed")
			return
		}

		orderID, _ := gatewayOrder["receipt"].(string)
		status, _ := gatewayOrder["status"].(string)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if status != "paid" {
			_, err := deps.DB.Collection("orders").DeleteOne(ctx, bson.M{
				"orderId": orderID,
				"userId":  userID,
				"payment": false,
			})
			if err != nil {
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment Failed"})
			return
		}

		if err := finalizeOrderPayment(ctx, deps, orderID, "razorpay:"+req.RazorpayOrderID); err != nil {
			zap.L().Error("razorpay finalization failed",
				zap.String("orderId", orderID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "finalization failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment Successful"})
	}
}

// finalizeOrderPayment applies a confirmed gateway payment exactly once. The
// ledger short-circuits replayed events; the payment:false filter inside the
// transaction is the hard guarantee against concurrent duplicates.
func finalizeOrderPayment(ctx context.Context, deps OrderDeps, orderID, eventID string) error {
	done, err := deps.Ledger.IsProcessed(ctx, eventID)
	if err != nil {
		zap.L().Warn("ledger check failed", zap.String("eventId", eventID), zap.Error(err))
	} else if done {
		return nil
	}

	session, err := deps.DB.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	var order models.Order
	var low []lowStockProduct
	finalized := false

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := deps.DB.Collection("orders").FindOne(sessCtx, bson.M{
			"orderId": orderID,
			"payment": false,
		}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			// Already paid, or unknown order id: nothing to apply.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		low, err = decrementStock(sessCtx, deps.DB, order.Items)
		if err != nil {
			return nil, err
		}

		res, err := deps.DB.Collection("orders").UpdateOne(sessCtx,
			bson.M{"orderId": orderID, "payment": false},
			bson.M{"$set": bson.M{"payment": true}})
		if err != nil {
			return nil, err
		}
		finalized = res.ModifiedCount == 1
		return nil, nil
	})
	if err != nil {
		return err
	}

	// Record the event only after the transaction landed, so a crash in
	// between causes a redelivery instead of a lost payment.
	if _, err := deps.Ledger.MarkProcessed(ctx, eventID, ledgerTTL); err != nil {
		zap.L().Warn("ledger mark failed", zap.String("eventId", eventID), zap.Error(err))
	}

	if !finalized {
		return nil
	}

	if err := clearCart(ctx, deps.DB, order.UserID); err != nil {
		zap.L().Warn("cart clear failed", zap.String("userId", order.UserID.Hex()), zap.Error(err))
	}

	go notifyAfterOrder(deps.Mail, order, low)

	zap.L().Info("payment finalized",
		zap.String("orderId", orderID), zap.String("eventId", eventID))
	return nil
}
