package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"lifefashion/internal/ledger"
	"lifefashion/internal/mailer"
	"lifefashion/internal/models"
	"lifefashion/internal/payments"
)

const (
	deliveryCharge    = 450.0
	lowStockThreshold = 5

	paymentMethodCOD      = "COD"
	paymentMethodStripe   = "Stripe"
	paymentMethodRazorpay = "Razorpay"
)

// OrderDeps bundles everything the order handlers touch.
type OrderDeps struct {
	DB       *mongo.Database
	Mail     mailer.Sender
	Stripe   *payments.StripeGateway
	Razorpay *payments.RazorpayGateway
	Ledger   ledger.Store
}

type orderItemRequest struct {
	ProductID string  `json:"_id" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity" binding:"required"`
}

type placeOrderRequest struct {
	Items   []orderItemRequest  `json:"items" binding:"required"`
	Amount  float64             `json:"amount" binding:"required"`
	Address models.OrderAddress `json:"address" binding:"required"`
}

type orderStatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

type orderDeleteRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// generateOrderID builds a human-readable id from the tail of the unix
// millisecond clock and a random 4-digit suffix, e.g. ORD-847291-0173.
func generateOrderID() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD-%s-%04d", millis, suffix)
}

// validateOrderItems converts the request lines into order snapshots.
func validateOrderItems(items []orderItemRequest) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, errors.New("at least one item is required")
	}

	parsed := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, errors.New("invalid product id")
		}
		if item.Quantity <= 0 {
			return nil, errors.New("quantity must be greater than zero")
		}
		if item.Price < 0 {
			return nil, errors.New("price cannot be negative")
		}
		parsed = append(parsed, models.OrderItem{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			Size:      strings.TrimSpace(item.Size),
			Quantity:  item.Quantity,
		})
	}
	return parsed, nil
}

type lowStockProduct struct {
	Name     string
	Quantity int
}

// needsRestock reports whether a post-decrement quantity should trigger the
// low-stock alert.
func needsRestock(quantity int) bool {
	return quantity <= lowStockThreshold
}

// decrementStock floors every product quantity at zero via a pipeline update
// and returns the products that ended at or below the restock threshold.
// Must run inside a session transaction.
func decrementStock(sessCtx mongo.SessionContext, db *mongo.Database, items []models.OrderItem) ([]lowStockProduct, error) {
	var low []lowStockProduct
	after := options.After

	for _, item := range items {
		update := bson.A{bson.M{"$set": bson.M{
			"quantity": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$quantity", item.Quantity}}}},
		}}}

		var product models.Product
		err := db.Collection("products").FindOneAndUpdate(
			sessCtx,
			bson.M{"_id": item.ProductID},
			update,
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			// Product removed from the catalog after it entered a cart;
			// the order still goes through with the snapshot data.
			zap.L().Warn("ordered product no longer exists",
				zap.String("productId", item.ProductID.Hex()))
			continue
		}
		if err != nil {
			return nil, err
		}

		if needsRestock(product.Quantity) {
			low = append(low, lowStockProduct{Name: product.Name, Quantity: product.Quantity})
		}
	}
	return low, nil
}

func clearCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) error {
	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"cartData": models.CartData{}, "updatedAt": time.Now()},
	})
	return err
}

// notifyAfterOrder sends the confirmation and any low-stock alerts. Failures
// are logged; the order is already committed.
func notifyAfterOrder(mail mailer.Sender, order models.Order, low []lowStockProduct) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if order.Address.Email != "" {
		name := strings.TrimSpace(order.Address.FirstName + " " + order.Address.LastName)
		if err := mail.SendOrderConfirmation(ctx, order.Address.Email, name, order.OrderID); err != nil {
			zap.L().Warn("order confirmation email failed",
				zap.String("orderId", order.OrderID), zap.Error(err))
		}
	}

	for _, product := range low {
		if err := mail.SendLowStockAlert(ctx, product.Name, product.Quantity); err != nil {
			zap.L().Warn("low stock alert failed",
				zap.String("product", product.Name), zap.Error(err))
		}
	}
}

// PlaceOrder places a cash-on-delivery order. Stock moves inside the same
// transaction as the order insert.
func PlaceOrder(deps OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/place"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), deps.DB); err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unavailable")
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
			PaymentMethod: paymentMethodCOD,
			Payment:       false,
			Status:        models.OrderStatusPlaced,
			Date:          time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := deps.DB.Client().StartSession()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer session.EndSession(ctx)

		var low []lowStockProduct
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			low, err = decrementStock(sessCtx, deps.DB, items)
			if err != nil {
				return nil, err
			}
			if _, err := deps.DB.Collection("orders").InsertOne(sessCtx, order); err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			zap.L().Error("order placement failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if err := clearCart(ctx, deps.DB, userID); err != nil {
			zap.L().Warn("cart clear failed", zap.String("userId", userID.Hex()), zap.Error(err))
		}

		go notifyAfterOrder(deps.Mail, order, low)

		zap.L().Info("order placed",
			zap.String("orderId", order.OrderID), zap.String("userId", userID.Hex()))
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order Placed", "orderId": order.OrderID})
	}
}

// AllOrders lists every order for the admin panel.
func AllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/list"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
		if err != nil {
			zap.L().Error("order list failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// UserOrders lists the authenticated user's orders.
func UserOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/userorders"
		defer handlePanic(c, route)

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID},
			options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// UpdateOrderStatus moves an order through the fulfilment progression.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/status"
		defer handlePanic(c, route)

		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidOrderStatus(req.Status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").UpdateOne(ctx,
			bson.M{"orderId": req.OrderID},
			bson.M{"$set": bson.M{"status": req.Status}})
		if err != nil {
			zap.L().Error("order status update failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status Updated"})
	}
}

// DeleteOrder removes an order by its public id.
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/delete"
		defer handlePanic(c, route)

		var req orderDeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").DeleteOne(ctx, bson.M{"orderId": req.OrderID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Deleted"})
	}
}

// UpdateOrderByUser lets the owner edit the delivery address while the order
// is still unshipped.
func UpdateOrderByUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/order/update/:orderId"
		defer handlePanic(c, route)

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		var req struct {
			Address models.OrderAddress `json:"address" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID := strings.TrimSpace(c.Param("orderId"))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").UpdateOne(ctx, bson.M{
			"orderId": orderID,
			"userId":  userID,
			"status":  models.OrderStatusPlaced,
		}, bson.M{"$set": bson.M{"address": req.Address}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Order not found or can no longer be updated")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Updated"})
	}
}
