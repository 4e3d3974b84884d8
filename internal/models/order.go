package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a snapshot of a product line at placement time.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// OrderAddress is the delivery address snapshot captured with the order.
type OrderAddress struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// Order statuses move through a fixed progression driven by the admin panel.
const (
	OrderStatusPlaced    = "Order Placed"
	OrderStatusPacking   = "Packing"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID         string             `bson:"orderId" json:"orderId"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Address         OrderAddress       `bson:"address" json:"address"`
	Amount          float64            `bson:"amount" json:"amount"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	Payment         bool               `bson:"payment" json:"payment"`
	Status          string             `bson:"status" json:"status"`
	DeliveryStatus  string             `bson:"deliveryStatus,omitempty" json:"deliveryStatus,omitempty"`
	StripeSessionID string             `bson:"stripeSessionId,omitempty" json:"-"`
	RazorpayOrderID string             `bson:"razorpayOrderId,omitempty" json:"-"`
	Date            time.Time          `bson:"date" json:"date"`
}

// ValidOrderStatus reports whether s is one of the four admin-settable
// statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusPacking, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}
