package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReturnStatusPending  = "Pending"
	ReturnStatusApproved = "Approved"
	ReturnStatusRejected = "Rejected"
	ReturnStatusRefunded = "Refunded"
)

// Return is a refund request against a placed order. The orderId carries a
// unique index, so there can never be two requests for the same order.
type Return struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID   string             `bson:"orderId" json:"orderId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Reason    string             `bson:"reason" json:"reason"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidReturnStatus reports whether s is an admin-settable return status.
func ValidReturnStatus(s string) bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusRefunded:
		return true
	}
	return false
}
