package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartData maps product id -> size -> quantity.
type CartData map[string]map[string]int

// User is both a storefront customer and, when Role is "employee", a back
// office principal. The role field is an authorization tier only; HR data
// lives in the employees collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CartData     CartData           `bson:"cartData" json:"cartData"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	OTPCode      string             `bson:"otpCode,omitempty" json:"-"`
	OTPExpires   *time.Time         `bson:"otpExpires,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
