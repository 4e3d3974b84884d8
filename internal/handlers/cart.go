package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"lifefashion/internal/middleware"
	"lifefashion/internal/models"
)

type addCartRequest struct {
	ItemID string `json:"itemId" binding:"required"`
	Size   string `json:"size" binding:"required"`
}

type updateCartRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity"`
}

// addCartItem bumps the quantity for an item/size pair, creating the nested
// maps as needed.
func addCartItem(cart models.CartData, itemID, size string) models.CartData {
	if cart == nil {
		cart = models.CartData{}
	}
	if cart[itemID] == nil {
		cart[itemID] = map[string]int{}
	}
	cart[itemID][size]++
	return cart
}

// setCartItem pins the quantity for an item/size pair. Zero or negative
// removes the entry, and an item with no sizes left disappears entirely.
func setCartItem(cart models.CartData, itemID, size string, quantity int) models.CartData {
	if cart == nil {
		cart = models.CartData{}
	}
	if quantity <= 0 {
		if sizes, ok := cart[itemID]; ok {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(cart, itemID)
			}
		}
		return cart
	}
	if cart[itemID] == nil {
		cart[itemID] = map[string]int{}
	}
	cart[itemID][size] = quantity
	return cart
}

func cartUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Token missing")
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid token")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func loadCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.CartData, error) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	if user.CartData == nil {
		return models.CartData{}, nil
	}
	return user.CartData, nil
}

func storeCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, cart models.CartData) error {
	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"cartData": cart, "updatedAt": time.Now()},
	})
	return err
}

// GetCart returns the authenticated user's cart.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/get"
		defer handlePanic(c, route)

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "User not found")
				return
			}
			zap.L().Error("cart load failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cartData": cart})
	}
}

// AddToCart increments an item/size pair by one.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/add"
		defer handlePanic(c, route)

		var req addCartRequest
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

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "User not found")
				return
			}
			zap.L().Error("cart load failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cart = addCartItem(cart, req.ItemID, req.Size)

		if err := storeCart(ctx, db, userID, cart); err != nil {
			zap.L().Error("cart store failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added To Cart"})
	}
}

// UpdateCart pins an item/size pair to an exact quantity.
func UpdateCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/update"
		defer handlePanic(c, route)

		var req updateCartRequest
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

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "User not found")
				return
			}
			zap.L().Error("cart load failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cart = setCartItem(cart, req.ItemID, req.Size, req.Quantity)

		if err := storeCart(ctx, db, userID, cart); err != nil {
			zap.L().Error("cart store failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart Updated"})
	}
}
