package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"lifefashion/internal/mailer"
	"lifefashion/internal/models"
)

// The collection name keeps the original spelling the admin panel queries.
const deliveryCollection = "deliverys"

type deliveryRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Zipcode   string `json:"zipcode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone"`
}

func deliveryIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid delivery id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func sendDeliveryEmail(mail mailer.Sender, delivery models.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mail.SendDeliveryConfirmation(ctx, delivery); err != nil {
		zap.L().Warn("delivery confirmation email failed",
			zap.String("email", delivery.Email), zap.Error(err))
	}
}

// CreateDelivery stores a delivery record and emails the confirmation.
func CreateDelivery(db *mongo.Database, mail mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/deliverys"
		defer handlePanic(c, route)

		var req deliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		delivery := models.Delivery{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			Zipcode:   req.Zipcode,
			Country:   req.Country,
			Phone:     req.Phone,
			CreatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection(deliveryCollection).InsertOne(ctx, delivery)
		if err != nil {
			zap.L().Error("delivery insert failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			delivery.ID = id
		}

		go sendDeliveryEmail(mail, delivery)

		c.JSON(http.StatusCreated, gin.H{"success": true, "delivery": delivery})
	}
}

// ListDeliveries returns all delivery records, newest first.
func ListDeliveries(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/deliverys"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection(deliveryCollection).Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		deliveries := []models.Delivery{}
		if err := cursor.All(ctx, &deliveries); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "deliveries": deliveries})
	}
}

// GetDelivery returns one delivery record.
func GetDelivery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/deliverys/:id"
		defer handlePanic(c, route)

		id, ok := deliveryIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var delivery models.Delivery
		if err := db.Collection(deliveryCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&delivery); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Delivery not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "delivery": delivery})
	}
}

// UpdateDelivery replaces the mutable fields of a delivery record.
func UpdateDelivery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/deliverys/:id"
		defer handlePanic(c, route)

		id, ok := deliveryIDParam(c)
		if !ok {
			return
		}

		var req deliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection(deliveryCollection).UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"email":     req.Email,
			"street":    req.Street,
			"city":      req.City,
			"state":     req.State,
			"zipcode":   req.Zipcode,
			"country":   req.Country,
			"phone":     req.Phone,
		}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Delivery not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Delivery Updated"})
	}
}

// DeleteDelivery removes a delivery record.
func DeleteDelivery(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/deliverys/:id"
		defer handlePanic(c, route)

		id, ok := deliveryIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection(deliveryCollection).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Delivery not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Delivery Deleted"})
	}
}

// ResendDeliveryEmail resends the confirmation for an existing record.
func ResendDeliveryEmail(db *mongo.Database, mail mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/deliverys/:id/resend-email"
		defer handlePanic(c, route)

		id, ok := deliveryIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var delivery models.Delivery
		if err := db.Collection(deliveryCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&delivery); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Delivery not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		mailCtx, mailCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer mailCancel()
		if err := mail.SendDeliveryConfirmation(mailCtx, delivery); err != nil {
			zap.L().Error("delivery confirmation resend failed",
				zap.String("email", delivery.Email), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to send email")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Confirmation email sent"})
	}
}
