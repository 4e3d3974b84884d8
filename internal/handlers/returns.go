package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"lifefashion/internal/models"
)

type returnRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

type returnUpdateRequest struct {
	ReturnID string `json:"returnId" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type returnStatusRequest struct {
	ReturnID string `json:"returnId" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// canModifyReturn is the owner-and-pending guard shared by user update and
// delete.
func canModifyReturn(ret models.Return, userID primitive.ObjectID) bool {
	return ret.UserID == userID && ret.Status == models.ReturnStatusPending
}

// explainReturnMiss turns a zero-match update or delete into the right
// response: the guarded write already failed atomically, this lookup only
// decides between "not yours / not there" and "no longer pending".
func explainReturnMiss(ctx context.Context, c *gin.Context, db *mongo.Database, returnID, userID primitive.ObjectID) {
	var ret models.Return
	err := db.Collection("returns").FindOne(ctx, bson.M{"_id": returnID}).Decode(&ret)
	if err != nil || ret.UserID != userID {
		respondError(c, http.StatusNotFound, "Return request not found")
		return
	}
	if !canModifyReturn(ret, userID) {
		respondError(c, http.StatusConflict, "Return request is no longer pending")
		return
	}
	// The guard passes now but the write missed: the request changed
	// between the two reads. Let the client retry.
	respondError(c, http.StatusConflict, "Return request changed, please retry")
}

// RequestReturn opens a return for one of the caller's orders. The unique
// orderId index makes the one-per-order rule atomic.
func RequestReturn(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/return/request"
		defer handlePanic(c, route)

		var req returnRequest
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

		count, err := db.Collection("orders").CountDocuments(ctx, bson.M{
			"orderId": req.OrderID,
			"userId":  userID,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count == 0 {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}

		ret := models.Return{
			OrderID:   req.OrderID,
			UserID:    userID,
			Reason:    strings.TrimSpace(req.Reason),
			Status:    models.ReturnStatusPending,
			CreatedAt: time.Now(),
		}

		if _, err := db.Collection("returns").InsertOne(ctx, ret); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "Return request already exists for this order")
				return
			}
			zap.L().Error("return insert failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		zap.L().Info("return requested",
			zap.String("orderId", req.OrderID), zap.String("userId", userID.Hex()))
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Return request submitted"})
	}
}

// UserListReturns shows the caller's return requests.
func UserListReturns(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/return/user"
		defer handlePanic(c, route)

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("returns").Find(ctx, bson.M{"userId": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		returns := []models.Return{}
		if err := cursor.All(ctx, &returns); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "returns": returns})
	}
}

// UserUpdateReturn edits the reason while the request is still pending.
func UserUpdateReturn(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/return/user/update"
		defer handlePanic(c, route)

		var req returnUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		returnID, err := primitive.ObjectIDFromHex(req.ReturnID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid return id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("returns").UpdateOne(ctx, bson.M{
			"_id":    returnID,
			"userId": userID,
			"status": models.ReturnStatusPending,
		}, bson.M{"$set": bson.M{"reason": strings.TrimSpace(req.Reason)}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			explainReturnMiss(ctx, c, db, returnID, userID)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Return request updated"})
	}
}

// UserDeleteReturn withdraws a pending request.
func UserDeleteReturn(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/return/user/delete/:returnId"
		defer handlePanic(c, route)

		userID, ok := cartUserID(c)
		if !ok {
			return
		}

		returnID, err := primitive.ObjectIDFromHex(c.Param("returnId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid return id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("returns").DeleteOne(ctx, bson.M{
			"_id":    returnID,
			"userId": userID,
			"status": models.ReturnStatusPending,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			explainReturnMiss(ctx, c, db, returnID, userID)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Return request deleted"})
	}
}

// AdminListReturns shows every return request.
func AdminListReturns(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/return"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("returns").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		returns := []models.Return{}
		if err := cursor.All(ctx, &returns); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "returns": returns})
	}
}

// AdminUpdateReturn moves a request to a new status.
func AdminUpdateReturn(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/return/update"
		defer handlePanic(c, route)

		var req returnStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidReturnStatus(req.Status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}

		returnID, err := primitive.ObjectIDFromHex(req.ReturnID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid return id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("returns").UpdateByID(ctx, returnID,
			bson.M{"$set": bson.M{"status": req.Status}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Return request not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Return status updated"})
	}
}
