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
	"go.uber.org/zap"

	"lifefashion/internal/models"
)

type departmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddDepartment creates a department; the unique name index rejects
// duplicates.
func AddDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/department/add"
		defer handlePanic(c, route)

		var req departmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		department := models.Department{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("departments").InsertOne(ctx, department); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "Department already exists")
				return
			}
			zap.L().Error("department insert failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Department Added"})
	}
}

// ListDepartments returns all departments.
func ListDepartments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/department"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("departments").Find(ctx, bson.M{})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		departments := []models.Department{}
		if err := cursor.All(ctx, &departments); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "departments": departments})
	}
}

// GetDepartment returns one department by id.
func GetDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/department/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid department id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var department models.Department
		if err := db.Collection("departments").FindOne(ctx, bson.M{"_id": id}).Decode(&department); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Department not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "department": department})
	}
}

// UpdateDepartment renames or re-describes a department.
func UpdateDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/department/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid department id")
			return
		}

		var req departmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("departments").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"name":        strings.TrimSpace(req.Name),
			"description": strings.TrimSpace(req.Description),
		}})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "Department already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Department not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Department Updated"})
	}
}

// DeleteDepartment removes a department unless employees still reference it.
func DeleteDepartment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/department/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid department id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("employees").CountDocuments(ctx, bson.M{"department": id})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, "Department has assigned employees")
			return
		}

		res, err := db.Collection("departments").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Department not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Department Deleted"})
	}
}
