package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"lifefashion/internal/models"
)

// imageFieldNames are the multipart field names the admin panel uploads,
// up to four images per product.
var imageFieldNames = []string{"image1", "image2", "image3", "image4"}

type productIDRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func parseSizes(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var sizes []string
	if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}

func collectProductImages(c *gin.Context, store ImageStore) ([]string, error) {
	images := make([]string, 0, len(imageFieldNames))
	for _, field := range imageFieldNames {
		file, err := c.FormFile(field)
		if err != nil {
			continue
		}
		relPath, err := store.Save(file)
		if err != nil {
			discardImages(store, images)
			return nil, err
		}
		images = append(images, relPath)
	}
	return images, nil
}

// discardImages removes stored uploads that no document ended up
// referencing, so a failed request leaves nothing behind on disk.
func discardImages(store ImageStore, images []string) {
	for _, image := range images {
		if err := store.Delete(image); err != nil {
			zap.L().Warn("upload cleanup failed",
				zap.String("image", image), zap.Error(err))
		}
	}
}

// AddProduct creates a product from the admin panel's multipart form.
func AddProduct(db *mongo.Database, store ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/add"
		defer handlePanic(c, route)

		name := strings.TrimSpace(c.PostForm("name"))
		description := strings.TrimSpace(c.PostForm("description"))
		category := strings.TrimSpace(c.PostForm("category"))
		if name == "" || description == "" || category == "" {
			respondError(c, http.StatusBadRequest, "name, description and category are required")
			return
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
		if err != nil || price < 0 {
			respondError(c, http.StatusBadRequest, "invalid price")
			return
		}

		quantity := 0
		if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
			quantity, err = strconv.Atoi(raw)
			if err != nil || quantity < 0 {
				respondError(c, http.StatusBadRequest, "invalid quantity")
				return
			}
		}

		sizes, err := parseSizes(c.PostForm("sizes"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid sizes")
			return
		}

		bestseller := strings.EqualFold(strings.TrimSpace(c.PostForm("bestseller")), "true")

		images, err := collectProductImages(c, store)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		product := models.Product{
			Name:        name,
			Description: description,
			Price:       price,
			Category:    category,
			SubCategory: strings.TrimSpace(c.PostForm("subCategory")),
			Sizes:       sizes,
			Images:      images,
			Bestseller:  bestseller,
			Quantity:    quantity,
			Date:        time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("products").InsertOne(ctx, product); err != nil {
			zap.L().Error("product insert failed", zap.Error(err))
			discardImages(store, images)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		zap.L().Info("product added", zap.String("name", name))
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product Added"})
	}
}

// ListProducts returns the whole catalog.
func ListProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/product/list"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, bson.M{})
		if err != nil {
			zap.L().Error("product list failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// SingleProduct returns one product by id.
func SingleProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/single"
		defer handlePanic(c, route)

		var req productIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Product not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// RemoveProduct deletes a product and its stored images.
func RemoveProduct(db *mongo.Database, store ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/remove"
		defer handlePanic(c, route)

		var req productIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOneAndDelete(ctx, bson.M{"_id": productID}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Product not found")
				return
			}
			zap.L().Error("product delete failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		discardImages(store, product.Images)

		zap.L().Info("product removed", zap.String("productId", req.ProductID))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product Removed"})
	}
}

// UpdateProduct applies a partial multipart update. Only fields present in
// the form change; new images replace the old set.
func UpdateProduct(db *mongo.Database, store ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/product/update"
		defer handlePanic(c, route)

		rawID := strings.TrimSpace(c.PostForm("productId"))
		productID, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid productId")
			return
		}

		update := bson.M{}

		if value, ok := c.GetPostForm("name"); ok {
			update["name"] = strings.TrimSpace(value)
		}
		if value, ok := c.GetPostForm("description"); ok {
			update["description"] = strings.TrimSpace(value)
		}
		if value, ok := c.GetPostForm("category"); ok {
			update["category"] = strings.TrimSpace(value)
		}
		if value, ok := c.GetPostForm("subCategory"); ok {
			update["subCategory"] = strings.TrimSpace(value)
		}
		if value, ok := c.GetPostForm("price"); ok {
			price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || price < 0 {
				respondError(c, http.StatusBadRequest, "invalid price")
				return
			}
			update["price"] = price
		}
		if value, ok := c.GetPostForm("quantity"); ok {
			quantity, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || quantity < 0 {
				respondError(c, http.StatusBadRequest, "invalid quantity")
				return
			}
			update["quantity"] = quantity
		}
		if value, ok := c.GetPostForm("bestseller"); ok {
			update["bestseller"] = strings.EqualFold(strings.TrimSpace(value), "true")
		}
		if value, ok := c.GetPostForm("sizes"); ok {
			sizes, err := parseSizes(value)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid sizes")
				return
			}
			update["sizes"] = sizes
		}

		images, err := collectProductImages(c, store)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var previous models.Product
		if len(images) > 0 {
			update["image"] = images
			// Grab the old image list before it is overwritten.
			if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&previous); err != nil {
				discardImages(store, images)
				if err == mongo.ErrNoDocuments {
					respondError(c, http.StatusNotFound, "Product not found")
					return
				}
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
		}

		if len(update) == 0 {
			respondError(c, http.StatusBadRequest, "nothing to update")
			return
		}

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": update})
		if err != nil {
			zap.L().Error("product update failed", zap.Error(err))
			discardImages(store, images)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			discardImages(store, images)
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		discardImages(store, previous.Images)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product Updated"})
	}
}
