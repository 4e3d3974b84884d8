package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		zap.L().Warn("user email index", zap.Error(err))
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().
				SetName("orderId_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
	}

	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		zap.L().Warn("order indexes", zap.Error(err))
		return err
	}
	return nil
}

// EnsureReturnIndexes makes one-return-per-order a database guarantee rather
// than a check-then-insert race.
func EnsureReturnIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orderIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().
			SetName("orderId_unique").
			SetUnique(true),
	}

	_, err := db.Collection("returns").Indexes().CreateOne(ctx, orderIndex)
	if err != nil {
		zap.L().Warn("return orderId index", zap.Error(err))
		return err
	}
	return nil
}

func EnsureEmployeeIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	employeeIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "employeeId", Value: 1}},
		Options: options.Index().
			SetName("employeeId_unique").
			SetUnique(true),
	}

	_, err := db.Collection("employees").Indexes().CreateOne(ctx, employeeIDIndex)
	if err != nil {
		zap.L().Warn("employee employeeId index", zap.Error(err))
		return err
	}
	return nil
}

func EnsureDepartmentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().
			SetName("name_unique").
			SetUnique(true),
	}

	_, err := db.Collection("departments").Indexes().CreateOne(ctx, nameIndex)
	if err != nil {
		zap.L().Warn("department name index", zap.Error(err))
		return err
	}
	return nil
}
