package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Images      []string           `bson:"image" json:"image"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Date        time.Time          `bson:"date" json:"date"`
}
