package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee holds the HR record for a user whose role is "employee".
type Employee struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	EmployeeID    string             `bson:"employeeId" json:"employeeId"`
	DOB           *time.Time         `bson:"dob,omitempty" json:"dob,omitempty"`
	Gender        string             `bson:"gender,omitempty" json:"gender,omitempty"`
	MaritalStatus string             `bson:"maritalStatus,omitempty" json:"maritalStatus,omitempty"`
	Designation   string             `bson:"designation,omitempty" json:"designation,omitempty"`
	Department    primitive.ObjectID `bson:"department" json:"department"`
	ProfileImage  string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Salary        float64            `bson:"salary" json:"salary"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
