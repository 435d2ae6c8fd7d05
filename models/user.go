package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the read-only view of a platform account this service needs.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	Role      string    `bson:"role" json:"role"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
