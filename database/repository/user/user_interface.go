package userRepo

import (
	"context"

	"healthcart/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository is the read-only view of the account store this service needs.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
}
