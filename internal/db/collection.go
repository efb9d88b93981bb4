package db

import (
	"context"

	"github.com/ukydev/rental-market/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ListingDocument is implemented by pointers to listing variants.
type ListingDocument[T any] interface {
	*T
	Base() *models.ListingBase
}

// ListingStore defines the persistence operations for one listing kind.
type ListingStore[T any] interface {
	Create(ctx context.Context, listing *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter bson.M, skip, limit int64) ([]T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Update(ctx context.Context, id string, set bson.M) (*T, error)
	Delete(ctx context.Context, id string) error
}
