package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ukydev/rental-market/internal/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoListingCollection implements ListingStore for one listing kind.
type MongoListingCollection[T any, PT ListingDocument[T]] struct {
	Collection *mongo.Collection
	// Noun is used in client-facing messages, e.g. "Car".
	Noun string
	now  func() time.Time
}

func NewListingCollection[T any, PT ListingDocument[T]](coll *mongo.Collection, noun string) *MongoListingCollection[T, PT] {
	return &MongoListingCollection[T, PT]{Collection: coll, Noun: noun, now: time.Now}
}

// Create inserts a listing, assigning its id and timestamps.
func (c *MongoListingCollection[T, PT]) Create(ctx context.Context, listing *T) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	base := PT(listing).Base()
	now := c.now().UTC().Truncate(time.Millisecond)
	base.ID = primitive.NewObjectID()
	base.CreatedAt = now
	base.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, listing); err != nil {
		base.ID = primitive.NilObjectID
		return apperr.Internal("Failed to save "+strings.ToLower(c.Noun), err)
	}
	return nil
}

// FindByID finds a listing by its ID.
func (c *MongoListingCollection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := c.objectID(id)
	if err != nil {
		return nil, err
	}

	var listing T
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		return nil, apperr.Internal("Failed to load "+strings.ToLower(c.Noun), err)
	}
	return &listing, nil
}

// Find returns one page of listings matching filter, newest first.
func (c *MongoListingCollection[T, PT]) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]T, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal("Failed to query listings", err)
	}
	defer cursor.Close(ctx)

	listings := make([]T, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, apperr.Internal("Failed to decode listings", err)
	}
	return listings, nil
}

// Count returns the number of listings matching filter.
func (c *MongoListingCollection[T, PT]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	n, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Internal("Failed to count listings", err)
	}
	return n, nil
}

// Update applies set to a listing and returns the updated document.
func (c *MongoListingCollection[T, PT]) Update(ctx context.Context, id string, set bson.M) (*T, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := c.objectID(id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	for k, v := range set {
		if k == "_id" || k == "createdAt" {
			continue
		}
		fields[k] = v
	}
	fields["updatedAt"] = c.now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var listing T
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}, opts).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		return nil, apperr.Internal("Failed to update "+strings.ToLower(c.Noun), err)
	}
	return &listing, nil
}

// Delete deletes a listing by its ID.
func (c *MongoListingCollection[T, PT]) Delete(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := c.objectID(id)
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Internal("Failed to delete "+strings.ToLower(c.Noun), err)
	}
	if result.DeletedCount == 0 {
		return c.notFound()
	}
	return nil
}

func (c *MongoListingCollection[T, PT]) objectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid " + strings.ToLower(c.Noun) + " id")
	}
	return objectID, nil
}

func (c *MongoListingCollection[T, PT]) notFound() error {
	return apperr.NotFound(c.Noun + " not found")
}
