package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	restauranterrors "dinehall/internal/restaurants/errors"
	"dinehall/pkg/config"
	mongotx "dinehall/pkg/db/mongo"
	"dinehall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RestaurantCollection = "Restaurants"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, error)
	Update(ctx context.Context, id string, restaurant *model.Restaurant) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRestaurantRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRestaurantRepository(cfg *config.Config) RestaurantRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRestaurantRepository{
		cfg:        cfg,
		collection: db.Collection(RestaurantCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it already carries a
// session. SessionContext cannot be wrapped without breaking transaction
// semantics, so inside a transaction the context is returned unchanged.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	if remaining := time.Until(deadline); remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRestaurantRepository) Create(ctx context.Context, restaurant *model.Restaurant) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, restaurant)
	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		restaurant.ID = oid.Hex()
	}

	return nil
}

func (r *mongoRestaurantRepository) FindByID(ctx context.Context, id string) (*model.Restaurant, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	var restaurant model.Restaurant
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&restaurant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", restauranterrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find restaurant: %w", err)
	}
	return &restaurant, nil
}

func (r *mongoRestaurantRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var restaurants []*model.Restaurant
	if err = cursor.All(ctx, &restaurants); err != nil {
		return nil, fmt.Errorf("failed to decode restaurants: %w", err)
	}

	return restaurants, nil
}

func (r *mongoRestaurantRepository) Update(ctx context.Context, id string, restaurant *model.Restaurant) (*mongo.UpdateResult, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":          restaurant.Name,
			"address":       restaurant.Address,
			"contact":       restaurant.Contact,
			"email":         restaurant.Email,
			"currency_code": restaurant.CurrencyCode,
			"updated_at":    time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoRestaurantRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", restauranterrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoRestaurantRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count restaurants: %w", err)
	}
	return count, nil
}

func (r *mongoRestaurantRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
