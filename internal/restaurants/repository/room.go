package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	restauranterrors "dinehall/internal/restaurants/errors"
	"dinehall/pkg/config"
	"dinehall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCollection = "Rooms"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByIDAndRestaurant(ctx context.Context, id, restaurantID string) (*model.Room, error)
	FindByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.Room, error)
	FindByRestaurantAndType(ctx context.Context, restaurantID, roomType string) ([]*model.Room, error)
	Update(ctx context.Context, id string, room *model.Room) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	CountByRestaurant(ctx context.Context, restaurantID string) (int64, error)
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(RoomCollection),
	}
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	room.CreatedAt = now
	room.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}

	return nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	var room model.Room
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", restauranterrors.ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindByIDAndRestaurant(ctx context.Context, id, restaurantID string) (*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "restaurant_id": restaurantID}

	var room model.Room
	err = r.collection.FindOne(ctx, filter).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", restauranterrors.ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

// FindByRestaurantAndType returns candidate rooms in a stable order so that
// auto-assignment is deterministic for a given inventory.
func (r *mongoRoomRepository) FindByRestaurantAndType(ctx context.Context, restaurantID, roomType string) ([]*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"restaurant_id": restaurantID, "room_type": roomType}
	opts := options.Find().SetSort(bson.D{
		{Key: "max_capacity", Value: 1},
		{Key: "name", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomRepository) Update(ctx context.Context, id string, room *model.Room) (*mongo.UpdateResult, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":            room.Name,
			"room_type":       room.RoomType,
			"min_capacity":    room.MinCapacity,
			"max_capacity":    room.MaxCapacity,
			"min_spend_cents": room.MinSpendCents,
			"opening_time":    room.OpeningTime,
			"closing_time":    room.ClosingTime,
			"open_days":       room.OpenDays,
			"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", restauranterrors.ErrRoomNotFound, id)
	}

	return result, nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", restauranterrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", restauranterrors.ErrRoomNotFound, id)
	}

	return nil
}

func (r *mongoRoomRepository) CountByRestaurant(ctx context.Context, restaurantID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"restaurant_id": restaurantID})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}
