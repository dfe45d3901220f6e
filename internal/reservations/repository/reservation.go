package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationerrors "dinehall/internal/reservations/errors"
	"dinehall/pkg/config"
	mongotx "dinehall/pkg/db/mongo"
	"dinehall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReservationCollection = "Reservations"
)

// ListFilter narrows reservation listings. Zero values mean no filtering on
// that dimension.
type ListFilter struct {
	RestaurantID string
	RoomID       string
	DinerEmail   string
	Date         string
	Status       string
}

type ReservationRepository interface {
	Create(ctx context.Context, res *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindConfirmedByRoomAndDate(ctx context.Context, roomID, date string) ([]*model.Reservation, error)
	Find(ctx context.Context, filter ListFilter, limit int, offset int64) ([]*model.Reservation, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

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

func (r *mongoReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	res.CreatedAt = now
	res.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}

	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationerrors.ErrInvalidID, id)
	}

	var res model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", reservationerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &res, nil
}

// FindConfirmedByRoomAndDate loads the room-day calendar for conflict checks.
// Callers that need a consistent read run this inside a transaction.
func (r *mongoReservationRepository) FindConfirmedByRoomAndDate(ctx context.Context, roomID, date string) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_id": roomID,
		"date":    date,
		"status":  model.StatusConfirmed,
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) Find(ctx context.Context, filter ListFilter, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, toQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, toQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

// UpdateStatus transitions a reservation between statuses. The filter matches
// on the current status so a concurrent transition loses cleanly instead of
// overwriting.
func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": fromStatus}
	update := bson.M{
		"$set": bson.M{
			"status":     toStatus,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reservationerrors.ErrStatusConflict, id)
	}

	return nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func toQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.RestaurantID != "" {
		query["restaurant_id"] = filter.RestaurantID
	}
	if filter.RoomID != "" {
		query["room_id"] = filter.RoomID
	}
	if filter.DinerEmail != "" {
		query["diner_email"] = filter.DinerEmail
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}
