package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationerrors "dinehall/internal/reservations/errors"
	"dinehall/pkg/config"
	"dinehall/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCalendarCollection = "Room_calendar"
)

// RoomCalendarRepository serializes writers on a single room-day. The anchor
// document per (room, date) is created lazily on first use; acquisition is a
// compare-and-swap on its locked flag, retried until LockWaitTimeout.
type RoomCalendarRepository interface {
	Acquire(ctx context.Context, roomID, date string) (*model.CalendarLock, error)
	Release(ctx context.Context, lock *model.CalendarLock) error
}

type mongoRoomCalendarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomCalendarRepository(cfg *config.Config) RoomCalendarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomCalendarRepository{
		cfg:        cfg,
		collection: db.Collection(RoomCalendarCollection),
	}
}

func (r *mongoRoomCalendarRepository) Acquire(ctx context.Context, roomID, date string) (*model.CalendarLock, error) {
	key := model.CalendarLockKey(roomID, date)

	if err := r.ensureEntry(ctx, roomID, date, key); err != nil {
		return nil, err
	}

	owner := uuid.NewString()
	deadline := time.Now().Add(r.cfg.LockWaitTimeout)

	for {
		acquired, err := r.tryAcquire(ctx, key, owner)
		if err != nil {
			return nil, err
		}
		if acquired {
			return &model.CalendarLock{Key: key, Owner: owner}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", reservationerrors.ErrLockUnavailable, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.cfg.LockRetryInterval):
		}
	}
}

// ensureEntry creates the anchor document if it does not exist. A duplicate
// key error means another writer created it first, which is fine. If the
// entry still cannot be observed after creation, one more attempt is made
// before reporting the calendar as missing.
func (r *mongoRoomCalendarRepository) ensureEntry(ctx context.Context, roomID, date, key string) error {
	for attempt := 0; attempt < 2; attempt++ {
		entry := &model.RoomCalendarEntry{
			ID:        key,
			RoomID:    roomID,
			Date:      date,
			Locked:    false,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}

		_, err := r.collection.InsertOne(ctx, entry)
		if err == nil || mongo.IsDuplicateKeyError(err) {
			exists, err := r.entryExists(ctx, key)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			continue
		}
		return fmt.Errorf("failed to create room calendar entry: %w", err)
	}

	return fmt.Errorf("%w: %s", reservationerrors.ErrCalendarMissing, key)
}

func (r *mongoRoomCalendarRepository) entryExists(ctx context.Context, key string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"_id": key},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read room calendar entry: %w", err)
	}
	return true, nil
}

// tryAcquire flips the locked flag when the entry is free or its previous
// holder's lease expired. Expired leases are taken over so a crashed writer
// cannot wedge a room-day forever.
func (r *mongoRoomCalendarRepository) tryAcquire(ctx context.Context, key, owner string) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id": key,
		"$or": bson.A{
			bson.M{"locked": false},
			bson.M{"lock_expires_at": bson.M{"$lt": now}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"locked":          true,
			"lock_owner":      owner,
			"lock_expires_at": now.Add(r.cfg.LockTTL),
		},
	}

	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire room calendar lock: %w", err)
	}
	return true, nil
}

// Release frees the lock only when still held by the given owner, so a
// lease that expired and was taken over is not stolen back.
func (r *mongoRoomCalendarRepository) Release(ctx context.Context, lock *model.CalendarLock) error {
	filter := bson.M{"_id": lock.Key, "lock_owner": lock.Owner, "locked": true}
	update := bson.M{
		"$set":   bson.M{"locked": false},
		"$unset": bson.M{"lock_owner": "", "lock_expires_at": ""},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release room calendar lock: %w", err)
	}
	return nil
}
