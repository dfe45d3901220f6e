package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	reservationerrors "dinehall/internal/reservations/errors"
	"dinehall/internal/reservations/repository"
	"dinehall/internal/reservations/validator"
	"dinehall/pkg/config"
	mongotx "dinehall/pkg/db/mongo"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testRestaurantID = "507f1f77bcf86cd799439011"
	testRoomID       = "507f1f77bcf86cd799439012"
	otherRoomID      = "507f1f77bcf86cd799439013"
)

// In-memory reservation store. Guarded operations keep the concurrency test
// honest without a real database.
type memReservationRepo struct {
	mu     sync.Mutex
	nextID int
	items  []*model.Reservation
}

func (m *memReservationRepo) Create(_ context.Context, res *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	res.ID = fmt.Sprintf("507f1f77bcf86cd7994%05d", m.nextID)
	stored := *res
	m.items = append(m.items, &stored)
	return nil
}

func (m *memReservationRepo) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == id {
			found := *item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", reservationerrors.ErrNotFound, id)
}

func (m *memReservationRepo) FindConfirmedByRoomAndDate(_ context.Context, roomID, date string) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, item := range m.items {
		if item.RoomID == roomID && item.Date == date && item.Status == model.StatusConfirmed {
			found := *item
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *memReservationRepo) Find(_ context.Context, filter repository.ListFilter, _ int, _ int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, item := range m.items {
		if filter.RestaurantID != "" && item.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		found := *item
		out = append(out, &found)
	}
	return out, nil
}

func (m *memReservationRepo) Count(ctx context.Context, filter repository.ListFilter) (int64, error) {
	items, err := m.Find(ctx, filter, 0, 0)
	return int64(len(items)), err
}

func (m *memReservationRepo) UpdateStatus(_ context.Context, id, fromStatus, toStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == id && item.Status == fromStatus {
			item.Status = toStatus
			return nil
		}
	}
	return fmt.Errorf("%w: %s", reservationerrors.ErrStatusConflict, id)
}

func (m *memReservationRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

// memCalendar is a blocking in-memory calendar lock.
type memCalendar struct {
	mu   sync.Mutex
	held map[string]bool
	wait time.Duration
}

func newMemCalendar() *memCalendar {
	return &memCalendar{held: make(map[string]bool), wait: 2 * time.Second}
}

func (c *memCalendar) Acquire(_ context.Context, roomID, date string) (*model.CalendarLock, error) {
	key := model.CalendarLockKey(roomID, date)
	deadline := time.Now().Add(c.wait)
	for {
		c.mu.Lock()
		if !c.held[key] {
			c.held[key] = true
			c.mu.Unlock()
			return &model.CalendarLock{Key: key, Owner: "test"}, nil
		}
		c.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", reservationerrors.ErrLockUnavailable, key)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func (c *memCalendar) Release(_ context.Context, lock *model.CalendarLock) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.held, lock.Key)
	return nil
}

type mockRestaurantStore struct{}

func (mockRestaurantStore) FindByID(_ context.Context, id string) (*model.Restaurant, error) {
	return &model.Restaurant{ID: id, Name: "Trattoria Prova"}, nil
}

type mockRoomStore struct {
	rooms []*model.Room
}

func (m *mockRoomStore) FindByIDAndRestaurant(_ context.Context, id, _ string) (*model.Room, error) {
	for _, room := range m.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, fmt.Errorf("room not found: %s", id)
}

func (m *mockRoomStore) FindByRestaurant(_ context.Context, _ string, _ int, _ int64) ([]*model.Room, error) {
	return m.rooms, nil
}

func (m *mockRoomStore) FindByRestaurantAndType(_ context.Context, _ string, roomType string) ([]*model.Room, error) {
	var out []*model.Room
	for _, room := range m.rooms {
		if room.RoomType == roomType {
			out = append(out, room)
		}
	}
	return out, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []model.ReservationView
}

func (p *capturePublisher) PublishReservationConfirmed(_ context.Context, view model.ReservationView) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, view)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func testRoom(id, roomType string) *model.Room {
	return &model.Room{
		ID:           id,
		RestaurantID: testRestaurantID,
		Name:         "Room " + id[len(id)-2:],
		RoomType:     roomType,
		MinCapacity:  5,
		MaxCapacity:  30,
		OpeningTime:  "10:00",
		ClosingTime:  "23:59",
		OpenDays:     model.AllWeekdays(),
	}
}

func newTestService(t *testing.T, rooms ...*model.Room) (*reservationService, *memReservationRepo, *capturePublisher) {
	t.Helper()

	log := logger.New(logger.Config{
		Level:  "error",
		Format: logger.JSON,
		Output: io.Discard,
	})
	cfg := &config.Config{
		AdvanceBookingDays: 30,
		MinBookingHours:    3,
		CancelNoticeHours:  24,
		Log:                log,
	}

	repo := &memReservationRepo{}
	publisher := &capturePublisher{}
	svc := &reservationService{
		repo:        repo,
		calendar:    newMemCalendar(),
		restaurants: mockRestaurantStore{},
		rooms:       &mockRoomStore{rooms: rooms},
		publisher:   publisher,
		validator:   validator.NewReservationValidator(log, cfg),
		cfg:         cfg,
		now:         time.Now,
	}
	return svc, repo, publisher
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(model.DateLayout)
}

func newRequest(date, start, end string) *model.Reservation {
	return &model.Reservation{
		RestaurantID: testRestaurantID,
		RoomID:       testRoomID,
		DinerEmail:   "Diner@Example.com",
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		GroupSize:    12,
	}
}

func TestCreateReservation(t *testing.T) {
	svc, repo, publisher := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))

	view, err := svc.Create(context.Background(), newRequest(futureDate(7), "18:00", "22:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.ID == "" {
		t.Error("expected a reservation ID")
	}
	if view.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want %s", view.Status, model.StatusConfirmed)
	}
	if view.DinerEmail != "diner@example.com" {
		t.Errorf("diner email not sanitized: %s", view.DinerEmail)
	}
	if view.RestaurantName != "Trattoria Prova" {
		t.Errorf("restaurant name = %s", view.RestaurantName)
	}

	if got := len(repo.items); got != 1 {
		t.Fatalf("stored reservations = %d, want 1", got)
	}
	if publisher.count() != 1 {
		t.Errorf("published events = %d, want 1", publisher.count())
	}
}

func TestCreateReservationConflicts(t *testing.T) {
	svc, _, publisher := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))
	date := futureDate(7)

	if _, err := svc.Create(context.Background(), newRequest(date, "18:00", "22:00")); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	_, err := svc.Create(context.Background(), newRequest(date, "18:00", "22:00"))
	if err == nil {
		t.Fatal("expected conflict for identical window")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeRoomNotAvailable {
		t.Errorf("code = %s, want %s", code, apperrors.CodeRoomNotAvailable)
	}

	_, err = svc.Create(context.Background(), newRequest(date, "20:00", "23:30"))
	if err == nil {
		t.Fatal("expected conflict for overlapping window")
	}

	// Adjacent slot shares only the boundary instant.
	if _, err := svc.Create(context.Background(), newRequest(date, "14:00", "18:00")); err != nil {
		t.Fatalf("adjacent reservation rejected: %v", err)
	}

	if publisher.count() != 2 {
		t.Errorf("published events = %d, want 2", publisher.count())
	}
}

func TestCreateReservationRejectsBeforeLock(t *testing.T) {
	svc, repo, _ := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))

	req := newRequest(futureDate(7), "18:00", "22:00")
	req.GroupSize = 31

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected capacity rejection")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
		t.Errorf("code = %s, want %s", code, apperrors.CodeValidation)
	}
	if len(repo.items) != 0 {
		t.Errorf("stored reservations = %d, want 0", len(repo.items))
	}
}

func TestCancelReservation(t *testing.T) {
	svc, repo, _ := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}

	seed := func(start, end string) string {
		res := &model.Reservation{
			RestaurantID: testRestaurantID,
			RoomID:       testRoomID,
			DinerEmail:   "diner@example.com",
			Date:         "2026-09-02",
			StartTime:    start,
			EndTime:      end,
			GroupSize:    12,
			Status:       model.StatusConfirmed,
		}
		if err := repo.Create(context.Background(), res); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		return res.ID
	}

	// Starts 25h after the fixed clock.
	id := seed("13:00", "17:00")
	if err := svc.Cancel(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancelled, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, model.StatusCancelled)
	}

	// Cancelling again hits the terminal status.
	err = svc.Cancel(context.Background(), id)
	if err == nil {
		t.Fatal("expected error cancelling twice")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeReservationFailed {
		t.Errorf("code = %s, want %s", code, apperrors.CodeReservationFailed)
	}

	// Starts only 23h after the fixed clock.
	late := seed("11:00", "15:00")
	err = svc.Cancel(context.Background(), late)
	if err == nil {
		t.Fatal("expected notice-period rejection")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeReservationFailed {
		t.Errorf("code = %s, want %s", code, apperrors.CodeReservationFailed)
	}

	err = svc.Cancel(context.Background(), "507f1f77bcf86cd799439099")
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestAutoAssignFirstFit(t *testing.T) {
	small := testRoom(testRoomID, model.RoomTypePrivate)
	small.MinCapacity = 2
	small.MaxCapacity = 4
	large := testRoom(otherRoomID, model.RoomTypePrivate)

	svc, _, _ := newTestService(t, small, large)

	req := &model.AutoAssignRequest{
		RestaurantID: testRestaurantID,
		RoomType:     model.RoomTypePrivate,
		DinerEmail:   "diner@example.com",
		Date:         futureDate(7),
		StartTime:    "18:00",
		EndTime:      "22:00",
		GroupSize:    12,
	}

	view, err := svc.AutoAssign(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.RoomID != otherRoomID {
		t.Errorf("room = %s, want %s (small room cannot fit the group)", view.RoomID, otherRoomID)
	}
}

func TestAutoAssignSkipsBookedRoom(t *testing.T) {
	first := testRoom(testRoomID, model.RoomTypePrivate)
	second := testRoom(otherRoomID, model.RoomTypePrivate)
	svc, _, _ := newTestService(t, first, second)
	date := futureDate(7)

	if _, err := svc.Create(context.Background(), newRequest(date, "18:00", "22:00")); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	req := &model.AutoAssignRequest{
		RestaurantID: testRestaurantID,
		RoomType:     model.RoomTypePrivate,
		DinerEmail:   "diner@example.com",
		Date:         date,
		StartTime:    "19:00",
		EndTime:      "22:30",
		GroupSize:    12,
	}

	view, err := svc.AutoAssign(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.RoomID != otherRoomID {
		t.Errorf("room = %s, want %s (first room is booked)", view.RoomID, otherRoomID)
	}

	// Both rooms taken now.
	if _, err := svc.AutoAssign(context.Background(), req); err == nil {
		t.Fatal("expected exhaustion error")
	} else if code := apperrors.AsAppError(err).Code; code != apperrors.CodeRoomNotAvailable {
		t.Errorf("code = %s, want %s", code, apperrors.CodeRoomNotAvailable)
	}
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	svc, repo, publisher := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))
	date := futureDate(7)

	const writers = 2
	results := make(chan error, writers)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < writers; i++ {
		go func() {
			start.Wait()
			_, err := svc.Create(context.Background(), newRequest(date, "18:00", "22:00"))
			results <- err
		}()
	}
	start.Done()

	var successes, conflicts int
	for i := 0; i < writers; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		if code := apperrors.AsAppError(err).Code; code == apperrors.CodeRoomNotAvailable {
			conflicts++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("successes = %d, conflicts = %d, want exactly one of each", successes, conflicts)
	}
	if got := len(repo.items); got != 1 {
		t.Errorf("stored reservations = %d, want 1", got)
	}
	if publisher.count() != 1 {
		t.Errorf("published events = %d, want 1", publisher.count())
	}
}

func TestFindAvailableRooms(t *testing.T) {
	first := testRoom(testRoomID, model.RoomTypePrivate)
	second := testRoom(otherRoomID, model.RoomTypeGarden)
	svc, _, _ := newTestService(t, first, second)
	date := futureDate(7)

	if _, err := svc.Create(context.Background(), newRequest(date, "18:00", "22:00")); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	frame := &model.TimeFrame{Date: date, StartTime: "19:00", EndTime: "22:30"}
	rooms, err := svc.FindAvailableRooms(context.Background(), testRestaurantID, "", 12, frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rooms) != 1 || rooms[0].ID != otherRoomID {
		t.Fatalf("available = %v, want only the garden room", roomIDs(rooms))
	}

	rooms, err = svc.FindAvailableRooms(context.Background(), testRestaurantID, model.RoomTypePrivate, 12, frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("available private rooms = %v, want none", roomIDs(rooms))
	}
}

func TestFindAvailableRoomsWithoutGroupSize(t *testing.T) {
	svc, _, _ := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))
	frame := &model.TimeFrame{Date: futureDate(7), StartTime: "19:00", EndTime: "22:30"}

	// A free room with MinCapacity 5 must still show up when the caller did
	// not supply a group size.
	rooms, err := svc.FindAvailableRooms(context.Background(), testRestaurantID, "", 0, frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != testRoomID {
		t.Fatalf("available = %v, want the free room", roomIDs(rooms))
	}

	// An explicit group size below the room minimum filters it out.
	rooms, err = svc.FindAvailableRooms(context.Background(), testRestaurantID, "", 1, frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("available = %v, want none for a group of 1", roomIDs(rooms))
	}

	_, err = svc.FindAvailableRooms(context.Background(), testRestaurantID, "", -1, frame)
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", code, apperrors.CodeInvalidInput)
	}
}

func TestCreateLockTimeout(t *testing.T) {
	svc, repo, publisher := newTestService(t, testRoom(testRoomID, model.RoomTypePrivate))
	date := futureDate(7)

	cal := svc.calendar.(*memCalendar)
	cal.wait = 20 * time.Millisecond
	cal.held[model.CalendarLockKey(testRoomID, date)] = true

	_, err := svc.Create(context.Background(), newRequest(date, "18:00", "22:00"))
	if err == nil {
		t.Fatal("expected lock wait to time out")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", code, apperrors.CodeConflict)
	}
	if len(repo.items) != 0 {
		t.Errorf("stored reservations = %d, want 0", len(repo.items))
	}
	if publisher.count() != 0 {
		t.Errorf("published events = %d, want 0", publisher.count())
	}
}

func roomIDs(rooms []*model.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}
	return ids
}
