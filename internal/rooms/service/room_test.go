package service

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const testRoomID = "64f1a2b3c4d5e6f7a8b9c0d1"

type mockRoomRepository struct {
	createFunc   func(ctx context.Context, room *model.Room) error
	findByIDFunc func(ctx context.Context, id string) (*model.Room, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Room{ID: id, RoomNumber: "101", RoomName: "Test Room", Capacity: 10}, nil
}

func (m *mockRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	return &model.Room{ID: id}, nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBookingLookup struct {
	countByRoomFunc func(ctx context.Context, roomID string) (int64, error)
	findForDayFunc  func(ctx context.Context, roomID string, dayStart, dayEnd time.Time, excludeID string) ([]*model.Booking, error)
}

func (m *mockBookingLookup) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	if m.countByRoomFunc != nil {
		return m.countByRoomFunc(ctx, roomID)
	}
	return 0, nil
}

func (m *mockBookingLookup) FindForDay(ctx context.Context, roomID string, dayStart, dayEnd time.Time, excludeID string) ([]*model.Booking, error) {
	if m.findForDayFunc != nil {
		return m.findForDayFunc(ctx, roomID, dayStart, dayEnd, excludeID)
	}
	return nil, nil
}

func newTestService(repo *mockRoomRepository, bookings *mockBookingLookup) RoomService {
	cfg := &config.Config{
		Location:         time.UTC,
		WorkDayStartHour: 8,
		WorkDayEndHour:   18,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
	}
	return NewRoomService(repo, bookings, validator.NewRoomValidator(cfg.Log), cfg)
}

func TestAvailability_PartitionsTheGrid(t *testing.T) {
	bookings := &mockBookingLookup{
		findForDayFunc: func(ctx context.Context, roomID string, dayStart, dayEnd time.Time, excludeID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "b1", StartTime: "9:00", EndTime: "10:00"},
				{ID: "b2", StartTime: "13:15", EndTime: "14:00"},
			}, nil
		},
	}
	svc := newTestService(&mockRoomRepository{}, bookings)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	availability, err := svc.Availability(context.Background(), testRoomID, date)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}

	if len(availability.AllSlots) != 20 {
		t.Fatalf("8-18 grid should have 20 slots, got %d", len(availability.AllSlots))
	}
	if availability.AllSlots[0] != "8:00" || availability.AllSlots[19] != "17:30" {
		t.Errorf("unexpected grid bounds: %s .. %s", availability.AllSlots[0], availability.AllSlots[19])
	}

	// 9:00-10:00 blocks two slots; 13:15-14:00 straddles 13:00 mid-slot
	// and so blocks 13:00 and 13:30 both.
	wantBooked := []string{"9:00", "9:30", "13:00", "13:30"}
	if !reflect.DeepEqual(availability.BookedSlots, wantBooked) {
		t.Errorf("booked slots = %v, want %v", availability.BookedSlots, wantBooked)
	}

	if len(availability.BookedSlots)+len(availability.AvailableSlots) != len(availability.AllSlots) {
		t.Error("booked and available slots must partition the grid")
	}
	for _, slot := range availability.AvailableSlots {
		for _, b := range availability.BookedSlots {
			if slot == b {
				t.Errorf("slot %s is both booked and available", slot)
			}
		}
	}
}

func TestAvailability_EmptyDay(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockBookingLookup{})

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	availability, err := svc.Availability(context.Background(), testRoomID, date)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}

	if len(availability.BookedSlots) != 0 {
		t.Errorf("empty day must have no booked slots, got %v", availability.BookedSlots)
	}
	if !reflect.DeepEqual(availability.AvailableSlots, availability.AllSlots) {
		t.Error("empty day must leave every slot available")
	}
}

func TestAvailability_MalformedStoredTimes(t *testing.T) {
	bookings := &mockBookingLookup{
		findForDayFunc: func(ctx context.Context, roomID string, dayStart, dayEnd time.Time, excludeID string) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "b1", StartTime: "9:00", EndTime: "bad"}}, nil
		},
	}
	svc := newTestService(&mockRoomRepository{}, bookings)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Availability(context.Background(), testRoomID, date)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInternal {
		t.Fatalf("expected internal error for malformed stored times, got %v", err)
	}
}

func TestDelete_RefusesRoomWithBookings(t *testing.T) {
	deleted := false
	repo := &mockRoomRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	bookings := &mockBookingLookup{
		countByRoomFunc: func(ctx context.Context, roomID string) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(repo, bookings)

	err := svc.Delete(context.Background(), testRoomID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict for room with bookings, got %v", err)
	}
	if appErr.Details["booking_count"] != int64(3) {
		t.Errorf("expected booking_count detail, got %v", appErr.Details)
	}
	if deleted {
		t.Error("room must not be deleted while bookings reference it")
	}
}

func TestDelete_RemovesUnusedRoom(t *testing.T) {
	deleted := false
	repo := &mockRoomRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo, &mockBookingLookup{})

	if err := svc.Delete(context.Background(), testRoomID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !deleted {
		t.Error("room without bookings should be deleted")
	}
}

func TestCreate_NormalizesFields(t *testing.T) {
	var created *model.Room
	repo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			created = room
			return nil
		},
	}
	svc := newTestService(repo, &mockBookingLookup{})

	room := &model.Room{
		RoomNumber: "  101 ",
		RoomName:   "  Big   Conference  Room ",
		Capacity:   12,
		Facilities: []string{" Projector ", "projector", "", "whiteboard"},
	}
	if err := svc.Create(context.Background(), room); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.RoomNumber != "101" {
		t.Errorf("room number not trimmed: %q", created.RoomNumber)
	}
	if created.RoomName != "Big Conference Room" {
		t.Errorf("room name not normalized: %q", created.RoomName)
	}
	wantFacilities := []string{"projector", "whiteboard"}
	if !reflect.DeepEqual(created.Facilities, wantFacilities) {
		t.Errorf("facilities = %v, want %v", created.Facilities, wantFacilities)
	}
}
