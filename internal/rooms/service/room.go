package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/validator"
	"roombook/internal/scheduling"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

// BookingLookup is the slice of the bookings domain the rooms service
// needs: occupancy for availability, and counts for the delete guard.
type BookingLookup interface {
	CountByRoom(ctx context.Context, roomID string) (int64, error)
	FindForDay(ctx context.Context, roomID string, dayStart, dayEnd time.Time, excludeID string) ([]*model.Booking, error)
}

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, roomID string, date time.Time) (*scheduling.Availability, error)
}

type roomService struct {
	repo      repository.RoomRepository
	bookings  BookingLookup
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	bookings BookingLookup,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	s.sanitize(room)
	if err := s.validate(room); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateRoomNumber) {
			return apperrors.Conflict(fmt.Sprintf("Room number %s already exists", room.RoomNumber))
		}
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully", "id", room.ID, "room_number", room.RoomNumber)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	room, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		if errors.Is(err, roomserrors.ErrDuplicateRoomNumber) {
			return nil, apperrors.Conflict(fmt.Sprintf("Room number %s already exists", updates.RoomNumber))
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return room, nil
}

// Delete refuses to remove a room that still has bookings, rejected ones
// included: history references the room.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	count, err := s.bookings.CountByRoom(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check room bookings", err)
	}
	if count > 0 {
		return apperrors.Conflict("Cannot delete a room with existing bookings").
			WithDetails(map[string]any{"booking_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

// Availability partitions the working-hours slot grid of one room and day
// into booked and free slots. Rejected bookings do not occupy slots.
func (s *roomService) Availability(ctx context.Context, roomID string, date time.Time) (*scheduling.Availability, error) {
	if _, err := s.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	dayStart, dayEnd := scheduling.DayWindow(date, s.cfg.Location)
	bookings, err := s.bookings.FindForDay(ctx, roomID, dayStart, dayEnd, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings for day", err)
	}

	intervals := make([]scheduling.Interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := scheduling.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, apperrors.Internal(
				fmt.Sprintf("Stored booking %s has a malformed time range", b.ID), err)
		}
		intervals = append(intervals, iv)
	}

	grid := scheduling.Grid{
		StartHour: s.cfg.WorkDayStartHour,
		EndHour:   s.cfg.WorkDayEndHour,
	}
	availability := grid.Slots(intervals)
	return &availability, nil
}

func (s *roomService) sanitize(room *model.Room) {
	room.RoomNumber = sanitizer.TrimAndNormalize(room.RoomNumber)
	room.RoomName = sanitizer.NormalizeName(room.RoomName)
	room.Facilities = sanitizer.NormalizeFacilities(room.Facilities)
}

func (s *roomService) sanitizeUpdate(updates *model.RoomUpdate) {
	updates.RoomNumber = sanitizer.TrimAndNormalize(updates.RoomNumber)
	updates.RoomName = sanitizer.NormalizeName(updates.RoomName)
	if updates.Facilities != nil {
		normalized := sanitizer.NormalizeFacilities(*updates.Facilities)
		updates.Facilities = &normalized
	}
}

func (s *roomService) validate(room *model.Room) error {
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
