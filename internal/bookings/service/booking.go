package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/internal/events"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/scheduling"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

// ConflictMessage is returned whenever a requested window overlaps an
// existing booking, on create and on update alike.
const ConflictMessage = "Time slot already booked in this room. Please choose another time or room."

// RoomFinder is the slice of the rooms domain the booking guard needs:
// bookings must reference rooms that exist.
type RoomFinder interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id, actorID, actorRole string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter, actorID, actorRole string, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID, actorRole string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error)
	Delete(ctx context.Context, id, actorID, actorRole string) error
	CheckConflict(ctx context.Context, roomID string, date time.Time, startTime, endTime, excludeID string) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	rooms     RoomFinder
	validator *validator.BookingValidator
	publisher *events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	rooms RoomFinder,
	validator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.verifyRoomExists(ctx, booking.RoomID); err != nil {
		return err
	}

	// Bookings are stored with their date normalized to midnight in the
	// reference timezone so day bucketing is a plain range query.
	dayStart, _ := scheduling.DayWindow(booking.BookingDate, s.cfg.Location)
	booking.BookingDate = dayStart

	lockID, err := s.acquireSlotLock(ctx, booking.RoomID, dayStart)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"booking_date", booking.BookingDate.Format("2006-01-02"),
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id, actorID, actorRole string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(booking, actorID, actorRole); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, actorID, actorRole string, limit int, offset int64) ([]*model.Booking, int64, error) {
	// Non-admins only ever see their own bookings, whatever the filter says.
	if actorRole != model.RoleAdmin {
		filter.UserID = actorID
	}

	var dayStart, dayEnd *time.Time
	if filter.Day != nil {
		start, end := scheduling.DayWindow(*filter.Day, s.cfg.Location)
		dayStart, dayEnd = &start, &end
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountFiltered(ctx, filter, dayStart, dayEnd)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindFiltered(ctx, filter, dayStart, dayEnd, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID, actorRole string) (*model.Booking, error) {
	existing, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if merged.RoomID != existing.RoomID {
		if err := s.verifyRoomExists(ctx, merged.RoomID); err != nil {
			return nil, err
		}
	}

	dayStart, _ := scheduling.DayWindow(merged.BookingDate, s.cfg.Location)
	merged.BookingDate = dayStart

	// Only a changed room, day, or time window can introduce a new
	// conflict; edits to purpose or attachments skip the re-check.
	needsRecheck := merged.RoomID != existing.RoomID ||
		!merged.BookingDate.Equal(existing.BookingDate) ||
		merged.StartTime != existing.StartTime ||
		merged.EndTime != existing.EndTime

	if needsRecheck {
		lockID, err := s.acquireSlotLock(ctx, merged.RoomID, dayStart)
		if err != nil {
			return nil, err
		}
		defer func() {
			if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if needsRecheck {
			if err := s.verifyNoConflict(sessCtx, merged, id); err != nil {
				return err
			}
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	merged.ID = id
	s.publisher.BookingUpdated(ctx, merged)

	s.cfg.Log.Info("Booking updated successfully", "id", id, "rechecked", needsRecheck)
	return merged, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	switch status {
	case config.StatusPending, config.StatusApproved, config.StatusRejected:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Status must be one of: %s, %s, %s",
			config.StatusPending, config.StatusApproved, config.StatusRejected))
	}

	booking, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	s.publisher.BookingStatusChanged(ctx, booking)

	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id, actorID, actorRole string) error {
	existing, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(existing, actorID, actorRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.publisher.BookingDeleted(ctx, existing)

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// CheckConflict answers whether a candidate window would collide with the
// existing bookings of a room on one day, without writing anything.
// excludeID leaves one booking out of the comparison so an update is not
// flagged against itself.
func (s *bookingService) CheckConflict(ctx context.Context, roomID string, date time.Time, startTime, endTime, excludeID string) (bool, error) {
	if roomID == "" {
		return false, apperrors.InvalidInput("Room ID cannot be empty")
	}

	candidate, err := scheduling.NewInterval(startTime, endTime)
	if err != nil {
		return false, apperrors.Validation("Invalid time range", map[string]any{"error": err.Error()})
	}

	dayStart, dayEnd := scheduling.DayWindow(date, s.cfg.Location)
	existing, err := s.repo.FindForDay(ctx, roomID, dayStart, dayEnd, excludeID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return false, apperrors.InvalidInput("Invalid booking ID format")
		}
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}

	intervals, err := bookingsToIntervals(existing)
	if err != nil {
		return false, err
	}

	return scheduling.HasConflict(candidate, intervals), nil
}

// --- Helpers ---

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func requireOwnerOrAdmin(booking *model.Booking, actorID, actorRole string) error {
	if actorRole == model.RoleAdmin {
		return nil
	}
	if booking.UserID != actorID {
		return apperrors.Forbidden("You can only access your own bookings")
	}
	return nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.FullName = sanitizer.NormalizeName(b.FullName)
	b.Department = sanitizer.NormalizeName(b.Department)
	b.Purpose = sanitizer.TrimAndNormalize(b.Purpose)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = config.StatusPending
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.RoomID != "" {
		merged.RoomID = updates.RoomID
	}
	if updates.FullName != "" {
		merged.FullName = updates.FullName
	}
	if updates.Department != "" {
		merged.Department = updates.Department
	}
	if updates.BookingDate != nil {
		merged.BookingDate = *updates.BookingDate
	}
	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.EndTime != "" {
		merged.EndTime = updates.EndTime
	}
	if updates.Purpose != "" {
		merged.Purpose = updates.Purpose
	}
	if updates.Attachment != nil {
		merged.Attachment = updates.Attachment
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyRoomExists(ctx context.Context, roomID string) error {
	_, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.Validation("Room does not exist", map[string]any{"room_id": roomID})
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to verify room", err)
	}
	return nil
}

// verifyNoConflict runs the overlap check against the booking's room and
// day inside the caller's transaction, so the decision and the write
// commit atomically.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking, excludeID string) error {
	candidate, err := scheduling.NewInterval(booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Validation("Invalid time range", map[string]any{"error": err.Error()})
	}

	dayStart, dayEnd := scheduling.DayWindow(booking.BookingDate, s.cfg.Location)
	existing, err := s.repo.FindForDay(ctx, booking.RoomID, dayStart, dayEnd, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	intervals, err := bookingsToIntervals(existing)
	if err != nil {
		return err
	}

	if scheduling.HasConflict(candidate, intervals) {
		return apperrors.Conflict(ConflictMessage)
	}
	return nil
}

// bookingsToIntervals refuses to proceed on malformed stored times. A
// booking that cannot be parsed must never silently drop out of the
// conflict check.
func bookingsToIntervals(bookings []*model.Booking) ([]scheduling.Interval, error) {
	intervals := make([]scheduling.Interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := scheduling.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, apperrors.Internal(
				fmt.Sprintf("Stored booking %s has a malformed time range", b.ID), err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// acquireSlotLock takes the advisory lock covering one room and day. A
// duplicate key means another request is inside the check-then-insert
// window for the same slot coordinates.
func (s *bookingService) acquireSlotLock(ctx context.Context, roomID string, dayStart time.Time) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%s_%s", roomID, dayStart.Format("2006-01-02"))

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
