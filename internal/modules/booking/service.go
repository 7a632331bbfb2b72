package booking

import (
	"context"
	"errors"
	"time"

	"meetspace/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// overlapConstraint is the Postgres exclusion constraint on
// (room_id, tstzrange(start_time, end_time, '[)')). The advisory scan below
// is not transactionally tied to the insert, so two concurrent creates can
// both pass it; the constraint is the authoritative defence, and a violation
// surfaces as the same ErrConflict the scan would have produced.
const overlapConstraint = "bookings_no_overlap"

type Service struct {
	bookings BookingRepository
	events   EventPublisher
}

func NewService(bookings BookingRepository, events EventPublisher) *Service {
	return &Service{
		bookings: bookings,
		events:   events,
	}
}

// overlaps is the half-open interval test: [aStart, aEnd) and [bStart, bEnd)
// intersect iff aStart < bEnd and bStart < aEnd. Intervals that only touch
// do not overlap. Callers guarantee start < end for both.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasConflict reports whether [start, end) overlaps any booking of the room,
// scanning the room's bookings. excludeID (empty = none) omits the booking
// being edited so it never conflicts with itself. The caller is responsible
// for start < end.
func (s *Service) HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	existing, err := s.bookings.ListByRoom(ctx, roomID)
	if err != nil {
		return false, storageErr(err)
	}
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		if overlaps(start, end, b.StartTime, b.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidInterval
	}

	conflict, err := s.HasConflict(ctx, req.RoomID, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	b := &domain.Booking{
		RoomID:      req.RoomID,
		UserID:      req.UserID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if isOverlapViolation(err) {
			return nil, ErrConflict
		}
		return nil, storageErr(err)
	}

	s.publish(EventCreated, b)
	return b, nil
}

func (s *Service) Update(ctx context.Context, bookingID string, req UpdateBookingRequest) (*domain.Booking, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidInterval
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storageErr(err)
	}

	conflict, err := s.HasConflict(ctx, b.RoomID, req.StartTime, req.EndTime, b.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrConflict
	}

	b.StartTime = req.StartTime
	b.EndTime = req.EndTime
	b.Description = req.Description

	if err := s.bookings.Update(ctx, b); err != nil {
		if isOverlapViolation(err) {
			return nil, ErrConflict
		}
		return nil, storageErr(err)
	}

	s.publish(EventUpdated, b)
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return b, nil
}

func (s *Service) ListByRoom(ctx context.Context, roomID string) ([]domain.Booking, error) {
	out, err := s.bookings.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// ListByUser is the dashboard query: the caller's own bookings across every
// room, no room-scoped authorization involved.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	out, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	s.publish(EventDeleted, b)
	return nil
}

func (s *Service) publish(eventType string, b *domain.Booking) {
	if s.events == nil {
		return
	}
	s.events.PublishBookingEvent(b.RoomID, Event{
		Type:      eventType,
		BookingID: b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	})
}

// isOverlapViolation matches the 23P01 exclusion_violation raised by the
// overlap constraint. 23P01 is not translated by gorm and reaches us as a
// *pgconn.PgError; duplicate-key violations are unrelated and stay errors.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23P01" && pgErr.ConstraintName == overlapConstraint
}

// storageErr keeps sentinel errors typed: a cancelled or timed-out storage
// call must never read as "no conflict" or "not found".
func storageErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrStorageUnavailable
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
