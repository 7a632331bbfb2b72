package booking

import (
	"context"

	"meetspace/internal/domain"
)

// BookingRepository is the storage contract the scheduler depends on.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByRoom(ctx context.Context, roomID string) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher pushes booking changes to live subscribers (websocket feed).
// Delivery is best effort; scheduling never fails because of it.
type EventPublisher interface {
	PublishBookingEvent(roomID string, event Event)
}
