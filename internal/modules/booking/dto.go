package booking

import "time"

// BookingInput is the JSON body for both create and update. The room comes
// from the URL and the owning user from the access token, never from the
// body.
type BookingInput struct {
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description string    `json:"description"`
}

type CreateBookingRequest struct {
	RoomID      string
	UserID      string
	StartTime   time.Time
	EndTime     time.Time
	Description string
}

type UpdateBookingRequest struct {
	StartTime   time.Time
	EndTime     time.Time
	Description string
}

// Event is what the live feed broadcasts to room subscribers.
type Event struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

const (
	EventCreated = "booking.created"
	EventUpdated = "booking.updated"
	EventDeleted = "booking.deleted"
)
