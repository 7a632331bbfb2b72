package domain

import "time"

// Booking reserves the half-open interval [StartTime, EndTime) on a room.
// Two bookings of the same room must never overlap; intervals that only
// touch (one ends exactly when the other starts) do not overlap.
type Booking struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id" validate:"required"`
	UserID      string    `json:"user_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
	Room *Room `json:"room,omitempty"`
}
