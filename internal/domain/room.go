package domain

import "time"

// RoomRole is a user's role inside one room. Roles are never global:
// the same user can be admin of one room and a plain member of another.
type RoomRole string

const (
	RoleAdmin  RoomRole = "admin"
	RoleMember RoomRole = "member"
	// RoleNone means no membership row exists for (room, user).
	RoleNone RoomRole = "none"
)

// RoomAction is the closed set of operations gated by room-scoped authorization.
type RoomAction string

const (
	ActionViewBookings     RoomAction = "view_bookings"
	ActionCreateBooking    RoomAction = "create_booking"
	ActionEditOwnBooking   RoomAction = "edit_own_booking"
	ActionEditAnyBooking   RoomAction = "edit_any_booking"
	ActionDeleteOwnBooking RoomAction = "delete_own_booking"
	ActionDeleteAnyBooking RoomAction = "delete_any_booking"
	ActionJoinRoom         RoomAction = "join_room"
	ActionManageMembers    RoomAction = "manage_members"
	ActionEditRoom         RoomAction = "edit_room"
	ActionDeleteRoom       RoomAction = "delete_room"
)

type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomMembership ties a user to a room with a role. At most one row
// exists per (room, user); absence of a row means RoleNone.
type RoomMembership struct {
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Role      RoomRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
	Room *Room `json:"room,omitempty"`
}
