package room

import (
	"context"

	"meetspace/internal/domain"
)

// RoleResolver looks up a user's role in a room. Absence of a membership
// resolves to RoleNone. Implementations must hit current storage on every
// call: roles can change between requests from another session.
type RoleResolver interface {
	ResolveRole(ctx context.Context, roomID, userID string) (domain.RoomRole, error)
}

// Guard answers "may this user perform this action in this room". It is the
// single authorization decision point; handlers never compare roles themselves.
type Guard struct {
	roles RoleResolver
}

func NewGuard(roles RoleResolver) *Guard {
	return &Guard{roles: roles}
}

// Authorize resolves the caller's role and checks it against the policy
// table. The resolved role is returned alongside nil when the action is
// allowed, and alongside ErrForbidden when it is not, so callers can make
// own-vs-any follow-up decisions without a second lookup.
func (g *Guard) Authorize(ctx context.Context, roomID, userID string, action domain.RoomAction) (domain.RoomRole, error) {
	role, err := g.roles.ResolveRole(ctx, roomID, userID)
	if err != nil {
		return domain.RoleNone, err
	}

	switch action {
	case domain.ActionJoinRoom:
		// The one self-granted action: anyone may attempt a join. The join
		// itself is idempotent and rejects an existing member.
		return role, nil

	case domain.ActionViewBookings,
		domain.ActionCreateBooking,
		domain.ActionEditOwnBooking,
		domain.ActionDeleteOwnBooking:
		switch role {
		case domain.RoleMember, domain.RoleAdmin:
			return role, nil
		case domain.RoleNone:
			return role, ErrForbidden
		}

	case domain.ActionEditAnyBooking,
		domain.ActionDeleteAnyBooking,
		domain.ActionManageMembers,
		domain.ActionEditRoom,
		domain.ActionDeleteRoom:
		switch role {
		case domain.RoleAdmin:
			return role, nil
		case domain.RoleMember, domain.RoleNone:
			return role, ErrForbidden
		}
	}

	// Unknown action or unknown role: deny, never fall through silently.
	return role, ErrForbidden
}
