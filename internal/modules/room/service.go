package room

import (
	"context"
	"errors"

	"meetspace/internal/domain"
	"meetspace/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	rooms       RoomRepository
	memberships MembershipRepository
	users       UserRepository
}

func NewService(rooms RoomRepository, memberships MembershipRepository, users UserRepository) *Service {
	return &Service{
		rooms:       rooms,
		memberships: memberships,
		users:       users,
	}
}

// ResolveRole maps a missing membership row to RoleNone. Every call goes to
// storage; nothing is cached here.
func (s *Service) ResolveRole(ctx context.Context, roomID, userID string) (domain.RoomRole, error) {
	m, err := s.memberships.Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, storageErr(err)
	}
	return m.Role, nil
}

// CreateRoom creates the room and grants the creator admin membership in one
// transaction; a room without an admin never exists.
func (s *Service) CreateRoom(ctx context.Context, creatorUserID string, req CreateRoomRequest) (*domain.Room, error) {
	r := &domain.Room{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.rooms.CreateWithOwner(ctx, r, creatorUserID); err != nil {
		return nil, storageErr(err)
	}
	return r, nil
}

func (s *Service) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	r, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return r, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	out, err := s.rooms.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id string, req UpdateRoomRequest) (*domain.Room, error) {
	r := &domain.Room{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.rooms.Update(ctx, r); err != nil {
		return nil, storageErr(err)
	}
	return s.GetRoom(ctx, id)
}

func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// Join adds the caller as a member. Joining twice never creates a second
// row: the duplicate insert is reported as ErrAlreadyMember.
func (s *Service) Join(ctx context.Context, roomID, userID string) (*domain.RoomMembership, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, storageErr(err)
	}

	if err := s.memberships.Insert(ctx, roomID, userID, domain.RoleMember); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, ErrAlreadyMember
		}
		return nil, storageErr(err)
	}

	return &domain.RoomMembership{
		RoomID: roomID,
		UserID: userID,
		Role:   domain.RoleMember,
	}, nil
}

func (s *Service) ListMembers(ctx context.Context, roomID string) ([]domain.RoomMembership, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, storageErr(err)
	}
	out, err := s.memberships.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// ListUserRooms is the dashboard query: every room the user belongs to,
// with their role in each.
func (s *Service) ListUserRooms(ctx context.Context, userID string) ([]domain.RoomMembership, error) {
	out, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// AddMember is the admin invitation path: unlike Join it may grant any role
// and targets another user, looked up by email.
func (s *Service) AddMember(ctx context.Context, roomID, email string, role domain.RoomRole) (*domain.RoomMembership, error) {
	if err := validRole(role); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageErr(err)
	}

	if err := s.memberships.Insert(ctx, roomID, u.ID, role); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, ErrAlreadyMember
		}
		return nil, storageErr(err)
	}

	return &domain.RoomMembership{
		RoomID: roomID,
		UserID: u.ID,
		Role:   role,
		User:   u,
	}, nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, roomID, userID string, role domain.RoomRole) error {
	if err := validRole(role); err != nil {
		return err
	}

	current, err := s.memberships.Get(ctx, roomID, userID)
	if err != nil {
		return storageErr(err)
	}

	// Demoting the only admin would leave the room unmanageable.
	if current.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		admins, err := s.memberships.CountAdmins(ctx, roomID)
		if err != nil {
			return storageErr(err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.memberships.UpdateRole(ctx, roomID, userID, role); err != nil {
		return storageErr(err)
	}
	return nil
}

// RemoveMember deletes a membership. The same rule as for demotion applies:
// the last admin cannot be removed, whether by another admin or by leaving.
func (s *Service) RemoveMember(ctx context.Context, roomID, userID string) error {
	current, err := s.memberships.Get(ctx, roomID, userID)
	if err != nil {
		return storageErr(err)
	}

	if current.Role == domain.RoleAdmin {
		admins, err := s.memberships.CountAdmins(ctx, roomID)
		if err != nil {
			return storageErr(err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.memberships.Delete(ctx, roomID, userID); err != nil {
		return storageErr(err)
	}
	return nil
}

func validRole(role domain.RoomRole) error {
	switch role {
	case domain.RoleAdmin, domain.RoleMember:
		return nil
	default:
		return ErrInvalidRole
	}
}

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
