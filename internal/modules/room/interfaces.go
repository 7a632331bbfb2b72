package room

import (
	"context"

	"meetspace/internal/domain"
)

type RoomRepository interface {
	CreateWithOwner(ctx context.Context, room *domain.Room, ownerUserID string) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id string) error
}

type MembershipRepository interface {
	Get(ctx context.Context, roomID, userID string) (*domain.RoomMembership, error)
	Insert(ctx context.Context, roomID, userID string, role domain.RoomRole) error
	UpdateRole(ctx context.Context, roomID, userID string, role domain.RoomRole) error
	Delete(ctx context.Context, roomID, userID string) error
	ListByRoom(ctx context.Context, roomID string) ([]domain.RoomMembership, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RoomMembership, error)
	CountAdmins(ctx context.Context, roomID string) (int64, error)
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
