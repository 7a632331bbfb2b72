package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"meetspace/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateMembership is returned by Insert when a row for (room, user)
// already exists. Callers translate it into their own sentinel.
var ErrDuplicateMembership = errors.New("membership already exists")

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

type membershipModel struct {
	RoomID    string    `gorm:"column:room_id;primaryKey"`
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (membershipModel) TableName() string { return "room_memberships" }

func toDomainMembership(m membershipModel) *domain.RoomMembership {
	return &domain.RoomMembership{
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Role:      domain.RoomRole(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *MembershipRepository) Get(ctx context.Context, roomID, userID string) (*domain.RoomMembership, error) {
	var m membershipModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMembership(m), nil
}

func (r *MembershipRepository) Insert(ctx context.Context, roomID, userID string, role domain.RoomRole) error {
	m := membershipModel{
		RoomID: roomID,
		UserID: userID,
		Role:   string(role),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicateKey(tx.Error) {
			return ErrDuplicateMembership
		}
		return tx.Error
	}
	return nil
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, roomID, userID string, role domain.RoomRole) error {
	tx := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, roomID, userID string) error {
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&membershipModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type memberRow struct {
	RoomID    string    `gorm:"column:room_id"`
	UserID    string    `gorm:"column:user_id"`
	Role      string    `gorm:"column:role"`
	Email     string    `gorm:"column:email"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (r *MembershipRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.RoomMembership, error) {
	var rows []memberRow
	q := `
SELECT rm.room_id, rm.user_id, rm.role, rm.created_at, u.email, u.name
FROM room_memberships rm
JOIN users u ON u.id = rm.user_id
WHERE rm.room_id = ?
ORDER BY u.email
`
	tx := r.db.WithContext(ctx).Raw(q, roomID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.RoomMembership, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RoomMembership{
			RoomID:    row.RoomID,
			UserID:    row.UserID,
			Role:      domain.RoomRole(row.Role),
			CreatedAt: row.CreatedAt,
			User: &domain.User{
				ID:    row.UserID,
				Email: row.Email,
				Name:  row.Name,
			},
		})
	}
	return out, nil
}

type userRoomRow struct {
	RoomID      string    `gorm:"column:room_id"`
	UserID      string    `gorm:"column:user_id"`
	Role        string    `gorm:"column:role"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
}

// ListByUser returns every room the user belongs to, with their role in each.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]domain.RoomMembership, error) {
	var rows []userRoomRow
	q := `
SELECT rm.room_id, rm.user_id, rm.role, rm.created_at, ro.name, ro.description
FROM room_memberships rm
JOIN rooms ro ON ro.id = rm.room_id
WHERE rm.user_id = ?
ORDER BY ro.name
`
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.RoomMembership, 0, len(rows))
	for _, row := range rows {
		var desc string
		if row.Description != nil {
			desc = *row.Description
		}
		out = append(out, domain.RoomMembership{
			RoomID:    row.RoomID,
			UserID:    row.UserID,
			Role:      domain.RoomRole(row.Role),
			CreatedAt: row.CreatedAt,
			Room: &domain.Room{
				ID:          row.RoomID,
				Name:        row.Name,
				Description: desc,
			},
		})
	}
	return out, nil
}

// CountAdmins reports how many admins the room currently has. Used to stop
// the last admin from leaving or being demoted.
func (r *MembershipRepository) CountAdmins(ctx context.Context, roomID string) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("room_id = ? AND role = ?", roomID, string(domain.RoleAdmin)).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite driver reports constraint violations as plain errors
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
