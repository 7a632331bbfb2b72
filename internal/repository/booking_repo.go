package repository

import (
	"context"
	"time"

	"meetspace/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RoomID      string    `gorm:"column:room_id;index"`
	UserID      string    `gorm:"column:user_id"`
	StartTime   time.Time `gorm:"column:start_time"`
	EndTime     time.Time `gorm:"column:end_time"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Booking{
		ID:          m.ID,
		RoomID:      m.RoomID,
		UserID:      m.UserID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Description: desc,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var desc *string
	if b.Description != "" {
		v := b.Description
		desc = &v
	}
	return bookingModel{
		ID:          b.ID,
		RoomID:      b.RoomID,
		UserID:      b.UserID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Description: desc,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("start_time").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

type userBookingRow struct {
	ID          string    `gorm:"column:id"`
	RoomID      string    `gorm:"column:room_id"`
	UserID      string    `gorm:"column:user_id"`
	StartTime   time.Time `gorm:"column:start_time"`
	EndTime     time.Time `gorm:"column:end_time"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	RoomName    string    `gorm:"column:room_name"`
}

// ListByUser returns the user's bookings across all rooms, each carrying the
// room name for display.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var rows []userBookingRow
	q := `
SELECT b.id, b.room_id, b.user_id, b.start_time, b.end_time, b.description, b.created_at, r.name AS room_name
FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE b.user_id = ?
ORDER BY b.start_time
`
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		var desc string
		if row.Description != nil {
			desc = *row.Description
		}
		out = append(out, domain.Booking{
			ID:          row.ID,
			RoomID:      row.RoomID,
			UserID:      row.UserID,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			Description: desc,
			CreatedAt:   row.CreatedAt,
			Room: &domain.Room{
				ID:   row.RoomID,
				Name: row.RoomName,
			},
		})
	}
	return out, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"start_time":  m.StartTime,
			"end_time":    m.EndTime,
			"description": m.Description,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&bookingModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
