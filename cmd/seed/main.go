package main

import (
	"context"
	"log"
	"os"
	"time"

	"meetspace/internal/database"
	"meetspace/internal/domain"
	"meetspace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a local database with two users, one shared room and a pair of
// non-overlapping bookings. Intended for development against sqlite.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "meetspace.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM room_memberships")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	rooms := repository.NewRoomRepository(db)
	memberships := repository.NewMembershipRepository(db)
	bookings := repository.NewBookingRepository(db)

	alice := mustUser(ctx, users, "alice@example.com", "Alice")
	bob := mustUser(ctx, users, "bob@example.com", "Bob")

	boardroom := &domain.Room{
		Name:        "Boardroom",
		Description: "6th floor, seats 12, has a projector",
	}
	if err := rooms.CreateWithOwner(ctx, boardroom, alice.ID); err != nil {
		log.Fatal("create room:", err)
	}
	if err := memberships.Insert(ctx, boardroom.ID, bob.ID, domain.RoleMember); err != nil {
		log.Fatal("add member:", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	slots := []struct {
		user  *domain.User
		start time.Time
		desc  string
	}{
		{alice, today.Add(34 * time.Hour), "Sprint planning"},
		{bob, today.Add(36 * time.Hour), "1:1"},
	}
	for _, s := range slots {
		b := &domain.Booking{
			RoomID:      boardroom.ID,
			UserID:      s.user.ID,
			StartTime:   s.start,
			EndTime:     s.start.Add(time.Hour),
			Description: s.desc,
		}
		if err := bookings.Create(ctx, b); err != nil {
			log.Fatal("create booking:", err)
		}
	}

	log.Println("Seed complete. Users alice@example.com / bob@example.com, password: password123")
}

func mustUser(ctx context.Context, repo *repository.UserRepository, email, name string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	u := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatal("create user:", err)
	}
	return u
}
