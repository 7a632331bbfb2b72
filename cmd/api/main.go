package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"meetspace/internal/database"
	"meetspace/internal/middleware"
	"meetspace/internal/modules/auth"
	"meetspace/internal/modules/booking"
	"meetspace/internal/modules/feed"
	"meetspace/internal/modules/room"
	jwtsvc "meetspace/internal/pkg/jwt"
	"meetspace/internal/repository"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file, relying on environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	roomService := room.NewService(roomRepo, membershipRepo, userRepo)
	guard := room.NewGuard(roomService)
	roomHandler := room.NewHandler(roomService, guard)

	hub := feed.NewHub()
	defer hub.Close()

	bookingService := booking.NewService(bookingRepo, hub)
	bookingHandler := booking.NewHandler(bookingService, guard)

	feedHandler := feed.NewHandler(hub, j, guard)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			roomHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	// websocket feed authenticates via query token, outside the v1 group
	feedHandler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
