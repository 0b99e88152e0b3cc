package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"game-arena-system/handlers"
	"game-arena-system/middleware"
	"game-arena-system/models"
	"game-arena-system/services"
	"game-arena-system/utils"
	"game-arena-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB, game state payloads are small
	})

	app.Use(middleware.UserContextMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Friendship{},
		&models.MultiplayerRoom{},
		&models.RoomPlayer{},
		&models.MultiplayerAction{},
		&models.MultiplayerStats{},
		&models.Tournament{},
		&models.TournamentParticipant{},
		&models.TournamentMatch{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	userService := services.NewUserService(db)
	friendService := services.NewFriendService(db)
	eloService := services.NewEloService(db)
	roomService := services.NewRoomService(db, eloService)
	tournamentService := services.NewTournamentService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archiverEnabled := true
	if err := utils.InitR2(); err != nil {
		if errors.Is(err, utils.ErrR2NotConfigured) {
			log.Println("⚠️  R2 not configured, replay archiving disabled")
			archiverEnabled = false
		} else {
			log.Fatal("failed to initialize R2 client:", err)
		}
	}
	if archiverEnabled {
		go workers.PollReplays(ctx, db, 30*time.Second)
	}
	go workers.PollStaleRooms(ctx, db, 5*time.Minute)

	tournamentService.StartAutoStartScheduler()

	handlers.SetupUserRoutes(app, userService)
	handlers.SetupFriendRoutes(app, friendService)
	handlers.SetupMultiplayerRoutes(app, roomService)
	handlers.SetupTournamentRoutes(app, tournamentService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Stale room reaper running (every 5m)")
	if archiverEnabled {
		log.Println("✅ Replay archiver running (every 30s)")
	}
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
