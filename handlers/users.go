package handlers

import (
	"game-arena-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	app.Get("/api/leaderboard", userService.GetLeaderboard)
	app.Get("/api/users/:id", userService.GetUser)
}
