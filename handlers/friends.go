package handlers

import (
	"game-arena-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFriendRoutes(app *fiber.App, friendService *services.FriendService) {
	app.Get("/api/friends", friendService.ListFriends)
	app.Post("/api/friends", friendService.SendRequest)
	app.Patch("/api/friends/:id", friendService.Respond)
	app.Delete("/api/friends/:id", friendService.Remove)
	app.Get("/api/friends/search", friendService.SearchUsers)
}
