package handlers

import (
	"game-arena-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMultiplayerRoutes(app *fiber.App, roomService *services.RoomService) {
	app.Get("/api/multiplayer/rooms", roomService.ListRooms)
	app.Post("/api/multiplayer/rooms", roomService.CreateRoom)
	app.Post("/api/multiplayer/join-code", roomService.JoinByCode)
	app.Post("/api/multiplayer/match", roomService.FindMatch)
	app.Get("/api/multiplayer/rooms/:id", roomService.GetRoom)
	app.Patch("/api/multiplayer/rooms/:id", roomService.UpdateRoom)
	app.Post("/api/multiplayer/rooms/:id/join", roomService.JoinRoom)
	app.Post("/api/multiplayer/rooms/:id/leave", roomService.LeaveRoom)
}
