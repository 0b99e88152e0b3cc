package handlers

import (
	"game-arena-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService) {
	app.Get("/api/tournaments", tournamentService.List)
	app.Post("/api/tournaments", tournamentService.Create)
	app.Get("/api/tournaments/:id", tournamentService.Get)
	app.Post("/api/tournaments/:id/join", tournamentService.Join)
	app.Post("/api/tournaments/:id/leave", tournamentService.Leave)
	app.Post("/api/tournaments/:id/advance", tournamentService.Advance)
	app.Post("/api/tournaments/:id/match/:matchId/room", tournamentService.CreateMatchRoom)
}
