// handlers/game.go
package handlers

import (
	"tournament-management-system/middleware"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, tokens *services.TokenService) {
	games := app.Group("/api/games")

	// 🔓 Public routes
	games.Get("/", gameService.ListGames)
	games.Get("/search", gameService.SearchGames)
	games.Get("/genre/:genre", gameService.GamesByGenre)
	games.Get("/:id", gameService.GetGame)

	// 🔐 Secured routes — mutations require an admin token
	secured := games.Group("/", middleware.AuthRequired(tokens), middleware.AdminRequired())

	secured.Post("/", gameService.CreateGame)
	secured.Put("/:id", gameService.UpdateGame)
	secured.Delete("/:id", gameService.DeleteGame)
}
