// handlers/player.go
package handlers

import (
	"tournament-management-system/middleware"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService, tokens *services.TokenService) {
	players := app.Group("/api/players")

	// 🔓 Public routes
	players.Get("/", playerService.ListPlayers)
	players.Get("/:id", playerService.FindPlayer)

	// 🔐 Secured routes — mutations require an admin token
	secured := players.Group("/", middleware.AuthRequired(tokens), middleware.AdminRequired())

	secured.Post("/", playerService.CreatePlayer)
	secured.Put("/:id", playerService.UpdatePlayer)
	secured.Delete("/:id", playerService.DeletePlayer)
}
