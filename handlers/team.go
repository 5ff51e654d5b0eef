// handlers/team.go
package handlers

import (
	"tournament-management-system/middleware"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService, playerService *services.PlayerService, tokens *services.TokenService) {
	teams := app.Group("/api/teams")

	// 🔓 Public routes
	teams.Get("/", teamService.ListTeams)
	teams.Get("/:id", teamService.FindTeam)
	teams.Get("/:team_id/players", playerService.PlayersByTeam)

	// 🔐 Secured routes — mutations require an admin token
	secured := teams.Group("/", middleware.AuthRequired(tokens), middleware.AdminRequired())

	secured.Post("/", teamService.CreateTeam)
	secured.Put("/:id", teamService.UpdateTeam)
	secured.Delete("/:id", teamService.DeleteTeam)
	secured.Delete("/:team_id/players", playerService.DeletePlayersByTeam)
	secured.Post("/:id/logo", teamService.UploadLogo)
}
