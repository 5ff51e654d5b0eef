// handlers/tournament.go
package handlers

import (
	"tournament-management-system/middleware"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, tokens *services.TokenService) {
	tournaments := app.Group("/api/tournaments")

	// 🔓 Public routes
	tournaments.Get("/", tournamentService.ListTournaments)
	tournaments.Get("/search", tournamentService.SearchTournaments)
	tournaments.Get("/active", tournamentService.ActiveTournaments)
	tournaments.Get("/:id", tournamentService.FindTournament)
	tournaments.Get("/:id/teams", tournamentService.ListTeams)

	// 🔐 Secured routes — mutations require an admin token
	secured := tournaments.Group("/", middleware.AuthRequired(tokens), middleware.AdminRequired())

	secured.Post("/", tournamentService.CreateTournament)
	secured.Put("/:id", tournamentService.UpdateTournament)
	secured.Delete("/:id", tournamentService.DeleteTournament)
	secured.Post("/:id/teams/:team_id", tournamentService.AddTeam)
	secured.Delete("/:id/teams/:team_id", tournamentService.RemoveTeam)
	secured.Delete("/:id/teams", tournamentService.ClearTeams)
	secured.Post("/:id/logo", tournamentService.UploadLogo)
}
