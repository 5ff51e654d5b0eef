// handlers/home.go
package handlers

import (
	"tournament-management-system/middleware"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupHomeRoutes registers the legacy /home surface kept for older clients.
// It maps onto the same service handlers as the /api routes.
func SetupHomeRoutes(
	app *fiber.App,
	teamService *services.TeamService,
	playerService *services.PlayerService,
	gameService *services.GameService,
	tournamentService *services.TournamentService,
	tokens *services.TokenService,
) {
	home := app.Group("/home")

	// 🔓 Public routes
	home.Get("/listTeams", teamService.ListTeams)
	home.Get("/findATeam/:id", teamService.FindTeam)
	home.Get("/teamByPlayerId/:id", teamService.TeamByPlayerID)
	home.Get("/listPlayers", playerService.ListPlayers)
	home.Get("/findAPlayer/:id", playerService.FindPlayer)
	home.Get("/playersByTeamId/:team_id", playerService.PlayersByTeam)

	home.Get("/games", gameService.ListGames)
	home.Get("/games/search", gameService.SearchGames)
	home.Get("/games/genre/:genre", gameService.GamesByGenre)
	home.Get("/games/:id", gameService.GetGame)

	home.Get("/listTournaments", tournamentService.ListTournaments)
	home.Get("/findATournament/:id", tournamentService.FindTournament)
	home.Get("/searchTournaments", tournamentService.SearchTournaments)
	home.Get("/activeTournaments", tournamentService.ActiveTournaments)
	home.Get("/teamsInTournament/:id", tournamentService.ListTeams)
	home.Get("/playersInTournament/:id", tournamentService.ListPlayers)

	// 🔐 Secured routes — mutations require an admin token
	secured := home.Group("/", middleware.AuthRequired(tokens), middleware.AdminRequired())

	secured.Post("/createTeam", teamService.CreateTeam)
	secured.Put("/updateTeam/:id", teamService.UpdateTeam)
	secured.Delete("/deleteTeam/:id", teamService.DeleteTeam)
	secured.Post("/createPlayer", playerService.CreatePlayer)
	secured.Put("/updatePlayer/:id", playerService.UpdatePlayer)
	secured.Delete("/deletePlayer/:id", playerService.DeletePlayer)
	secured.Delete("/deletePlayersByTeamId/:team_id", playerService.DeletePlayersByTeam)

	secured.Post("/games", gameService.CreateGame)
	secured.Put("/games/:id", gameService.UpdateGame)
	secured.Delete("/games/:id", gameService.DeleteGame)

	secured.Post("/createTournament", tournamentService.CreateTournament)
	secured.Put("/updateTournament/:id", tournamentService.UpdateTournament)
	secured.Delete("/deleteTournament/:id", tournamentService.DeleteTournament)
	secured.Delete("/deleteAllTournaments", tournamentService.DeleteAllTournaments)
	secured.Post("/addTeamToTournament/:id/:team_id", tournamentService.AddTeam)
	secured.Delete("/removeTeamFromTournament/:id/:team_id", tournamentService.RemoveTeam)
	secured.Delete("/deleteAllTeamsInTournament/:id", tournamentService.ClearTeams)
	secured.Delete("/deleteAllPlayersInTournament/:id", tournamentService.ClearPlayers)
}
