// services/tournament_service_test.go
package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tournament-management-system/models"
	"tournament-management-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTournament(t *testing.T, env *testEnv, token, name, start, end string) models.Tournament {
	t.Helper()
	status, resp := env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       name,
		"start_date": start,
		"end_date":   end,
	}, token)
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var tournament models.Tournament
	require.NoError(t, json.Unmarshal(resp.Data, &tournament))
	return tournament
}

func TestTournamentCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	tournament := createTournament(t, env, admin, "Spring Cup", "2026-03-01", "2026-03-20")
	assert.NotZero(t, tournament.ID)

	status, resp := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/tournaments/%d", tournament.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	var fetched models.Tournament
	require.NoError(t, json.Unmarshal(resp.Data, &fetched))
	assert.Equal(t, "Spring Cup", fetched.Name)

	status, _ = env.request(t, http.MethodPut,
		fmt.Sprintf("/api/tournaments/%d", tournament.ID), fiber.Map{
			"name":       "Spring Cup 2026",
			"start_date": "2026-03-01",
			"end_date":   "2026-03-25",
		}, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/tournaments/%d", tournament.ID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/tournaments/%d", tournament.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTournamentDateValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	// End before start is rejected.
	status, _ := env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Backwards Cup",
		"start_date": "2026-03-20",
		"end_date":   "2026-03-01",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	// Same-day tournaments are fine.
	status, _ = env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "One Day Cup",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-01",
	}, admin)
	assert.Equal(t, http.StatusCreated, status)

	// Unparseable dates are a validation error, not a 500.
	status, _ = env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Bad Dates Cup",
		"start_date": "not-a-date",
		"end_date":   "2026-03-01",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTournamentDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	createTournament(t, env, admin, "Spring Cup", "2026-03-01", "2026-03-20")

	status, _ := env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Spring Cup",
		"start_date": "2026-04-01",
		"end_date":   "2026-04-20",
	}, admin)
	assert.Equal(t, http.StatusConflict, status)

	// Under the default exact policy a containing name is allowed.
	status, _ = env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Spring Cup Qualifiers",
		"start_date": "2026-04-01",
		"end_date":   "2026-04-20",
	}, admin)
	assert.Equal(t, http.StatusCreated, status)
}

func TestTournamentSubstringNamePolicy(t *testing.T) {
	env := newTestEnv(t)

	// A separate app wired with the substring policy against the same DB.
	strict := services.NewTournamentService(env.db)
	strict.NameMatch = services.NameMatchSubstring
	app := fiber.New()
	app.Post("/tournaments", strict.CreateTournament)

	strictEnv := &testEnv{app: app, db: env.db, tokens: env.tokens, mail: env.mail}
	post := func(name string) int {
		status, _ := strictEnv.request(t, http.MethodPost, "/tournaments", fiber.Map{
			"name":       name,
			"start_date": "2026-03-01",
			"end_date":   "2026-03-20",
		}, "")
		return status
	}

	require.Equal(t, http.StatusCreated, post("Spring Cup"))
	assert.Equal(t, http.StatusConflict, post("Spring Cup Qualifiers"))
	assert.Equal(t, http.StatusConflict, post("Spring"))
	assert.Equal(t, http.StatusCreated, post("Winter Open"))
}

func TestTournamentTeamAssociation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	tournament := createTournament(t, env, admin, "Spring Cup", "2026-03-01", "2026-03-20")
	teamID := env.createTeam(t, admin, "Thunder FC", "Manchester")
	otherID := env.createTeam(t, admin, "Riverside", "York")

	status, _ := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/teams/%d", tournament.ID, teamID), nil, admin)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/teams/%d", tournament.ID, otherID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, resp := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/tournaments/%d/teams", tournament.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Content       []models.Team `json:"content"`
		TotalElements int64         `json:"total_elements"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page.Content, 2)

	// Removing the association deletes neither entity.
	status, _ = env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/tournaments/%d/teams/%d", tournament.ID, teamID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, resp = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/tournaments/%d/teams", tournament.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page.Content, 1)

	// Associating an unknown team is a 404.
	status, _ = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/teams/9999", tournament.ID), nil, admin)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTournamentKeepsTeams(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	tournament := createTournament(t, env, admin, "Spring Cup", "2026-03-01", "2026-03-20")
	teamID := env.createTeam(t, admin, "Thunder FC", "Manchester")

	status, _ := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/teams/%d", tournament.ID, teamID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/tournaments/%d", tournament.ID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	// Team survives, join rows do not.
	status, _ = env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), nil, "")
	assert.Equal(t, http.StatusOK, status)

	var joinRows int64
	require.NoError(t, env.db.Table("tournament_teams").
		Where("tournament_id = ?", tournament.ID).Count(&joinRows).Error)
	assert.Zero(t, joinRows)
}

func TestActiveTournaments(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	today := time.Now()
	fmtDate := func(t time.Time) string { return t.Format("2006-01-02") }

	createTournament(t, env, admin, "Running Cup",
		fmtDate(today.AddDate(0, 0, -5)), fmtDate(today.AddDate(0, 0, 5)))
	createTournament(t, env, admin, "Finished Cup",
		fmtDate(today.AddDate(0, 0, -20)), fmtDate(today.AddDate(0, 0, -10)))
	createTournament(t, env, admin, "Future Cup",
		fmtDate(today.AddDate(0, 0, 10)), fmtDate(today.AddDate(0, 0, 20)))

	status, resp := env.request(t, http.MethodGet, "/api/tournaments/active", nil, "")
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Content []models.Tournament `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Running Cup", page.Content[0].Name)
}

func TestSearchTournaments(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	createTournament(t, env, admin, "Spring Cup", "2026-03-01", "2026-03-20")
	createTournament(t, env, admin, "Winter Open", "2026-11-01", "2026-11-20")

	status, resp := env.request(t, http.MethodGet, "/api/tournaments/search?name=spring", nil, "")
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Content []models.Tournament `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Spring Cup", page.Content[0].Name)

	// A missing search term is a validation error.
	status, _ = env.request(t, http.MethodGet, "/api/tournaments/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTournamentGameAssociation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	status, resp := env.request(t, http.MethodPost, "/api/games/", fiber.Map{
		"name":      "Street Football",
		"developer": "Kickoff Studios",
		"genre":     "Sports",
	}, admin)
	require.Equal(t, http.StatusCreated, status)
	var game models.Game
	require.NoError(t, json.Unmarshal(resp.Data, &game))

	status, resp = env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Street Cup",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-20",
		"game_id":    game.ID,
	}, admin)
	require.Equal(t, http.StatusCreated, status)
	var tournament models.Tournament
	require.NoError(t, json.Unmarshal(resp.Data, &tournament))
	require.NotNil(t, tournament.GameID)
	assert.Equal(t, game.ID, *tournament.GameID)

	// Unknown game id is rejected.
	status, _ = env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Ghost Cup",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-20",
		"game_id":    9999,
	}, admin)
	assert.Equal(t, http.StatusNotFound, status)
}
