// services/team_service_test.go
package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"tournament-management-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	teamID := env.createTeam(t, admin, "Thunder FC", "Manchester")

	status, resp := env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), nil, "")
	require.Equal(t, http.StatusOK, status)
	var team models.Team
	require.NoError(t, json.Unmarshal(resp.Data, &team))
	assert.Equal(t, "Thunder FC", team.Name)
	assert.Equal(t, "Manchester", team.Location)

	status, _ = env.request(t, http.MethodPut, fmt.Sprintf("/api/teams/%d", teamID), fiber.Map{
		"name":     "Thunder United",
		"location": "Leeds",
	}, admin)
	require.Equal(t, http.StatusOK, status)

	status, resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), nil, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &team))
	assert.Equal(t, "Thunder United", team.Name)

	status, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/api/teams/%d", teamID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTeamValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	status, _ := env.request(t, http.MethodPost, "/api/teams/", fiber.Map{
		"location": "Somewhere",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPost, "/api/teams/", fiber.Map{
		"name": "No Location",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTeamMutationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "alice@example.com", "s3cretpw")
	userToken := env.login(t, "alice", "s3cretpw")

	body := fiber.Map{"name": "Thunder FC", "location": "Manchester"}

	status, _ := env.request(t, http.MethodPost, "/api/teams/", body, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.request(t, http.MethodPost, "/api/teams/", body, userToken)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDeleteTeamRemovesPlayersAndMemberships(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	teamID := env.createTeam(t, admin, "Thunder FC", "Manchester")
	playerID := env.createPlayer(t, admin, "Jo Woods", 24, teamID)

	// Register the team in a tournament so a join row exists.
	status, resp := env.request(t, http.MethodPost, "/api/tournaments/", fiber.Map{
		"name":       "Spring Cup",
		"start_date": "2026-03-01",
		"end_date":   "2026-03-20",
	}, admin)
	require.Equal(t, http.StatusCreated, status)
	var tournament models.Tournament
	require.NoError(t, json.Unmarshal(resp.Data, &tournament))

	status, _ = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/tournaments/%d/teams/%d", tournament.ID, teamID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/api/teams/%d", teamID), nil, admin)
	require.Equal(t, http.StatusOK, status)

	// Players are gone with the team.
	status, _ = env.request(t, http.MethodGet, fmt.Sprintf("/api/players/%d", playerID), nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	// The tournament survives with no stale membership.
	var joinRows int64
	require.NoError(t, env.db.Table("tournament_teams").
		Where("team_id = ?", teamID).Count(&joinRows).Error)
	assert.Zero(t, joinRows)

	status, _ = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/tournaments/%d", tournament.ID), nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestListTeamsPaginated(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	for i := 0; i < 12; i++ {
		env.createTeam(t, admin, fmt.Sprintf("Team %02d", i), "City")
	}

	status, resp := env.request(t, http.MethodGet, "/api/teams/?page=0&size=5", nil, "")
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Content       []models.Team `json:"content"`
		Page          int           `json:"page"`
		Size          int           `json:"size"`
		TotalElements int64         `json:"total_elements"`
		TotalPages    int           `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page.Content, 5)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)

	status, resp = env.request(t, http.MethodGet, "/api/teams/?page=2&size=5", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page.Content, 2)
}

func TestLegacyTeamRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	status, resp := env.request(t, http.MethodPost, "/home/createTeam", fiber.Map{
		"name":     "Legacy FC",
		"location": "Bristol",
	}, admin)
	require.Equal(t, http.StatusCreated, status)
	var team models.Team
	require.NoError(t, json.Unmarshal(resp.Data, &team))

	playerID := env.createPlayer(t, admin, "Sam Reyes", 22, team.ID)

	status, _ = env.request(t, http.MethodGet, fmt.Sprintf("/home/findATeam/%d", team.ID), nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, resp = env.request(t, http.MethodGet, fmt.Sprintf("/home/teamByPlayerId/%d", playerID), nil, "")
	require.Equal(t, http.StatusOK, status)
	var byPlayer models.Team
	require.NoError(t, json.Unmarshal(resp.Data, &byPlayer))
	assert.Equal(t, team.ID, byPlayer.ID)

	status, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/home/deleteTeam/%d", team.ID), nil, admin)
	assert.Equal(t, http.StatusOK, status)
}
