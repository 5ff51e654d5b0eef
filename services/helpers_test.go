// services/helpers_test.go
package services_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tournament-management-system/handlers"
	"tournament-management-system/models"
	"tournament-management-system/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache DSN so every pooled connection sees the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Game{},
		&models.Tournament{},
		&models.Team{},
		&models.Player{},
	))
	return db
}

type stubMailer struct {
	codes         []string
	confirmations []string
}

func (m *stubMailer) SendPasswordResetCode(to, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *stubMailer) SendPasswordResetConfirmation(to string) error {
	m.confirmations = append(m.confirmations, to)
	return nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *services.TokenService
	mail   *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	tokens := services.NewTokenServiceWith("test-secret", time.Hour)
	mail := &stubMailer{}

	authService := services.NewAuthService(db, tokens, mail)
	teamService := services.NewTeamService(db)
	playerService := services.NewPlayerService(db)
	gameService := services.NewGameService(db)
	tournamentService := services.NewTournamentService(db)

	app := fiber.New()
	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupTeamRoutes(app, teamService, playerService, tokens)
	handlers.SetupPlayerRoutes(app, playerService, tokens)
	handlers.SetupGameRoutes(app, gameService, tokens)
	handlers.SetupTournamentRoutes(app, tournamentService, tokens)
	handlers.SetupHomeRoutes(app, teamService, playerService, gameService, tournamentService, tokens)

	return &testEnv{app: app, db: db, tokens: tokens, mail: mail}
}

// envelope mirrors the uniform response body.
type envelope struct {
	Status  int             `json:"status"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// request sends a JSON request through the fiber app and decodes the
// envelope. An empty token leaves the Authorization header off.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

// adminToken creates an administrator account directly and issues a token
// for it.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	digest, err := services.HashPassword("admin-secret")
	require.NoError(t, err)
	admin := &models.User{
		Username:  "admin-" + uuid.NewString()[:8],
		FirstName: "Admin",
		LastName:  "User",
		Email:     uuid.NewString()[:8] + "@admin.test",
		Password:  digest,
		Role:      models.RoleAdmin,
		Status:    models.StatusActive,
	}
	require.NoError(t, e.db.Create(admin).Error)

	token, err := e.tokens.Issue(admin.ID, admin.Role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) signup(t *testing.T, username, email, password string) envelope {
	t.Helper()
	status, env := e.request(t, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   password,
	}, "")
	require.Equal(t, http.StatusCreated, status, env.Message)
	return env
}

func (e *testEnv) login(t *testing.T, usernameOrEmail, password string) string {
	t.Helper()
	status, env := e.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"username_or_email": usernameOrEmail,
		"password":          password,
	}, "")
	require.Equal(t, http.StatusOK, status, env.Message)

	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "Bearer", data.TokenType)
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func (e *testEnv) createTeam(t *testing.T, token, name, location string) uint {
	t.Helper()
	status, env := e.request(t, http.MethodPost, "/api/teams/", fiber.Map{
		"name":     name,
		"location": location,
	}, token)
	require.Equal(t, http.StatusCreated, status, env.Message)

	var team models.Team
	require.NoError(t, json.Unmarshal(env.Data, &team))
	return team.ID
}

func (e *testEnv) createPlayer(t *testing.T, token, name string, age int, teamID uint) uint {
	t.Helper()
	status, env := e.request(t, http.MethodPost, "/api/players/", fiber.Map{
		"name":    name,
		"age":     age,
		"team_id": teamID,
	}, token)
	require.Equal(t, http.StatusCreated, status, env.Message)

	var player models.Player
	require.NoError(t, json.Unmarshal(env.Data, &player))
	return player.ID
}
