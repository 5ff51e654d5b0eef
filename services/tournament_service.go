// services/tournament_service.go
package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"tournament-management-system/models"
	"tournament-management-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Name-uniqueness policy for tournaments. "exact" rejects an identical name;
// "substring" additionally rejects names that contain or are contained by an
// existing one.
const (
	NameMatchExact     = "exact"
	NameMatchSubstring = "substring"
)

type TournamentService struct {
	DB        *gorm.DB
	NameMatch string
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	policy := os.Getenv("TOURNAMENT_NAME_MATCH")
	if policy != NameMatchSubstring {
		policy = NameMatchExact
	}
	return &TournamentService{DB: db, NameMatch: policy}
}

type TournamentRequest struct {
	Name      string `json:"name"`
	LogoURL   string `json:"logo_url"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	GameID    *uint  `json:"game_id"`
}

// parseDate accepts plain dates ("2025-01-10") as the dashboards send them,
// falling back to RFC3339.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (s *TournamentService) ListTournaments(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)

	var total int64
	if err := s.DB.Model(&models.Tournament{}).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var tournaments []models.Tournament
	if err := page.Scope(s.DB.Preload("Game").Order("id")).Find(&tournaments).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Tournaments retrieved successfully",
		utils.PagePayload(tournaments, page, total))
}

func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req TournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}

	tournament, err := s.buildTournament(&req, nil)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := s.DB.Create(tournament).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusCreated, "Tournament created successfully", tournament)
}

// buildTournament validates a request and either fills a fresh entity or
// applies the request onto an existing one (update path).
func (s *TournamentService) buildTournament(req *TournamentRequest, existing *models.Tournament) (*models.Tournament, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, utils.ValidationError("name", "cannot be empty")
	}
	if req.StartDate == "" {
		return nil, utils.ValidationError("start_date", "is required")
	}
	if req.EndDate == "" {
		return nil, utils.ValidationError("end_date", "is required")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, utils.ValidationError("start_date", "must be a valid date (YYYY-MM-DD)")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, utils.ValidationError("end_date", "must be a valid date (YYYY-MM-DD)")
	}
	if endDate.Before(startDate) {
		return nil, utils.ValidationError("end_date", "must not be before start_date")
	}

	var excludeID uint
	if existing != nil {
		excludeID = existing.ID
	}
	taken, err := s.nameTaken(req.Name, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: a tournament with this name already exists", utils.ErrConflict)
	}

	if req.GameID != nil {
		var game models.Game
		if err := s.DB.First(&game, *req.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: game not found with id %d", utils.ErrNotFound, *req.GameID)
			}
			return nil, err
		}
	}

	now := time.Now()
	if existing == nil {
		return &models.Tournament{
			Name:      req.Name,
			LogoURL:   req.LogoURL,
			StartDate: startDate,
			EndDate:   endDate,
			GameID:    req.GameID,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}

	existing.Name = req.Name
	if req.LogoURL != "" {
		existing.LogoURL = req.LogoURL
	}
	existing.StartDate = startDate
	existing.EndDate = endDate
	existing.GameID = req.GameID
	existing.UpdatedAt = now
	return existing, nil
}

// nameTaken applies the configured uniqueness policy.
func (s *TournamentService) nameTaken(name string, excludeID uint) (bool, error) {
	query := s.DB.Model(&models.Tournament{})
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if s.NameMatch == NameMatchSubstring {
		pattern := "%" + strings.ToLower(name) + "%"
		query = query.Where("LOWER(name) LIKE ? OR ? LIKE '%' || LOWER(name) || '%'",
			pattern, strings.ToLower(name))
	} else {
		query = query.Where("name = ?", name)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *TournamentService) FindTournament(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), true)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Tournament retrieved successfully", tournament)
}

func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var req TournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}

	tournament, err = s.buildTournament(&req, tournament)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := s.DB.Save(tournament).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Tournament updated successfully", tournament)
}

// DeleteTournament clears the join rows first, then removes the tournament.
// Teams themselves are untouched: the membership is a shared association.
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tournament_teams WHERE tournament_id = ?", tournament.ID).Error; err != nil {
			return err
		}
		return tx.Delete(tournament).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Tournament deleted successfully", nil)
}

// AddTeam registers a team in the tournament. The association is symmetric;
// GORM keeps the join table and both preloaded collections consistent.
func (s *TournamentService) AddTeam(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("team_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: team not found", utils.ErrNotFound))
		}
		return utils.ErrorResponse(c, err)
	}

	if err := s.DB.Model(tournament).Association("Teams").Append(&team); err != nil {
		return utils.ErrorResponse(c, err)
	}

	tournament.UpdatedAt = time.Now()
	if err := s.DB.Model(tournament).Update("updated_at", tournament.UpdatedAt).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team added to tournament", tournament)
}

// RemoveTeam drops the association only; neither entity is deleted.
func (s *TournamentService) RemoveTeam(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("team_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: team not found", utils.ErrNotFound))
		}
		return utils.ErrorResponse(c, err)
	}

	if err := s.DB.Model(tournament).Association("Teams").Delete(&team); err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team removed from tournament", nil)
}

// ListTeams pages through the teams registered in a tournament.
func (s *TournamentService) ListTeams(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	page := utils.ParsePageRequest(c)

	query := s.DB.Model(&models.Team{}).
		Joins("JOIN tournament_teams tt ON tt.team_id = teams.id").
		Where("tt.tournament_id = ?", tournament.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var teams []models.Team
	if err := page.Scope(query.Order("teams.id")).Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Teams retrieved successfully",
		utils.PagePayload(teams, page, total))
}

// ClearTeams removes every team association from a tournament.
func (s *TournamentService) ClearTeams(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	if err := s.DB.Model(tournament).Association("Teams").Clear(); err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "All teams removed from tournament", nil)
}

// DeleteAllTournaments wipes every tournament and its team associations.
func (s *TournamentService) DeleteAllTournaments(c *fiber.Ctx) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tournament_teams").Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM tournaments").Error
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "All tournaments deleted successfully", nil)
}

// ListPlayers pages through the players of every team in a tournament.
func (s *TournamentService) ListPlayers(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	page := utils.ParsePageRequest(c)

	query := s.DB.Model(&models.Player{}).
		Joins("JOIN tournament_teams tt ON tt.team_id = players.team_id").
		Where("tt.tournament_id = ?", tournament.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var players []models.Player
	if err := page.Scope(query.Order("players.id")).Find(&players).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Players retrieved successfully",
		utils.PagePayload(players, page, total))
}

// ClearPlayers deletes the players of every team registered in a tournament.
// The teams and their registrations stay.
func (s *TournamentService) ClearPlayers(c *fiber.Ctx) error {
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	result := s.DB.Exec(
		"DELETE FROM players WHERE team_id IN (SELECT team_id FROM tournament_teams WHERE tournament_id = ?)",
		tournament.ID)
	if result.Error != nil {
		return utils.ErrorResponse(c, result.Error)
	}
	return utils.Response(c, fiber.StatusOK, "All players in tournament deleted successfully", nil)
}

// SearchTournaments matches names against a case-insensitive substring.
func (s *TournamentService) SearchTournaments(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)
	term := strings.TrimSpace(c.Query("name", ""))
	if term == "" {
		return utils.ErrorResponse(c, utils.ValidationError("name", "cannot be empty"))
	}

	pattern := "%" + strings.ToLower(term) + "%"
	query := s.DB.Model(&models.Tournament{}).Where("LOWER(name) LIKE ?", pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var tournaments []models.Tournament
	if err := page.Scope(query.Order("id")).Find(&tournaments).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Tournaments retrieved successfully",
		utils.PagePayload(tournaments, page, total))
}

// ActiveTournaments lists tournaments whose date window covers today.
func (s *TournamentService) ActiveTournaments(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)
	now := time.Now()

	query := s.DB.Model(&models.Tournament{}).
		Where("start_date <= ? AND end_date >= ?", now, now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var tournaments []models.Tournament
	if err := page.Scope(query.Order("start_date")).Find(&tournaments).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Active tournaments retrieved successfully",
		utils.PagePayload(tournaments, page, total))
}

// UploadLogo stores a tournament logo in R2 and saves the CDN URL.
func (s *TournamentService) UploadLogo(c *fiber.Ctx) error {
	if !utils.UploadsEnabled() {
		return utils.Response(c, fiber.StatusServiceUnavailable, "File uploads are not configured", nil)
	}
	tournament, err := s.tournamentByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("logo", "file is required"))
	}

	key := utils.UploadKey("tournaments/logos", tournament.Name, file.Filename)
	url, err := utils.UploadFileToR2(file, key)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	tournament.LogoURL = url
	tournament.UpdatedAt = time.Now()
	if err := s.DB.Save(tournament).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Tournament logo updated", fiber.Map{"logo_url": url})
}

func (s *TournamentService) tournamentByID(id string, preload bool) (*models.Tournament, error) {
	query := s.DB
	if preload {
		query = query.Preload("Teams").Preload("Game")
	}
	var tournament models.Tournament
	if err := query.First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tournament not found", utils.ErrNotFound)
		}
		return nil, err
	}
	return &tournament, nil
}
