// services/team_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tournament-management-system/models"
	"tournament-management-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

type TeamRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	LogoURL  string `json:"logo_url"`
}

func (r *TeamRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return utils.ValidationError("name", "cannot be empty")
	}
	if strings.TrimSpace(r.Location) == "" {
		return utils.ValidationError("location", "cannot be empty")
	}
	return nil
}

func (s *TeamService) ListTeams(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)

	var total int64
	if err := s.DB.Model(&models.Team{}).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var teams []models.Team
	if err := page.Scope(s.DB.Order("id")).Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Teams retrieved successfully",
		utils.PagePayload(teams, page, total))
}

func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	var req TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if err := req.validate(); err != nil {
		return utils.ErrorResponse(c, err)
	}

	now := time.Now()
	team := &models.Team{
		Name:      req.Name,
		Location:  req.Location,
		LogoURL:   req.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.DB.Create(team).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusCreated, "Team created successfully", team)
}

func (s *TeamService) FindTeam(c *fiber.Ctx) error {
	team, err := s.teamByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team retrieved successfully", team)
}

func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	team, err := s.teamByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var req TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if err := req.validate(); err != nil {
		return utils.ErrorResponse(c, err)
	}

	team.Name = req.Name
	team.Location = req.Location
	if req.LogoURL != "" {
		team.LogoURL = req.LogoURL
	}
	team.UpdatedAt = time.Now()

	if err := s.DB.Save(team).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team updated successfully", team)
}

// DeleteTeam removes the team's players first (orphan removal), then its
// tournament associations, then the team row itself. The ordering matters
// for the FK constraints.
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	team, err := s.teamByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM tournament_teams WHERE team_id = ?", team.ID).Error; err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team deleted successfully", nil)
}

// TeamByPlayerID resolves the owning team for a player id (legacy /home route).
func (s *TeamService) TeamByPlayerID(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: player not found", utils.ErrNotFound))
		}
		return utils.ErrorResponse(c, err)
	}

	var team models.Team
	if err := s.DB.First(&team, player.TeamID).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team retrieved successfully", team)
}

// UploadLogo stores a team logo in R2 and saves the CDN URL.
func (s *TeamService) UploadLogo(c *fiber.Ctx) error {
	if !utils.UploadsEnabled() {
		return utils.Response(c, fiber.StatusServiceUnavailable, "File uploads are not configured", nil)
	}
	team, err := s.teamByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("logo", "file is required"))
	}

	key := utils.UploadKey("teams/logos", team.Name, file.Filename)
	url, err := utils.UploadFileToR2(file, key)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	team.LogoURL = url
	team.UpdatedAt = time.Now()
	if err := s.DB.Save(team).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Team logo updated", fiber.Map{"logo_url": url})
}

func (s *TeamService) teamByID(id string) (*models.Team, error) {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: team not found", utils.ErrNotFound)
		}
		return nil, err
	}
	return &team, nil
}
