// services/player_service.go
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

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

type PlayerRequest struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	ProfileURL string `json:"profile_url"`
	TeamID     uint   `json:"team_id"`
}

func (s *PlayerService) ListPlayers(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)

	var total int64
	if err := s.DB.Model(&models.Player{}).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var players []models.Player
	if err := page.Scope(s.DB.Order("id")).Find(&players).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Players retrieved successfully",
		utils.PagePayload(players, page, total))
}

// CreatePlayer writes a player after resolving an existing team. Name and a
// positive age are mandatory regardless of what the client validated.
func (s *PlayerService) CreatePlayer(c *fiber.Ctx) error {
	var req PlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.ErrorResponse(c, utils.ValidationError("name", "cannot be empty"))
	}
	if req.Age <= 0 {
		return utils.ErrorResponse(c, utils.ValidationError("age", "must be greater than 0"))
	}
	if req.TeamID == 0 {
		return utils.ErrorResponse(c, utils.ValidationError("team_id", "is required"))
	}

	var team models.Team
	if err := s.DB.First(&team, req.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: team not found with id %d", utils.ErrNotFound, req.TeamID))
		}
		return utils.ErrorResponse(c, err)
	}

	now := time.Now()
	player := &models.Player{
		Name:       req.Name,
		Age:        req.Age,
		ProfileURL: req.ProfileURL,
		TeamID:     team.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.DB.Create(player).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusCreated, "Player created successfully", player)
}

func (s *PlayerService) FindPlayer(c *fiber.Ctx) error {
	player, err := s.playerByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Player retrieved successfully", player)
}

// UpdatePlayer mutates name/age/profile and optionally moves the player to a
// different (existing) team.
func (s *PlayerService) UpdatePlayer(c *fiber.Ctx) error {
	player, err := s.playerByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var req PlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.ErrorResponse(c, utils.ValidationError("name", "cannot be empty"))
	}
	if req.Age <= 0 {
		return utils.ErrorResponse(c, utils.ValidationError("age", "must be greater than 0"))
	}

	if req.TeamID != 0 && req.TeamID != player.TeamID {
		var team models.Team
		if err := s.DB.First(&team, req.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fmt.Errorf("%w: team not found with id %d", utils.ErrNotFound, req.TeamID))
			}
			return utils.ErrorResponse(c, err)
		}
		player.TeamID = team.ID
	}

	player.Name = req.Name
	player.Age = req.Age
	if req.ProfileURL != "" {
		player.ProfileURL = req.ProfileURL
	}
	player.UpdatedAt = time.Now()

	if err := s.DB.Save(player).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Player updated successfully", player)
}

func (s *PlayerService) DeletePlayer(c *fiber.Ctx) error {
	player, err := s.playerByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	if err := s.DB.Delete(player).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Player deleted successfully", nil)
}

// PlayersByTeam lists every player owned by a team.
func (s *PlayerService) PlayersByTeam(c *fiber.Ctx) error {
	teamID := c.Params("team_id")
	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: team not found", utils.ErrNotFound))
		}
		return utils.ErrorResponse(c, err)
	}

	var players []models.Player
	if err := s.DB.Where("team_id = ?", team.ID).Order("id").Find(&players).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Players retrieved successfully", players)
}

// DeletePlayersByTeam removes all of a team's players without touching the
// team row (legacy /home route).
func (s *PlayerService) DeletePlayersByTeam(c *fiber.Ctx) error {
	teamID := c.Params("team_id")
	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fmt.Errorf("%w: team not found", utils.ErrNotFound))
		}
		return utils.ErrorResponse(c, err)
	}

	if err := s.DB.Where("team_id = ?", team.ID).Delete(&models.Player{}).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Players deleted successfully", nil)
}

func (s *PlayerService) playerByID(id string) (*models.Player, error) {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: player not found", utils.ErrNotFound)
		}
		return nil, err
	}
	return &player, nil
}
