// services/game_service.go
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

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

type GameRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Developer string `json:"developer"`
	Genre     string `json:"genre"`
}

func (s *GameService) ListGames(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)

	var total int64
	if err := s.DB.Model(&models.Game{}).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var games []models.Game
	if err := page.Scope(s.DB.Order("id")).Find(&games).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Games retrieved successfully",
		utils.PagePayload(games, page, total))
}

func (s *GameService) GetGame(c *fiber.Ctx) error {
	game, err := s.gameByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Game retrieved successfully", game)
}

// GamesByGenre filters the catalog by exact genre match.
func (s *GameService) GamesByGenre(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)
	genre := c.Params("genre")

	query := s.DB.Model(&models.Game{}).Where("game_genre = ?", genre)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var games []models.Game
	if err := page.Scope(query.Order("id")).Find(&games).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Games retrieved successfully",
		utils.PagePayload(games, page, total))
}

// SearchGames matches game names against a case-insensitive substring.
func (s *GameService) SearchGames(c *fiber.Ctx) error {
	page := utils.ParsePageRequest(c)
	term := strings.TrimSpace(c.Query("query", ""))
	if term == "" {
		return utils.ErrorResponse(c, utils.ValidationError("query", "cannot be empty"))
	}

	pattern := "%" + strings.ToLower(term) + "%"
	query := s.DB.Model(&models.Game{}).Where("LOWER(name) LIKE ?", pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var games []models.Game
	if err := page.Scope(query.Order("id")).Find(&games).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Games retrieved successfully",
		utils.PagePayload(games, page, total))
}

func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var req GameRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.ErrorResponse(c, utils.ValidationError("name", "cannot be empty"))
	}

	now := time.Now()
	game := &models.Game{
		Name:      req.Name,
		Icon:      req.Icon,
		Developer: req.Developer,
		Genre:     req.Genre,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.DB.Create(game).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusCreated, "Game created successfully", game)
}

func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	game, err := s.gameByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	var req GameRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, utils.ValidationError("body", "must be valid JSON"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.ErrorResponse(c, utils.ValidationError("name", "cannot be empty"))
	}

	game.Name = req.Name
	if req.Icon != "" {
		game.Icon = req.Icon
	}
	if req.Developer != "" {
		game.Developer = req.Developer
	}
	if req.Genre != "" {
		game.Genre = req.Genre
	}
	game.UpdatedAt = time.Now()

	if err := s.DB.Save(game).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Game updated successfully", game)
}

// DeleteGame removes the game and cascades to its tournaments, clearing the
// tournaments' team associations first.
func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	game, err := s.gameByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var tournamentIDs []uint
		if err := tx.Model(&models.Tournament{}).Where("game_id = ?", game.ID).
			Pluck("id", &tournamentIDs).Error; err != nil {
			return err
		}
		if len(tournamentIDs) > 0 {
			if err := tx.Exec("DELETE FROM tournament_teams WHERE tournament_id IN ?", tournamentIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", tournamentIDs).Delete(&models.Tournament{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(game).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return utils.Response(c, fiber.StatusOK, "Game deleted successfully", nil)
}

func (s *GameService) gameByID(id string) (*models.Game, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: game not found", utils.ErrNotFound)
		}
		return nil, err
	}
	return &game, nil
}
