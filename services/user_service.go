package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"game-arena-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// getUserByAuthID resolves the internal user row for an auth-provider id.
// Returns nil without error when the user does not exist.
func getUserByAuthID(db *gorm.DB, authUserID string) (*models.User, error) {
	var user models.User
	err := db.Where("auth_user_id = ?", authUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// getOrCreateUser resolves the internal user row, provisioning a placeholder
// profile on first contact. A lost insert race falls back to re-reading the
// row the other request created.
func getOrCreateUser(db *gorm.DB, authUserID string) (*models.User, error) {
	user, err := getUserByAuthID(db, authUserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	short := authUserID
	if len(short) > 8 {
		short = short[:8]
	}
	created := models.User{
		AuthUserID: authUserID,
		Username:   fmt.Sprintf("Player_%s", short),
	}
	if err := db.Create(&created).Error; err != nil {
		log.Printf("[Users] create failed for %s, retrying lookup: %v", authUserID, err)
		retry, rerr := getUserByAuthID(db, authUserID)
		if rerr == nil && retry != nil {
			return retry, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetUser returns a public profile by internal id.
func (s *UserService) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetLeaderboard lists users by total points, highest first.
func (s *UserService) GetLeaderboard(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.User
	if err := s.DB.Order("total_points DESC").Limit(limit).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch leaderboard", "details": err.Error()})
	}

	type entry struct {
		Rank        int     `json:"rank"`
		UserID      string  `json:"user_id"`
		Username    string  `json:"username"`
		DisplayName *string `json:"display_name,omitempty"`
		AvatarURL   *string `json:"avatar_url,omitempty"`
		TotalPoints int64   `json:"total_points"`
	}

	entries := make([]entry, len(users))
	for i, u := range users {
		entries[i] = entry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			TotalPoints: u.TotalPoints,
		}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"leaderboard": entries,
		"count":       len(entries),
	})
}
