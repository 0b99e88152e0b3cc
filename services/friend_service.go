package services

import (
	"errors"
	"strings"

	"game-arena-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FriendService struct {
	DB *gorm.DB
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{DB: db}
}

// friendRespondOutcome decides an accept/block attempt without touching the
// store. Returns the new status, or an HTTP status code and message when the
// attempt is invalid.
func friendRespondOutcome(f models.Friendship, actorID, action string) (newStatus string, code int, msg string) {
	var target string
	switch action {
	case "accept":
		target = models.FriendshipAccepted
	case "block":
		target = models.FriendshipBlocked
	default:
		return "", 400, "invalid action, must be: accept or block"
	}
	if f.AddresseeID != actorID {
		return "", 403, "only the recipient can accept or block a friend request"
	}
	if f.Status != models.FriendshipPending {
		return "", 400, "friendship is not pending"
	}
	return target, 0, ""
}

func isFriendshipParty(f models.Friendship, userID string) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// ListFriends returns accepted friends plus pending requests, split by
// direction, each entry enriched with the other user's profile.
func (s *FriendService) ListFriends(c *fiber.Ctx) error {
	authUserID := c.Query("userId")
	if authUserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId query parameter is required"})
	}

	user, err := getUserByAuthID(s.DB, authUserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if user == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var friendships []models.Friendship
	if err := s.DB.Where("requester_id = ? OR addressee_id = ?", user.ID, user.ID).Find(&friendships).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch friendships", "details": err.Error()})
	}

	otherIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == user.ID {
			otherIDs = append(otherIDs, f.AddresseeID)
		} else {
			otherIDs = append(otherIDs, f.RequesterID)
		}
	}

	profiles := make(map[string]models.User, len(otherIDs))
	if len(otherIDs) > 0 {
		var users []models.User
		if err := s.DB.Where("id IN ?", otherIDs).Find(&users).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch profiles", "details": err.Error()})
		}
		for _, u := range users {
			profiles[u.ID] = u
		}
	}

	friends := []models.FriendEntry{}
	pendingReceived := []models.FriendEntry{}
	pendingSent := []models.FriendEntry{}

	for _, f := range friendships {
		isRequester := f.RequesterID == user.ID
		otherID := f.RequesterID
		if isRequester {
			otherID = f.AddresseeID
		}
		profile := profiles[otherID]

		entry := models.FriendEntry{
			FriendshipID: f.ID,
			UserID:       otherID,
			Username:     profile.Username,
			DisplayName:  profile.DisplayName,
			AvatarURL:    profile.AvatarURL,
			TotalPoints:  profile.TotalPoints,
			Status:       f.Status,
			IsRequester:  isRequester,
		}

		switch f.Status {
		case models.FriendshipAccepted:
			friends = append(friends, entry)
		case models.FriendshipPending:
			if isRequester {
				pendingSent = append(pendingSent, entry)
			} else {
				pendingReceived = append(pendingReceived, entry)
			}
		}
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"friends":         friends,
		"pendingReceived": pendingReceived,
		"pendingSent":     pendingSent,
	})
}

// SendRequest creates a pending friendship addressed to a username.
func (s *FriendService) SendRequest(c *fiber.Ctx) error {
	var req struct {
		UserID         string `json:"userId"`
		FriendUsername string `json:"friendUsername"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.FriendUsername == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: userId, friendUsername"})
	}

	requester, err := getUserByAuthID(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if requester == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var addressee models.User
	if err := s.DB.Where("LOWER(username) = LOWER(?)", strings.TrimSpace(req.FriendUsername)).First(&addressee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	if requester.ID == addressee.ID {
		return c.Status(400).JSON(fiber.Map{"error": "cannot add yourself as a friend"})
	}

	// One friendship per pair, regardless of direction.
	var existing models.Friendship
	err = s.DB.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		requester.ID, addressee.ID, addressee.ID, requester.ID,
	).First(&existing).Error
	if err == nil {
		switch existing.Status {
		case models.FriendshipAccepted:
			return c.Status(409).JSON(fiber.Map{"error": "already friends"})
		case models.FriendshipPending:
			return c.Status(409).JSON(fiber.Map{"error": "friend request already pending"})
		case models.FriendshipBlocked:
			return c.Status(403).JSON(fiber.Map{"error": "cannot send request"})
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	friendship := models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      models.FriendshipPending,
	}
	if err := s.DB.Create(&friendship).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to send friend request", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"friendship": friendship,
	})
}

// Respond accepts or blocks a pending request. Addressee only.
func (s *FriendService) Respond(c *fiber.Ctx) error {
	friendshipID := c.Params("id")

	var req struct {
		UserID string `json:"userId"`
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.Action == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: action, userId"})
	}

	user, err := getUserByAuthID(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if user == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var friendship models.Friendship
	if err := s.DB.First(&friendship, "id = ?", friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "friendship not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	newStatus, code, msg := friendRespondOutcome(friendship, user.ID, req.Action)
	if code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	if err := s.DB.Model(&friendship).Update("status", newStatus).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update friendship", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  newStatus,
	})
}

// Remove deletes a friendship row (cancel a pending request or unfriend).
// Either party may do this.
func (s *FriendService) Remove(c *fiber.Ctx) error {
	friendshipID := c.Params("id")
	authUserID := c.Query("userId")
	if authUserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId query parameter is required"})
	}

	user, err := getUserByAuthID(s.DB, authUserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if user == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var friendship models.Friendship
	if err := s.DB.First(&friendship, "id = ?", friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "friendship not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	if !isFriendshipParty(friendship, user.ID) {
		return c.Status(403).JSON(fiber.Map{"error": "not authorized to modify this friendship"})
	}

	if err := s.DB.Delete(&friendship).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to remove friendship", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// SearchUsers finds users by username substring, excluding the searcher.
func (s *FriendService) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	authUserID := c.Query("userId")

	if len(query) < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "query must be at least 2 characters"})
	}
	if authUserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId query parameter is required"})
	}

	db := s.DB.Model(&models.User{}).
		Where("LOWER(username) LIKE ?", "%"+strings.ToLower(query)+"%").
		Limit(10)

	if current, err := getUserByAuthID(s.DB, authUserID); err == nil && current != nil {
		db = db.Where("id <> ?", current.ID)
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to search users", "details": err.Error()})
	}

	type userSummary struct {
		ID          string  `json:"id"`
		Username    string  `json:"username"`
		DisplayName *string `json:"display_name,omitempty"`
		AvatarURL   *string `json:"avatar_url,omitempty"`
		TotalPoints int64   `json:"total_points"`
	}

	res := make([]userSummary, len(users))
	for i, u := range users {
		res[i] = userSummary{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			TotalPoints: u.TotalPoints,
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   res,
	})
}
