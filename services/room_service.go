package services

import (
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"game-arena-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room codes avoid ambiguous characters (I, O, 0, 1).
const roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

var (
	errRoomUnavailable = errors.New("room is not available for joining")
)

type RoomService struct {
	DB  *gorm.DB
	Elo *EloService
}

func NewRoomService(db *gorm.DB, elo *EloService) *RoomService {
	return &RoomService{DB: db, Elo: elo}
}

func generateRoomCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(roomCodeChars[rand.Intn(len(roomCodeChars))])
	}
	return b.String()
}

func normalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validRoomCode(code string) bool {
	return roomCodePattern.MatchString(code)
}

func validRoomMode(mode string) bool {
	switch mode {
	case models.Mode1v1Ranked, models.Mode1v1Casual, models.ModeCollaborative:
		return true
	}
	return false
}

func modeCapacity(mode string) int {
	if mode == models.ModeCollaborative {
		return 4
	}
	return 2
}

// queueModeToRoomMode maps the matchmaking queue names to room modes.
func queueModeToRoomMode(mode string) (string, bool) {
	switch mode {
	case "ranked":
		return models.Mode1v1Ranked, true
	case "casual":
		return models.Mode1v1Casual, true
	}
	return "", false
}

func uniqueRoomCode(db *gorm.DB) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code := generateRoomCode()
		var count int64
		if err := db.Model(&models.MultiplayerRoom{}).Where("room_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate unique room code")
}

// claimRoomSeat atomically takes one seat in a waiting room with capacity.
// The conditional update is the capacity guard: two racing joins cannot both
// pass it once the room is full.
func claimRoomSeat(tx *gorm.DB, roomID string) (int, error) {
	var seat int
	err := tx.Raw(
		`UPDATE multiplayer_rooms
		 SET current_players = current_players + 1, updated_at = NOW()
		 WHERE id = ? AND status = 'waiting' AND current_players < max_players
		 RETURNING current_players`,
		roomID,
	).Scan(&seat).Error
	if err != nil {
		return 0, err
	}
	if seat == 0 {
		return 0, errRoomUnavailable
	}
	return seat, nil
}

// addPlayerToRoom claims a seat and creates the player row in one
// transaction. The seat number doubles as the player number.
func addPlayerToRoom(db *gorm.DB, roomID, userID string) (*models.RoomPlayer, error) {
	var player models.RoomPlayer
	err := db.Transaction(func(tx *gorm.DB) error {
		seat, err := claimRoomSeat(tx, roomID)
		if err != nil {
			return err
		}
		player = models.RoomPlayer{
			ID:           uuid.NewString(),
			RoomID:       roomID,
			UserID:       userID,
			PlayerNumber: seat,
		}
		return tx.Create(&player).Error
	})
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// createRoom opens a room and seats the creator as player 1.
func createRoom(db *gorm.DB, creatorID, gameID, mode string, private bool) (*models.MultiplayerRoom, error) {
	room := models.MultiplayerRoom{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Mode:       mode,
		Status:     models.RoomWaiting,
		MaxPlayers: modeCapacity(mode),
		CreatedBy:  creatorID,
		GameState:  models.JSONB("{}"),
	}
	if private {
		code, err := uniqueRoomCode(db)
		if err != nil {
			return nil, err
		}
		room.RoomCode = &code
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		seat, err := claimRoomSeat(tx, room.ID)
		if err != nil {
			return err
		}
		room.CurrentPlayers = seat
		return tx.Create(&models.RoomPlayer{
			ID:           uuid.NewString(),
			RoomID:       room.ID,
			UserID:       creatorID,
			PlayerNumber: seat,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) loadRoomWithPlayers(roomID string) (*models.MultiplayerRoom, error) {
	var room models.MultiplayerRoom
	err := s.DB.
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Where("disconnected = ?", false).Order("player_number ASC")
		}).
		Preload("Players.User").
		First(&room, "id = ?", roomID).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateRoom opens a new room for a game + mode. Private rooms get a join
// code; the creator is seated immediately.
func (s *RoomService) CreateRoom(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"userId"`
		GameID    string `json:"gameId"`
		Mode      string `json:"mode"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.GameID == "" || req.Mode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: userId, gameId, mode"})
	}
	if !validRoomMode(req.Mode) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid mode, must be: 1v1-ranked, 1v1-casual, or collaborative"})
	}

	user, err := getOrCreateUser(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve user", "details": err.Error()})
	}

	room, err := createRoom(s.DB, user.ID, req.GameID, req.Mode, req.IsPrivate)
	if err != nil {
		log.Printf("[Multiplayer] failed to create room: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create room", "details": err.Error()})
	}

	log.Printf("[Multiplayer] room created: id=%s game=%s mode=%s private=%t", room.ID, req.GameID, req.Mode, req.IsPrivate)

	return c.JSON(fiber.Map{
		"success":  true,
		"room":     room,
		"roomCode": room.RoomCode,
	})
}

// ListRooms returns public waiting rooms for a game, newest first.
func (s *RoomService) ListRooms(c *fiber.Ctx) error {
	gameID := c.Query("gameId")
	if gameID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "gameId query parameter is required"})
	}
	mode := c.Query("mode")
	if mode != "" && !validRoomMode(mode) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid mode, must be: 1v1-ranked, 1v1-casual, or collaborative"})
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	db := s.DB.
		Preload("Players", "disconnected = ?", false).
		Preload("Players.User").
		Where("game_id = ? AND status = ? AND room_code IS NULL", gameID, models.RoomWaiting).
		Order("created_at DESC").
		Limit(limit)
	if mode != "" {
		db = db.Where("mode = ?", mode)
	}

	var rooms []models.MultiplayerRoom
	if err := db.Find(&rooms).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch rooms", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"rooms":   rooms,
		"count":   len(rooms),
	})
}

// GetRoom returns room details with connected players, plus rating rows for
// ranked rooms.
func (s *RoomService) GetRoom(c *fiber.Ctx) error {
	roomID := c.Params("id")

	room, err := s.loadRoomWithPlayers(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "room not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	var playerStats []models.MultiplayerStats
	if room.Mode == models.Mode1v1Ranked && len(room.Players) > 0 {
		userIDs := make([]string, len(room.Players))
		for i, p := range room.Players {
			userIDs[i] = p.UserID
		}
		if err := s.DB.Where("game_id = ? AND mode = ? AND user_id IN ?", room.GameID, models.Mode1v1Ranked, userIDs).
			Find(&playerStats).Error; err != nil {
			log.Printf("[Multiplayer] failed to fetch stats for room %s: %v", roomID, err)
		}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"room":        room,
		"players":     room.Players,
		"playerStats": playerStats,
	})
}

// UpdateRoom applies a partial update (game state, status, winner). Moving to
// playing stamps the start time, to finished the finish time. A finished
// room with a winner that backs a tournament match advances the bracket,
// best-effort.
func (s *RoomService) UpdateRoom(c *fiber.Ctx) error {
	roomID := c.Params("id")

	var req struct {
		GameState json.RawMessage `json:"game_state"`
		Status    *string         `json:"status"`
		WinnerID  *string         `json:"winner_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	var room models.MultiplayerRoom
	if err := s.DB.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "room not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	updates := map[string]interface{}{}
	if len(req.GameState) > 0 {
		updates["game_state"] = models.JSONB(req.GameState)
	}
	if req.Status != nil {
		switch *req.Status {
		case models.RoomWaiting, models.RoomPlaying, models.RoomFinished, models.RoomCancelled:
		default:
			return c.Status(400).JSON(fiber.Map{"error": "invalid status"})
		}
		updates["status"] = *req.Status
		now := time.Now()
		if *req.Status == models.RoomPlaying {
			updates["started_at"] = &now
		} else if *req.Status == models.RoomFinished {
			updates["finished_at"] = &now
		}
	}
	if req.WinnerID != nil {
		updates["winner_id"] = req.WinnerID
	}
	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no valid update fields provided"})
	}

	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update room", "details": err.Error()})
	}

	tournamentAdvanced := false
	if req.Status != nil && *req.Status == models.RoomFinished && req.WinnerID != nil && *req.WinnerID != "" {
		tournamentAdvanced = autoAdvanceTournament(s.DB, roomID, *req.WinnerID)
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"room":               room,
		"tournamentAdvanced": tournamentAdvanced,
	})
}

// JoinRoom seats a user in a waiting room, or reconnects them if they had
// previously disconnected from it.
func (s *RoomService) JoinRoom(c *fiber.Ctx) error {
	roomID := c.Params("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId is required"})
	}

	user, err := getUserByAuthID(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if user == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found, make sure you have a profile created"})
	}

	var room models.MultiplayerRoom
	if err := s.DB.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "room not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	return s.joinExistingRoom(c, &room, user.ID)
}

// joinExistingRoom is shared by join-by-id and join-by-code.
func (s *RoomService) joinExistingRoom(c *fiber.Ctx, room *models.MultiplayerRoom, userID string) error {
	var existing models.RoomPlayer
	err := s.DB.Where("room_id = ? AND user_id = ?", room.ID, userID).First(&existing).Error
	if err == nil {
		if existing.Disconnected {
			if err := s.DB.Model(&existing).Updates(map[string]interface{}{
				"disconnected":    false,
				"disconnected_at": nil,
			}).Error; err != nil {
				return c.Status(500).JSON(fiber.Map{"error": "failed to reconnect", "details": err.Error()})
			}
			return c.JSON(fiber.Map{
				"success":      true,
				"player":       existing,
				"playerNumber": existing.PlayerNumber,
				"reconnected":  true,
			})
		}
		return c.Status(400).JSON(fiber.Map{"error": "you are already in this room"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	if room.Status != models.RoomWaiting {
		return c.Status(400).JSON(fiber.Map{"error": "room is not available for joining"})
	}
	if room.CurrentPlayers >= room.MaxPlayers {
		return c.Status(400).JSON(fiber.Map{"error": "room is full"})
	}

	player, err := addPlayerToRoom(s.DB, room.ID, userID)
	if err != nil {
		if errors.Is(err, errRoomUnavailable) {
			return c.Status(400).JSON(fiber.Map{"error": "room is full"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to join room", "details": err.Error()})
	}

	log.Printf("[Multiplayer] player joined: room=%s user=%s number=%d", room.ID, userID, player.PlayerNumber)

	return c.JSON(fiber.Map{
		"success":      true,
		"player":       player,
		"playerNumber": player.PlayerNumber,
		"reconnected":  false,
	})
}

// JoinByCode joins a private room via its 6-character code.
func (s *RoomService) JoinByCode(c *fiber.Ctx) error {
	var req struct {
		UserID   string `json:"userId"`
		RoomCode string `json:"roomCode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.RoomCode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: userId, roomCode"})
	}

	code := normalizeRoomCode(req.RoomCode)
	if !validRoomCode(code) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid room code format"})
	}

	user, err := getUserByAuthID(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if user == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found, make sure you have a profile created"})
	}

	var room models.MultiplayerRoom
	if err := s.DB.Where("room_code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "room not found, check the code and try again"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	return s.joinExistingRoom(c, &room, user.ID)
}

// LeaveRoom marks the player disconnected. Leaving a waiting room may cancel
// it; leaving a playing room is a forfeit that ends the game.
func (s *RoomService) LeaveRoom(c *fiber.Ctx) error {
	roomID := c.Params("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId is required"})
	}

	user, err := getUserByAuthID(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if user == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var room models.MultiplayerRoom
	if err := s.DB.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "room not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	var player models.RoomPlayer
	if err := s.DB.Where("room_id = ? AND user_id = ?", roomID, user.ID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(403).JSON(fiber.Map{"error": "you are not in this room"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	now := time.Now()
	if err := s.DB.Model(&player).Updates(map[string]interface{}{
		"disconnected":    true,
		"disconnected_at": &now,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to leave room", "details": err.Error()})
	}

	switch room.Status {
	case models.RoomWaiting:
		var remaining int64
		if err := s.DB.Model(&models.RoomPlayer{}).
			Where("room_id = ? AND disconnected = ?", roomID, false).
			Count(&remaining).Error; err == nil && remaining == 0 {
			if err := s.DB.Model(&room).Update("status", models.RoomCancelled).Error; err != nil {
				log.Printf("[Multiplayer] failed to cancel empty room %s: %v", roomID, err)
			}
		}
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "left room",
			"gameEnded": false,
		})

	case models.RoomPlaying:
		return s.forfeit(c, &room, user.ID)

	default:
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "left room",
			"gameEnded": room.Status == models.RoomFinished,
		})
	}
}

// forfeit ends a playing room after one player leaves. The remaining
// connected opponent (if any) wins; rating updates for ranked rooms are
// fire-and-forget.
func (s *RoomService) forfeit(c *fiber.Ctx, room *models.MultiplayerRoom, leaverID string) error {
	var opponent models.RoomPlayer
	var winnerID *string
	err := s.DB.Where("room_id = ? AND user_id <> ? AND disconnected = ?", room.ID, leaverID, false).
		Order("player_number ASC").
		First(&opponent).Error
	if err == nil {
		winnerID = &opponent.UserID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	now := time.Now()
	if err := s.DB.Model(room).Updates(map[string]interface{}{
		"status":      models.RoomFinished,
		"finished_at": &now,
		"winner_id":   winnerID,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to finish room", "details": err.Error()})
	}

	action := models.MultiplayerAction{
		ID:         uuid.NewString(),
		RoomID:     room.ID,
		UserID:     leaverID,
		ActionType: "surrender",
		ActionData: models.JSONB(`{"reason":"disconnect"}`),
	}
	if err := s.DB.Create(&action).Error; err != nil {
		log.Printf("[Multiplayer] failed to record surrender in room %s: %v", room.ID, err)
	}

	// Best-effort: a failed rating update must never fail the leave request.
	if room.Mode == models.Mode1v1Ranked && winnerID != nil {
		if err := s.Elo.ApplyMatchResult(MatchResult{
			WinnerID: *winnerID,
			LoserID:  leaverID,
			GameID:   room.GameID,
			Mode:     models.Mode1v1Ranked,
		}); err != nil {
			log.Printf("[ELO] failed to update ratings for room %s: %v", room.ID, err)
		}
	}

	resp := fiber.Map{
		"success":   true,
		"message":   "forfeited game",
		"gameEnded": true,
		"winnerId":  nil,
	}
	if winnerID != nil {
		resp["winnerId"] = *winnerID
	}
	return c.JSON(resp)
}

// FindMatch implements the matchmaking queue: reuse the user's active room
// for the game if one exists, otherwise join a suitable waiting room or
// open a fresh one.
func (s *RoomService) FindMatch(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId"`
		GameID string `json:"gameId"`
		Mode   string `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.GameID == "" || req.Mode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: userId, gameId, mode"})
	}
	roomMode, ok := queueModeToRoomMode(req.Mode)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "invalid mode, must be: ranked or casual"})
	}

	user, err := getOrCreateUser(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user profile, please try again", "details": err.Error()})
	}

	// At most one active room per user per game.
	var activeRoom models.MultiplayerRoom
	err = s.DB.
		Joins("JOIN room_players p ON p.room_id = multiplayer_rooms.id").
		Where("p.user_id = ? AND p.disconnected = ? AND multiplayer_rooms.game_id = ? AND multiplayer_rooms.status IN ?",
			user.ID, false, req.GameID, []string{models.RoomWaiting, models.RoomPlaying}).
		First(&activeRoom).Error
	if err == nil {
		return c.JSON(fiber.Map{
			"success":       true,
			"room":          activeRoom,
			"isNewRoom":     false,
			"alreadyInRoom": true,
			"message":       "you are already in a room for this game",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	var room *models.MultiplayerRoom
	isNewRoom := false
	if roomMode == models.Mode1v1Ranked {
		room, err = s.findRankedRoom(user.ID, req.GameID)
	} else {
		room, err = s.findCasualRoom(user.ID, req.GameID, roomMode)
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to find match", "details": err.Error()})
	}

	if room == nil {
		room, err = createRoom(s.DB, user.ID, req.GameID, roomMode, false)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to create room", "details": err.Error()})
		}
		isNewRoom = true
	} else {
		if _, err := addPlayerToRoom(s.DB, room.ID, user.ID); err != nil {
			// The room filled or started between lookup and join; fall back
			// to opening a fresh room.
			room, err = createRoom(s.DB, user.ID, req.GameID, roomMode, false)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"error": "failed to create room", "details": err.Error()})
			}
			isNewRoom = true
		}
	}

	full, err := s.loadRoomWithPlayers(room.ID)
	if err != nil {
		full = room
	}

	log.Printf("[Multiplayer] match found: room=%s game=%s mode=%s new=%t", room.ID, req.GameID, roomMode, isNewRoom)

	return c.JSON(fiber.Map{
		"success":       true,
		"room":          full,
		"isNewRoom":     isNewRoom,
		"alreadyInRoom": false,
	})
}

// findRankedRoom widens an ELO window (100 up to 500, in steps of 50) until
// a waiting opponent fits.
func (s *RoomService) findRankedRoom(userID, gameID string) (*models.MultiplayerRoom, error) {
	stats, err := s.Elo.GetOrCreateStats(userID, gameID, models.Mode1v1Ranked)
	if err != nil {
		return nil, err
	}

	var rooms []models.MultiplayerRoom
	if err := s.DB.
		Where("game_id = ? AND mode = ? AND status = ? AND created_by <> ? AND current_players < max_players",
			gameID, models.Mode1v1Ranked, models.RoomWaiting, userID).
		Order("created_at ASC").
		Limit(10).
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, nil
	}

	for eloRange := 100; eloRange <= 500; eloRange += 50 {
		for i := range rooms {
			opponent, err := s.Elo.GetOrCreateStats(rooms[i].CreatedBy, gameID, models.Mode1v1Ranked)
			if err != nil {
				continue
			}
			diff := opponent.EloRating - stats.EloRating
			if diff < 0 {
				diff = -diff
			}
			if diff <= eloRange {
				return &rooms[i], nil
			}
		}
	}
	return nil, nil
}

// findCasualRoom takes the oldest waiting room with space.
func (s *RoomService) findCasualRoom(userID, gameID, mode string) (*models.MultiplayerRoom, error) {
	var room models.MultiplayerRoom
	err := s.DB.
		Where("game_id = ? AND mode = ? AND status = ? AND created_by <> ? AND current_players < max_players",
			gameID, mode, models.RoomWaiting, userID).
		Order("created_at ASC").
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}
