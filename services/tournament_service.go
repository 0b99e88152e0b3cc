package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"game-arena-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	errTournamentUnavailable = errors.New("tournament is not open for registration")
	errSlotTaken             = errors.New("bracket slot already filled")
)

type TournamentService struct {
	DB *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db}
}

func validTournamentSize(maxPlayers int) bool {
	return maxPlayers == 8 || maxPlayers == 16
}

// claimTournamentSeat takes one registration slot, guarded against overfill
// the same way room seats are.
func claimTournamentSeat(tx *gorm.DB, tournamentID string) (int, error) {
	var seat int
	err := tx.Raw(
		`UPDATE tournaments
		 SET current_players = current_players + 1, updated_at = NOW()
		 WHERE id = ? AND status = 'registration' AND current_players < max_players
		 RETURNING current_players`,
		tournamentID,
	).Scan(&seat).Error
	if err != nil {
		return 0, err
	}
	if seat == 0 {
		return 0, errTournamentUnavailable
	}
	return seat, nil
}

// startTournament generates and persists the bracket, then flips the
// tournament to in_progress. Safe to call from the join handler and the
// scheduler; the status check inside the transaction makes it idempotent.
func startTournament(db *gorm.DB, tournamentID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var t models.Tournament
		if err := tx.First(&t, "id = ?", tournamentID).Error; err != nil {
			return err
		}
		if t.Status != models.TournamentRegistration {
			return nil
		}

		var participants []models.TournamentParticipant
		if err := tx.Where("tournament_id = ?", tournamentID).Order("seed ASC").Find(&participants).Error; err != nil {
			return err
		}
		if len(participants) < 2 {
			return fmt.Errorf("tournament %s needs at least 2 players to start", tournamentID)
		}

		matches := GenerateBracket(participants, t.MaxPlayers, tournamentID)
		matches = PropagateByes(matches, RoundCount(t.MaxPlayers))
		if err := tx.Create(&matches).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&t).Updates(map[string]interface{}{
			"status":     models.TournamentInProgress,
			"started_at": &now,
		}).Error; err != nil {
			return err
		}

		log.Printf("[Tournament] started: id=%s players=%d matches=%d", tournamentID, len(participants), len(matches))
		return nil
	})
}

// fillBracketSlot writes the winner into the next match, but only if the
// slot is still empty. Two sibling matches completing concurrently each
// write a different slot, so neither can overwrite the other.
func fillBracketSlot(tx *gorm.DB, tournamentID string, slot BracketSlot, winnerID string) error {
	column := "player2_id"
	if slot.Position == "player1" {
		column = "player1_id"
	}
	res := tx.Model(&models.TournamentMatch{}).
		Where("tournament_id = ? AND round = ? AND match_number = ? AND "+column+" IS NULL",
			tournamentID, slot.Round, slot.MatchNumber).
		Update(column, winnerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errSlotTaken
	}
	return nil
}

// completeMatch records a match result and moves the winner along, or closes
// out the tournament when the final just finished. Returns the completed
// tournament flag and, otherwise, the slot the winner advanced into.
func completeMatch(db *gorm.DB, t *models.Tournament, match *models.TournamentMatch, winnerID string) (bool, BracketSlot, error) {
	totalRounds := RoundCount(t.MaxPlayers)
	isFinal := match.Round == totalRounds

	var slot BracketSlot
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(match).Updates(map[string]interface{}{
			"status":    models.MatchCompleted,
			"winner_id": winnerID,
		}).Error; err != nil {
			return err
		}

		loserID := ""
		if match.Player1ID != nil && *match.Player1ID != winnerID {
			loserID = *match.Player1ID
		} else if match.Player2ID != nil && *match.Player2ID != winnerID {
			loserID = *match.Player2ID
		}
		if loserID != "" {
			if err := tx.Model(&models.TournamentParticipant{}).
				Where("tournament_id = ? AND user_id = ?", t.ID, loserID).
				Update("eliminated", true).Error; err != nil {
				return err
			}
		}

		if isFinal {
			now := time.Now()
			if err := tx.Model(t).Updates(map[string]interface{}{
				"status":      models.TournamentCompleted,
				"winner_id":   winnerID,
				"finished_at": &now,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).
				Where("id = ?", winnerID).
				Update("total_points", gorm.Expr("total_points + ?", t.PrizePoints)).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.TournamentParticipant{}).
				Where("tournament_id = ? AND user_id = ?", t.ID, winnerID).
				Update("final_position", 1).Error; err != nil {
				return err
			}
			if loserID != "" {
				if err := tx.Model(&models.TournamentParticipant{}).
					Where("tournament_id = ? AND user_id = ?", t.ID, loserID).
					Update("final_position", 2).Error; err != nil {
					return err
				}
			}
			return nil
		}

		slot = NextMatchSlot(match.Round, match.MatchNumber)
		if err := fillBracketSlot(tx, t.ID, slot, winnerID); err != nil && !errors.Is(err, errSlotTaken) {
			return err
		}
		return nil
	})
	if err != nil {
		return false, BracketSlot{}, err
	}
	return isFinal, slot, nil
}

// autoAdvanceTournament moves the bracket forward after a room linked to a
// tournament match finishes. Best-effort: every failure is logged and
// swallowed so the room update itself never breaks.
func autoAdvanceTournament(db *gorm.DB, roomID, winnerID string) bool {
	var match models.TournamentMatch
	err := db.Where("room_id = ? AND status = ?", roomID, models.MatchPlaying).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		log.Printf("[Tournament] auto-advance lookup failed for room %s: %v", roomID, err)
		return false
	}

	var t models.Tournament
	if err := db.First(&t, "id = ?", match.TournamentID).Error; err != nil {
		log.Printf("[Tournament] auto-advance failed loading tournament %s: %v", match.TournamentID, err)
		return false
	}

	if _, _, err := completeMatch(db, &t, &match, winnerID); err != nil {
		log.Printf("[Tournament] auto-advance failed for match %s: %v", match.ID, err)
		return false
	}

	log.Printf("[Tournament] auto-advanced match %s (round %d) from room %s", match.ID, match.Round, roomID)
	return true
}

// List returns tournaments, optionally filtered by game and status.
func (s *TournamentService) List(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	db := s.DB.Order("created_at DESC").Limit(limit)
	if gameID := c.Query("gameId"); gameID != "" {
		db = db.Where("game_id = ?", gameID)
	}
	if status := c.Query("status"); status != "" {
		switch status {
		case models.TournamentRegistration, models.TournamentInProgress, models.TournamentCompleted, models.TournamentCancelled:
			db = db.Where("status = ?", status)
		default:
			return c.Status(400).JSON(fiber.Map{"error": "invalid status filter"})
		}
	}

	var tournaments []models.Tournament
	if err := db.Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"tournaments": tournaments,
		"count":       len(tournaments),
	})
}

// Create opens a tournament in registration and seats the creator as seed 1.
func (s *TournamentService) Create(c *fiber.Ctx) error {
	var req struct {
		UserID      string     `json:"userId"`
		GameID      string     `json:"gameId"`
		Name        string     `json:"name"`
		MaxPlayers  int        `json:"maxPlayers"`
		PrizePoints int64      `json:"prizePoints"`
		StartsAt    *time.Time `json:"startsAt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.GameID == "" || req.Name == "" || req.MaxPlayers == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: userId, gameId, name, maxPlayers"})
	}
	if !validTournamentSize(req.MaxPlayers) {
		return c.Status(400).JSON(fiber.Map{"error": "maxPlayers must be 8 or 16"})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", req.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	user, err := getOrCreateUser(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve user", "details": err.Error()})
	}

	tournament := models.Tournament{
		ID:             uuid.NewString(),
		GameID:         req.GameID,
		Name:           req.Name,
		Format:         "single_elimination",
		Status:         models.TournamentRegistration,
		MaxPlayers:     req.MaxPlayers,
		CurrentPlayers: 1,
		PrizePoints:    100,
		CreatedBy:      user.ID,
		StartsAt:       req.StartsAt,
	}
	tournament.Slug = fmt.Sprintf("%s-%s", slug.Make(req.Name), tournament.ID[:8])
	if req.PrizePoints > 0 {
		tournament.PrizePoints = req.PrizePoints
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tournament).Error; err != nil {
			return err
		}
		return tx.Create(&models.TournamentParticipant{
			TournamentID: tournament.ID,
			UserID:       user.ID,
			Seed:         1,
		}).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament", "details": err.Error()})
	}

	log.Printf("[Tournament] created: id=%s game=%s size=%d", tournament.ID, req.GameID, req.MaxPlayers)

	return c.JSON(fiber.Map{
		"success":    true,
		"tournament": tournament,
	})
}

// Get returns a tournament with its participants and full bracket, match
// rows enriched with usernames.
func (s *TournamentService) Get(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	var participants []models.TournamentParticipant
	if err := s.DB.Preload("User").
		Where("tournament_id = ?", tournamentID).
		Order("seed ASC").
		Find(&participants).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participants", "details": err.Error()})
	}

	var matches []models.TournamentMatch
	if err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("round ASC, match_number ASC").
		Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches", "details": err.Error()})
	}

	usernames := make(map[string]string, len(participants))
	for _, p := range participants {
		if p.User != nil {
			usernames[p.UserID] = p.User.Username
		}
	}
	lookup := func(id *string) *string {
		if id == nil {
			return nil
		}
		if name, ok := usernames[*id]; ok {
			return &name
		}
		return nil
	}
	for i := range matches {
		matches[i].Player1Username = lookup(matches[i].Player1ID)
		matches[i].Player2Username = lookup(matches[i].Player2ID)
		matches[i].WinnerUsername = lookup(matches[i].WinnerID)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"tournament":   tournament,
		"participants": participants,
		"matches":      matches,
		"totalRounds":  RoundCount(tournament.MaxPlayers),
	})
}

// Join registers a user. Filling the last slot starts the tournament
// immediately.
func (s *TournamentService) Join(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId is required"})
	}

	user, err := getOrCreateUser(s.DB, req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve user", "details": err.Error()})
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if tournament.Status != models.TournamentRegistration {
		return c.Status(400).JSON(fiber.Map{"error": "tournament is not open for registration"})
	}

	var existing models.TournamentParticipant
	err = s.DB.Where("tournament_id = ? AND user_id = ?", tournamentID, user.ID).First(&existing).Error
	if err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "already registered for this tournament"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	var seed int
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var terr error
		seed, terr = claimTournamentSeat(tx, tournamentID)
		if terr != nil {
			return terr
		}
		return tx.Create(&models.TournamentParticipant{
			TournamentID: tournamentID,
			UserID:       user.ID,
			Seed:         seed,
		}).Error
	})
	if err != nil {
		if errors.Is(err, errTournamentUnavailable) {
			return c.Status(400).JSON(fiber.Map{"error": "tournament is full or no longer open"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to join tournament", "details": err.Error()})
	}

	started := false
	if seed == tournament.MaxPlayers {
		if err := startTournament(s.DB, tournamentID); err != nil {
			log.Printf("[Tournament] failed to start full tournament %s: %v", tournamentID, err)
		} else {
			started = true
		}
	}

	log.Printf("[Tournament] player joined: tournament=%s user=%s seed=%d", tournamentID, user.ID, seed)

	return c.JSON(fiber.Map{
		"success": true,
		"seed":    seed,
		"started": started,
	})
}

// Leave withdraws a registration. Only possible before the bracket exists.
func (s *TournamentService) Leave(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

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

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if tournament.Status != models.TournamentRegistration {
		return c.Status(400).JSON(fiber.Map{"error": "cannot leave a tournament that has started"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("tournament_id = ? AND user_id = ?", tournamentID, user.ID).
			Delete(&models.TournamentParticipant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Tournament{}).
			Where("id = ? AND current_players > 0", tournamentID).
			Update("current_players", gorm.Expr("current_players - 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "not registered for this tournament"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to leave tournament", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Advance records a match winner and moves the bracket forward.
func (s *TournamentService) Advance(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var req struct {
		MatchID  string `json:"matchId"`
		WinnerID string `json:"winnerId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.MatchID == "" || req.WinnerID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing required fields: matchId, winnerId"})
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if tournament.Status != models.TournamentInProgress {
		return c.Status(400).JSON(fiber.Map{"error": "tournament is not in progress"})
	}

	var match models.TournamentMatch
	if err := s.DB.Where("id = ? AND tournament_id = ?", req.MatchID, tournamentID).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if match.Status == models.MatchCompleted || match.Status == models.MatchBye {
		return c.Status(400).JSON(fiber.Map{"error": "match is already decided"})
	}

	isPlayer := (match.Player1ID != nil && *match.Player1ID == req.WinnerID) ||
		(match.Player2ID != nil && *match.Player2ID == req.WinnerID)
	if !isPlayer {
		return c.Status(400).JSON(fiber.Map{"error": "winner must be one of the match players"})
	}

	complete, slot, err := completeMatch(s.DB, &tournament, &match, req.WinnerID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to advance tournament", "details": err.Error()})
	}

	if complete {
		log.Printf("[Tournament] completed: id=%s winner=%s", tournamentID, req.WinnerID)
		return c.JSON(fiber.Map{
			"success":            true,
			"tournamentComplete": true,
			"winnerId":           req.WinnerID,
		})
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"tournamentComplete": false,
		"nextRound":          slot.Round,
		"nextMatch":          slot.MatchNumber,
	})
}

// CreateMatchRoom opens (or returns) the private room backing a bracket
// match. Only the two match players may call it; a room is created once and
// reused.
func (s *TournamentService) CreateMatchRoom(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	matchID := c.Params("matchId")

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

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}
	if tournament.Status != models.TournamentInProgress {
		return c.Status(400).JSON(fiber.Map{"error": "tournament is not in progress"})
	}

	var match models.TournamentMatch
	if err := s.DB.Where("id = ? AND tournament_id = ?", matchID, tournamentID).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error", "details": err.Error()})
	}

	isPlayer := (match.Player1ID != nil && *match.Player1ID == user.ID) ||
		(match.Player2ID != nil && *match.Player2ID == user.ID)
	if !isPlayer {
		return c.Status(403).JSON(fiber.Map{"error": "only match players can create the match room"})
	}

	if match.RoomID != nil {
		var room models.MultiplayerRoom
		if err := s.DB.First(&room, "id = ?", *match.RoomID).Error; err == nil {
			return c.JSON(fiber.Map{
				"success":       true,
				"room":          room,
				"alreadyExists": true,
			})
		}
	}

	room, err := createRoom(s.DB, user.ID, tournament.GameID, models.Mode1v1Casual, true)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create match room", "details": err.Error()})
	}

	if err := s.DB.Model(&match).Updates(map[string]interface{}{
		"room_id": room.ID,
		"status":  models.MatchPlaying,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to link match room", "details": err.Error()})
	}

	log.Printf("[Tournament] match room created: tournament=%s match=%s room=%s", tournamentID, matchID, room.ID)

	return c.JSON(fiber.Map{
		"success":       true,
		"room":          room,
		"alreadyExists": false,
	})
}
