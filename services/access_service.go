// services/access_service.go
package services

import (
	"errors"
	"log"

	"finest-store-backend/models"
	"finest-store-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AccessService handles the durable free-pack flow in the user_access table.
type AccessService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewAccessService(db *gorm.DB, notifier *Notifier) *AccessService {
	return &AccessService{DB: db, Notifier: notifier}
}

// RegisterFree creates an AccessGrant. A second registration for the same
// discord_id hits the unique index and is reported as an idempotent success
// with note "already_registered" — deliberately laxer than the payment
// path's duplicate handling, since re-submitting a free claim costs nothing.
func (s *AccessService) RegisterFree(c *fiber.Ctx) error {
	type registerRequest struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		DiscordUsername string `json:"discord_username"`
		DiscordID       string `json:"discord_id"`
	}

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}
	if req.Name == "" || req.Email == "" || req.DiscordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}
	if !discordIDPattern.MatchString(req.DiscordID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_discord_id"})
	}

	grant := models.AccessGrant{
		OrderID:         utils.NewOrderID("FREE"),
		Name:            req.Name,
		Email:           req.Email,
		DiscordUsername: req.DiscordUsername,
		DiscordID:       req.DiscordID,
		Type:            "FREE",
		Product:         "FREE PACK",
		Claimed:         false,
	}

	if err := s.DB.Create(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(fiber.Map{"success": true, "note": "already_registered"})
		}
		log.Printf("[FREE_REGISTER] insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database_error"})
	}

	s.Notifier.SendFreeRegistered(&grant)

	return c.JSON(fiber.Map{"success": true, "order_id": grant.OrderID})
}

// CheckUser reports the most recent unclaimed grant for a discord_id. A
// malformed id or a store failure both read as "no grant" — the bot polls
// this and must never see a 5xx.
func (s *AccessService) CheckUser(c *fiber.Ctx) error {
	id := c.Params("discordId")
	if !discordIDPattern.MatchString(id) {
		return c.JSON(fiber.Map{"exists": false})
	}

	var grant models.AccessGrant
	err := s.DB.Where("discord_id = ? AND claimed = ?", id, false).
		Order("created_at DESC").First(&grant).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[CHECK_USER] query failed: %v", err)
		}
		return c.JSON(fiber.Map{"exists": false})
	}

	return c.JSON(fiber.Map{
		"exists":   true,
		"type":     grant.Type,
		"product":  grant.Product,
		"order_id": grant.OrderID,
	})
}

// MarkClaimed flips every unclaimed grant for a discord_id to claimed.
// Zero matched rows is still a success; the bot fires this blind after
// delivering the pack.
func (s *AccessService) MarkClaimed(c *fiber.Ctx) error {
	type markRequest struct {
		DiscordID string `json:"discord_id"`
	}

	var req markRequest
	if err := c.BodyParser(&req); err != nil || req.DiscordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "missing_fields"})
	}

	if err := s.DB.Model(&models.AccessGrant{}).
		Where("discord_id = ? AND claimed = ?", req.DiscordID, false).
		Update("claimed", true).Error; err != nil {
		log.Printf("[MARK_CLAIMED] update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "database_error"})
	}

	return c.JSON(fiber.Map{"success": true})
}
