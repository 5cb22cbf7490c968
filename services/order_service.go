// services/order_service.go
package services

import (
	"errors"
	"log"
	"regexp"
	"time"

	"finest-store-backend/models"
	"finest-store-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Discord snowflakes are 17-19 decimal digits. Anything else never reaches
// the store.
var discordIDPattern = regexp.MustCompile(`^\d{17,19}$`)

// OrderService handles paid orders and the legacy ephemeral free-pack flow.
type OrderService struct {
	DB         *gorm.DB
	Notifier   *Notifier
	FreeClaims *FreeClaimCache
}

func NewOrderService(db *gorm.DB, notifier *Notifier, freeClaims *FreeClaimCache) *OrderService {
	return &OrderService{DB: db, Notifier: notifier, FreeClaims: freeClaims}
}

// FinalizePayment records a confirmed manual payment and notifies staff.
// Validation and the insert run before any notification; a webhook failure
// after the insert is logged and the request still succeeds.
func (s *OrderService) FinalizePayment(c *fiber.Ctx) error {
	type finalizeRequest struct {
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		DiscordName string   `json:"discord_name"`
		DiscordID   string   `json:"discord_id"`
		Product     string   `json:"product"`
		Amount      *float64 `json:"amount"`
		PaymentID   string   `json:"payment_id"`
	}

	var req finalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}
	if req.Name == "" || req.Email == "" || req.DiscordName == "" || req.DiscordID == "" ||
		req.Product == "" || req.PaymentID == "" || req.Amount == nil || *req.Amount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}

	payment := models.Payment{
		PaymentID:   req.PaymentID,
		OrderID:     utils.NewOrderID("FS"),
		Name:        req.Name,
		Email:       req.Email,
		DiscordName: req.DiscordName,
		DiscordID:   req.DiscordID,
		Product:     req.Product,
		Amount:      *req.Amount,
		Status:      "paid",
		Claimed:     false,
	}

	if err := s.DB.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "duplicate_payment"})
		}
		log.Printf("[FINALIZE] insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database_error"})
	}

	// staff channel first, audit trail second; both best-effort
	s.Notifier.SendOrderReceived(&payment)
	s.Notifier.SendPaymentAudit(&payment)

	return c.JSON(fiber.Map{"success": true, "order_id": payment.OrderID})
}

// CheckPayment answers the bot's poll: does this discord_id have an
// unclaimed paid order, or failing that a live ephemeral free claim?
// Never errors — a store failure reads as "not paid" to the bot.
func (s *OrderService) CheckPayment(c *fiber.Ctx) error {
	id := c.Params("discordId")

	var payment models.Payment
	err := s.DB.Where("discord_id = ? AND claimed = ?", id, false).
		First(&payment).Error
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"paid": true,
			"type": "PAID",
			"data": fiber.Map{
				"product":    payment.Product,
				"amount":     payment.Amount,
				"payment_id": payment.PaymentID,
				"status":     "paid",
			},
		})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("[CHECK_PAYMENT] query failed: %v", err)
		return c.JSON(fiber.Map{"paid": false})
	}

	if claim, ok := s.FreeClaims.Get(id); ok {
		return c.JSON(fiber.Map{
			"paid": true,
			"type": "FREE",
			"data": fiber.Map{
				"product": claim.Product,
				"status":  "FREE",
			},
		})
	}

	return c.JSON(fiber.Map{"paid": false})
}

// FreePackClaim stores an ephemeral free-pack claim. The id arrives under
// either "discordId" or "discord_id"; the camelCase form wins when both are
// present.
func (s *OrderService) FreePackClaim(c *fiber.Ctx) error {
	type freepackRequest struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Discord      string `json:"discord"`
		DiscordID    string `json:"discordId"`
		DiscordIDAlt string `json:"discord_id"`
	}

	var req freepackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}

	id := req.DiscordID
	if id == "" {
		id = req.DiscordIDAlt
	}
	if req.Name == "" || req.Email == "" || req.Discord == "" || id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}
	if !discordIDPattern.MatchString(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_discord_id"})
	}

	claim := FreeClaim{
		Name:      req.Name,
		Email:     req.Email,
		Discord:   req.Discord,
		DiscordID: id,
		Product:   "FREE PACK",
		CreatedAt: time.Now(),
	}
	s.FreeClaims.Put(claim)

	s.Notifier.SendFreePackClaimed(&claim)

	return c.JSON(fiber.Map{"success": true})
}
