// services/upload_service.go
package services

import (
	"io"
	"log"
	"path/filepath"

	"finest-store-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxScreenshotSize = 10 * 1024 * 1024 // 10MB

// swapped out in tests so handler coverage doesn't need a live bucket
var uploadToR2 = utils.UploadToR2

// UploadService stores payment screenshots in R2 and mirrors them into the
// audit channel.
type UploadService struct {
	Notifier *Notifier
}

func NewUploadService(notifier *Notifier) *UploadService {
	return &UploadService{Notifier: notifier}
}

// UploadScreenshot accepts a multipart "screenshot" file plus the
// customer_name form value. The file lands in R2 under a slugged key; the
// response carries the public CDN URL.
func (s *UploadService) UploadScreenshot(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("screenshot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_file"})
	}
	if fileHeader.Size > maxScreenshotSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file_too_large"})
	}

	customerName := c.FormValue("customer_name")
	if customerName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[SCREENSHOT] open failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "screenshot_failed"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[SCREENSHOT] read failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "screenshot_failed"})
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	key := "screenshots/" + slug.Make(customerName) + "-" + uuid.NewString() + ext

	url, err := uploadToR2(data, fileHeader.Header.Get("Content-Type"), key)
	if err != nil {
		log.Printf("[SCREENSHOT] upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "screenshot_failed"})
	}

	s.Notifier.SendScreenshot(customerName, url, fileHeader.Filename, data)

	return c.JSON(fiber.Map{"success": true, "url": url})
}
