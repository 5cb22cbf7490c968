// handlers/routes.go
package handlers

import (
	"finest-store-backend/services"

	"github.com/gofiber/fiber/v2"
)

// All routes are public: the storefront posts submissions, the Discord bot
// polls the check endpoints. No user context exists on either side.

func SetupOrderRoutes(app *fiber.App, orderService *services.OrderService) {
	app.Post("/finalize", orderService.FinalizePayment)
	app.Get("/check-payment/:discordId", orderService.CheckPayment)
	app.Post("/freepack", orderService.FreePackClaim)
}

func SetupAccessRoutes(app *fiber.App, accessService *services.AccessService) {
	app.Post("/free-register-v2", accessService.RegisterFree)
	app.Get("/check-user-v2/:discordId", accessService.CheckUser)
	app.Post("/mark-claimed-v2", accessService.MarkClaimed)
}

func SetupUploadRoutes(app *fiber.App, uploadService *services.UploadService) {
	app.Post("/upload-screenshot", uploadService.UploadScreenshot)
}
