package main

import (
	"log"
	"os"
	"strings"
	"time"

	"finest-store-backend/handlers"
	"finest-store-backend/models"
	"finest-store-backend/services"
	"finest-store-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// freeClaimTTL is the fixed window an ephemeral free-pack claim stays
// visible to the bot.
const freeClaimTTL = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // screenshots only; nothing bigger comes in
	})

	app.Use(logger.New())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		// storefront widget runs on arbitrary customer pages
		allowedOriginsEnv = "*"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOriginsList, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	// TranslateError lets the handlers classify duplicate keys as
	// gorm.ErrDuplicatedKey instead of sniffing driver error text.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Payment{},
		&models.AccessGrant{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	notifier := services.NewNotifierFromEnv()
	freeClaims := services.NewFreeClaimCache(freeClaimTTL)

	orderService := services.NewOrderService(db, notifier, freeClaims)
	accessService := services.NewAccessService(db, notifier)
	uploadService := services.NewUploadService(notifier)

	orderService.StartClaimSweeper()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ Finest backend is running")
	})

	handlers.SetupOrderRoutes(app, orderService)
	handlers.SetupAccessRoutes(app, accessService)
	handlers.SetupUploadRoutes(app, uploadService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Free claim sweeper running (TTL %s)", freeClaimTTL)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("server error:", err)
	}
}
