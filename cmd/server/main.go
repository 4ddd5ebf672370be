package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/auth"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/cache"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/handlers"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/httpx"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/middleware"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/repository"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		log.Fatal("API_KEY is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Group Data Gateway",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
				return httpx.Error(c, fe.Code, http.StatusText(fe.Code), fe.Message)
			}
			log.Printf("Unhandled error: %v", err)
			return httpx.Internal(c)
		},
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, X-API-Key",
		AllowMethods: "GET, OPTIONS",
	}))

	// Connect to MongoDB. When the store is unreachable the service still
	// starts and serves fallback data.
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "grupos"
	}

	var (
		groupRepo      repository.GroupRepositoryInterface
		membershipRepo repository.MembershipRepositoryInterface
		roleRepo       repository.RoleRepositoryInterface
	)
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repository.Connect(connectCtx, mongoURI, dbName)
	cancel()
	if err != nil {
		log.Printf("WARNING: MongoDB connection failed: %v. Serving fallback data.", err)
	} else {
		groupRepo = repository.NewGroupRepository(db)
		membershipRepo = repository.NewMembershipRepository(db)
		roleRepo = repository.NewRoleRepository(db)
		log.Println("MongoDB connected successfully")
	}

	// Initialize Redis cache (best-effort)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}
	groupCache := cache.NewGroupCache(redisCache)

	// Initialize services
	gate := auth.NewGate(apiKey)
	groupService := service.NewGroupService(groupRepo, membershipRepo, roleRepo)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(gate, groupService)
	statusHandler := handlers.NewStatusHandler(wsHandler.GetHub())
	groupHandler := handlers.NewGroupHandler(groupService, groupCache)
	memberHandler := handlers.NewMemberHandler(groupService)
	rankingHandler := handlers.NewRankingHandler(groupService, groupCache)

	// Routes
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	api.Get("/status", statusHandler.GetStatus)

	protected := api.Group("/", middleware.APIKeyRequired(gate))
	protected.Get("/groups/search", groupHandler.SearchGroups)
	protected.Get("/groups/:groupId", groupHandler.GetGroup)
	protected.Get("/members/:memberId", memberHandler.GetMember)
	protected.Get("/ranking", rankingHandler.GetRanking)

	// WebSocket route (websocket upgrade needs special handling). The
	// handshake happens in-channel via the authenticate event.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Group data gateway is running",
		})
	})

	// Unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return httpx.NotFound(c, fmt.Sprintf("Rota %s não encontrada", c.OriginalURL()))
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
