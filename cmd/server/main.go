package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/olekhv/train-station-api/internal/booking"
	"github.com/olekhv/train-station-api/internal/config"
	"github.com/olekhv/train-station-api/internal/database"
	"github.com/olekhv/train-station-api/internal/handler"
	"github.com/olekhv/train-station-api/internal/middleware"
	"github.com/olekhv/train-station-api/internal/queue"
	"github.com/olekhv/train-station-api/internal/repository"
	"github.com/olekhv/train-station-api/internal/router"
	"github.com/olekhv/train-station-api/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	trainTypes := repository.NewTrainTypeRepo(db)
	trains := repository.NewTrainRepo(db)
	carriages := repository.NewCarriageRepo(db)
	stations := repository.NewStationRepo(db)
	routes := repository.NewRouteRepo(db)
	crew := repository.NewCrewRepo(db)
	journeys := repository.NewJourneyRepo(db)
	orders := repository.NewOrderRepo(db)

	// Image storage is optional; upload endpoints return 503 without it.
	var images storage.Uploader
	if cfg.CloudinaryCloudName != "" {
		store, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		images = store
	} else {
		log.Println("cloudinary not configured; image uploads disabled")
	}

	bookingSvc := booking.NewService(orders, carriages, journeys)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(trainTypes, trains, carriages, stations, routes, crew, images)
	journeyH := handler.NewJourneyHandler(journeys, trains, routes, crew, images)
	orderH := handler.NewOrderHandler(bookingSvc, orders, cfg.RabbitURL != "")

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis is optional; rate limiting and the response cache are
	// disabled when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, journeyH, cfg.JWTSecret, cacheMW)
	router.RegisterOrders(e, orderH, cfg.JWTSecret)

	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartOrderConsumer(); err != nil {
				log.Printf("order consumer stopped: %v", err)
			}
		}()
	} else {
		log.Println("rabbitmq not configured; order events disabled")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
