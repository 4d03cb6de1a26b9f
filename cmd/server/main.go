package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/config"
	"github.com/iliyamo/property-rental/internal/database"
	"github.com/iliyamo/property-rental/internal/handler"
	appmw "github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
	"github.com/iliyamo/property-rental/internal/router"
	"github.com/iliyamo/property-rental/internal/service"
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

	// Redis backs the response cache and rate limiter; nil disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	reservations := repository.NewReservationRepo(db)
	comments := repository.NewCommentRepo(db)
	notifications := repository.NewNotificationRepo(db)

	reservationSvc := service.NewReservationService(reservations, properties, queue.PublishReservationEvent)
	commentSvc := service.NewCommentService(comments, reservations, properties)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	propertyH := handler.NewPropertyHandler(properties, reservations)
	reservationH := handler.NewReservationHandler(reservationSvc)
	commentH := handler.NewCommentHandler(commentSvc)
	notificationH := handler.NewNotificationHandler(notifications, users)

	e := echo.New()
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterProperties(e, propertyH, cfg.JWTSecret, cacheMW)
	router.RegisterReservations(e, reservationH, cfg.JWTSecret)
	router.RegisterComments(e, commentH, cfg.JWTSecret, cacheMW)
	router.RegisterNotifications(e, notificationH, cfg.JWTSecret)

	// Turns reservation events into notification rows; reconnects forever.
	go queue.StartReservationConsumer(notifications)

	go purgeTokens(tokens)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// purgeTokens drops refresh tokens that expired more than a day ago so the
// table does not grow without bound.
func purgeTokens(tokens *repository.TokenRepo) {
	for {
		cutoff := time.Now().UTC().Add(-24 * time.Hour)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if n, err := tokens.PurgeExpired(ctx, cutoff); err != nil {
			log.Printf("token purge: %v", err)
		} else if n > 0 {
			log.Printf("token purge: removed %d rows", n)
		}
		cancel()
		time.Sleep(6 * time.Hour)
	}
}
