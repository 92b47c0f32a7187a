package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/config"
	"github.com/iliyamo/blog-post-service/internal/database"
	"github.com/iliyamo/blog-post-service/internal/handler"
	"github.com/iliyamo/blog-post-service/internal/middleware"
	"github.com/iliyamo/blog-post-service/internal/queue"
	"github.com/iliyamo/blog-post-service/internal/repository"
	"github.com/iliyamo/blog-post-service/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)

	// Redis is optional; a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable: rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(cfg.Verbose())

	router.Register(e, router.Deps{
		Auth:        handler.NewAuthHandler(cfg, users),
		Users:       handler.NewUserHandler(users, posts, cfg.BcryptCost),
		Posts:       handler.NewPostHandler(posts),
		AuthMW:      middleware.Auth(cfg.JWTSecret, users),
		CacheMW:     middleware.ResponseCache(config.LoadCacheConfig(), rdb),
		RateLimitMW: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		LoggerMW:    middleware.RequestLogger(),
	})

	// Audit trail consumer runs for the process lifetime and reconnects on
	// broker failures.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
