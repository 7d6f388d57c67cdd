package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"shorturl/auth"
	"shorturl/cache"
	"shorturl/config"
	"shorturl/database"
	"shorturl/handlers"
	"shorturl/repository"
	"shorturl/services"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(cfg.URL()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var redirectCache cache.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		redirectCache = cache.NewRedis(client, cfg.CacheTTL)
		log.Println("Connected to redis")
	} else {
		redirectCache = cache.NewMemory(cfg.CacheTTL)
		log.Println("No REDIS_ADDR set, using in-memory redirect cache")
	}

	userRepo := repository.NewUsers(db)
	linkRepo := repository.NewLinks(db)
	clickRepo := repository.NewClicks(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenLifetime)

	router := handlers.NewRouter(handlers.Deps{
		Tokens:       tokens,
		Users:        userRepo,
		UserService:  services.NewUserService(userRepo, tokens),
		LinkService:  services.NewLinkService(linkRepo, clickRepo, redirectCache, cfg.CodeLength, cfg.MaxCodeAttempts),
		StatsService: services.NewStatsService(userRepo, linkRepo, clickRepo),
	})

	log.Printf("URL shortener starting on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
