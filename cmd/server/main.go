package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"oraclequiz/internal/app"
	"oraclequiz/internal/cache"
	"oraclequiz/internal/config"
	"oraclequiz/internal/oracle"
	"oraclequiz/internal/repository"
	"oraclequiz/internal/service"
	"oraclequiz/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Oracle backend: %s", cfg.OracleBaseURL)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Wire the application
	a := app.New(
		repository.NewHistoryRepository(db),
		cache.NewProfileCache(rdb),
		oracle.NewClient(cfg.OracleBaseURL),
		service.NewTokenService(cfg.JWTSecret),
	)

	// Create router with container
	container := &rest.Container{
		QuizService:    a.QuizService,
		ProfileService: a.ProfileService,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/quiz/start")
		log.Println("  GET/DELETE /v1/quiz/{userId}")
		log.Println("  GET  /v1/quiz/{userId}/question")
		log.Println("  POST /v1/quiz/{userId}/answer")
		log.Println("  POST /v1/quiz/{userId}/complete")
		log.Println("  POST /v1/quiz/{userId}/next")
		log.Println("  PUT  /v1/profile/identity")
		log.Println("  GET  /v1/profile/{userId}/history")
		log.Println("  GET  /v1/profile/{userId}/stats")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
