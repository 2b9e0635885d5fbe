package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"oraclequiz/internal/service"
	"oraclequiz/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	QuizService    *service.QuizService
	ProfileService *service.ProfileService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	quizHandler := handler.NewQuizHandler(c.QuizService)
	profileHandler := handler.NewProfileHandler(c.ProfileService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Quiz round flow
	v1.HandleFunc("/quiz/start", quizHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/{userId}", quizHandler.Status).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quiz/{userId}", quizHandler.Abandon).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/quiz/{userId}/question", quizHandler.Question).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quiz/{userId}/answer", quizHandler.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/{userId}/complete", quizHandler.Complete).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/{userId}/next", quizHandler.Next).Methods("POST", "OPTIONS")

	// Profile
	v1.HandleFunc("/profile/identity", profileHandler.PutIdentity).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/profile/{userId}/history", profileHandler.History).Methods("GET", "OPTIONS")
	v1.HandleFunc("/profile/{userId}/stats", profileHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
