package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/yusufkecer/health-agent-backend/internal/agent"
	"github.com/yusufkecer/health-agent-backend/internal/config"
	"github.com/yusufkecer/health-agent-backend/internal/db"
	"github.com/yusufkecer/health-agent-backend/internal/handler"
	"github.com/yusufkecer/health-agent-backend/internal/middleware"
	"github.com/yusufkecer/health-agent-backend/internal/repository"
	"github.com/yusufkecer/health-agent-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable must be set")
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	agentClient, err := agent.NewClient(agent.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("agent client setup failed: %v", err)
	}

	accountRepo := repository.NewAccountRepository(database)
	metricRepo := repository.NewMetricRepository(database)
	preferenceRepo := repository.NewPreferenceRepository(database)
	recommendationRepo := repository.NewRecommendationRepository(database)
	messageRepo := repository.NewMessageRepository(database)

	healthService := service.NewHealthService(metricRepo, preferenceRepo, recommendationRepo, messageRepo, agentClient)

	authHandler := handler.NewAuthHandler(cfg.JWTSecret, accountRepo)
	metricHandler := handler.NewMetricHandler(healthService)
	preferenceHandler := handler.NewPreferenceHandler(healthService)
	recommendationHandler := handler.NewRecommendationHandler(healthService)
	assistantHandler := handler.NewAssistantHandler(healthService)

	loginRL := middleware.NewRateLimiter(5, 15*time.Minute)
	// LLM calls are slow and cost money; keep the generation endpoints on
	// a tight budget per client.
	generateRL := middleware.NewRateLimiter(10, time.Minute)

	r := mux.NewRouter()

	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
			next.ServeHTTP(w, r)
		})
	})

	r.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	api.Handle("/auth/register", http.HandlerFunc(authHandler.Register)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/login", loginRL.Middleware(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.HandleFunc("/health/metrics", metricHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/health/metrics/latest", metricHandler.Latest).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/health/metrics/history", metricHandler.History).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/health/preferences", preferenceHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/health/preferences", preferenceHandler.Update).Methods(http.MethodPut, http.MethodOptions)
	protected.Handle("/health/recommendations", generateRL.Middleware(http.HandlerFunc(recommendationHandler.Generate))).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/health/recommendations/latest", recommendationHandler.Latest).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/health/assistant/messages", assistantHandler.Messages).Methods(http.MethodGet, http.MethodOptions)
	protected.Handle("/health/assistant/chat/stream", generateRL.Middleware(http.HandlerFunc(assistantHandler.ChatStream))).Methods(http.MethodPost, http.MethodOptions)

	addr := ":" + cfg.Port
	log.Printf("server starting on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
