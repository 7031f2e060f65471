package main

import (
	"fmt"
	"log"
	"net/http"

	"campusgpt/config"
	"campusgpt/db"
	"campusgpt/handlers"
	"campusgpt/services/chat"
	"campusgpt/services/examgen"
	"campusgpt/services/memory"
	"campusgpt/services/memoryextract"

	"github.com/gorilla/mux"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	if cfg.GatewayAPIKey == "" {
		log.Fatal("AI_GATEWAY_API_KEY environment variable is required")
	}

	if cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY environment variable is required")
	}

	memoryRepo, err := db.NewPostgresMemoryRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize memory database: %v", err)
	}
	defer memoryRepo.Close()

	toneRepo, err := db.NewPostgresToneRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize tone database: %v", err)
	}
	defer toneRepo.Close()

	extractionLLM, err := openai.New(
		openai.WithModel(cfg.GatewayModel),
		openai.WithToken(cfg.GatewayAPIKey),
		openai.WithBaseURL(cfg.GatewayURL),
	)
	if err != nil {
		log.Fatalf("Failed to initialize extraction LLM client: %v", err)
	}

	extractor := memoryextract.NewService(extractionLLM, memoryRepo)

	gateway := chat.NewGateway(cfg.GatewayURL, cfg.GatewayAPIKey, cfg.GatewayModel)
	chatService := chat.NewService(gateway, memoryRepo, toneRepo, extractor)
	chatHandler := handlers.NewChatHandler(chatService)

	memoryService := memory.NewService(memoryRepo)
	memoryHandler := handlers.NewMemoryHandler(memoryService)

	examService := examgen.NewService(cfg.AnthropicAPIKey)
	examHandler := handlers.NewExamHandler(examService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	chatHandler.RegisterRoutes(router)
	memoryHandler.RegisterRoutes(router)
	examHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
