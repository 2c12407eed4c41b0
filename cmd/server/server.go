package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"chatagent/config"
	"chatagent/handlers"
	"chatagent/services/agent"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY environment variable is required")
	}

	if !cfg.HasSearchCapability() {
		log.Printf("[INFO] SERPAPI_API_KEY not set, web search will use DuckDuckGo")
	}

	agentService, err := agent.NewService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize agent service: %v", err)
	}

	chatHandler := handlers.NewChatHandler(agentService)
	toolsHandler := handlers.NewToolsHandler(agentService, cfg)

	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	chatHandler.RegisterRoutes(router)
	toolsHandler.RegisterRoutes(router)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.StaticDir, "index.html"))
	}).Methods("GET")
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
