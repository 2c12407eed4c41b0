package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"chatagent/config"

	"github.com/gorilla/mux"
)

type ToolsHandler struct {
	service ChatService
	cfg     *config.Config
}

func NewToolsHandler(service ChatService, cfg *config.Config) *ToolsHandler {
	return &ToolsHandler{service: service, cfg: cfg}
}

func (h *ToolsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/tools", h.ListTools).Methods("GET")
	router.HandleFunc("/api/health", h.HealthCheck).Methods("GET")
}

func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received tools list request")
	h.writeJSONResponse(w, http.StatusOK, h.service.ToolInfo())
}

// HealthCheck reports whether the service holds the configuration it needs
// to reach the LLM provider.
func (h *ToolsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	timestamp := time.Now().Format(time.RFC3339)

	if h.cfg.AnthropicAPIKey == "" {
		h.writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":    "unhealthy",
			"error":     "ANTHROPIC_API_KEY is not configured",
			"timestamp": timestamp,
		})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": timestamp,
	})
}

func (h *ToolsHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
