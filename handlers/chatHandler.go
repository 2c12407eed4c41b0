package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"chatagent/models"

	"github.com/gorilla/mux"
)

// ChatService is the orchestrator surface the HTTP layer depends on.
type ChatService interface {
	Respond(ctx context.Context, message string) (string, error)
	RespondWithSteps(ctx context.Context, message string) (*models.ChatResult, error)
	ToolInfo() []models.ToolInfo
}

type ChatHandler struct {
	service ChatService
}

func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/chat", h.Chat).Methods("POST")
	router.HandleFunc("/api/chat/steps", h.ChatWithSteps).Methods("POST")
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received chat request")

	message, ok := h.decodeMessage(w, r)
	if !ok {
		return
	}

	response, err := h.service.Respond(r.Context(), message)
	if err != nil {
		log.Printf("[ERROR] Chat processing failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Chat request completed successfully")
	h.writeJSONResponse(w, http.StatusOK, models.ChatResponse{
		Response:  response,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (h *ChatHandler) ChatWithSteps(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received chat request with steps")

	message, ok := h.decodeMessage(w, r)
	if !ok {
		return
	}

	result, err := h.service.RespondWithSteps(r.Context(), message)
	if err != nil {
		log.Printf("[ERROR] Chat processing failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Chat request with steps completed successfully")
	h.writeJSONResponse(w, http.StatusOK, models.ChatStepsResponse{
		Response:  result.Response,
		Steps:     buildSteps(result.Messages),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (h *ChatHandler) decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode chat request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return "", false
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		log.Printf("[ERROR] Empty message in chat request")
		h.writeErrorResponse(w, http.StatusBadRequest, "Message cannot be empty")
		return "", false
	}

	return message, true
}

// buildSteps flattens the run transcript into display-friendly steps.
func buildSteps(messages []models.ChatMessage) []models.ChatStep {
	steps := []models.ChatStep{}
	for _, msg := range messages {
		if msg.Content != "" {
			steps = append(steps, models.ChatStep{Type: msg.Role, Content: msg.Content})
		}
		for _, toolCall := range msg.ToolCalls {
			args, _ := json.Marshal(toolCall.Arguments)
			steps = append(steps, models.ChatStep{
				Type:    "tool_call",
				Tool:    toolCall.Name,
				Content: string(args),
			})
		}
		for _, toolResult := range msg.ToolResults {
			steps = append(steps, models.ChatStep{
				Type:    "tool_result",
				Content: toolResult.Content,
			})
		}
	}
	return steps
}

func (h *ChatHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *ChatHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
