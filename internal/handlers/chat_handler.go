package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pethub/internal/models"
	"pethub/internal/service"
)

// ChatHandler exposes tier 3 conversations over HTTP
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply      string      `json:"reply"`
	Emotion    string      `json:"emotion,omitempty"`
	Pet        *models.Pet `json:"pet"`
	AudioURL   string      `json:"audio_url,omitempty"`
	TokensUsed int         `json:"tokens_used,omitempty"`
}

// SendMessage handles POST /api/pets/{id}/chat
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	h.converse(w, r, false)
}

// SendVoiceMessage handles POST /api/pets/{id}/voice
func (h *ChatHandler) SendVoiceMessage(w http.ResponseWriter, r *http.Request) {
	h.converse(w, r, true)
}

func (h *ChatHandler) converse(w http.ResponseWriter, r *http.Request, voice bool) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	var result *service.ChatResult
	if voice {
		result, err = h.chatService.SendVoiceMessage(r.Context(), petID, user.ID, req.Message)
	} else {
		result, err = h.chatService.SendMessage(r.Context(), petID, user.ID, req.Message)
	}
	if err != nil {
		respondWithServiceError(w, err, "Chat turn failed")
		return
	}

	resp := chatResponse{
		Reply:      result.Reply.Content,
		Emotion:    result.Reply.Emotion,
		Pet:        result.Pet,
		TokensUsed: result.Reply.TokensUsed,
	}
	if result.AudioFilename != "" {
		resp.AudioURL = "/audio/" + result.AudioFilename
	}
	respondJSON(w, http.StatusOK, resp)
}

// History handles GET /api/pets/{id}/conversation
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := h.chatService.History(petID, user.ID, limit)
	if err != nil {
		respondWithServiceError(w, err, "Failed to load conversation")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
