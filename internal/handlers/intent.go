package handlers

import (
	"encoding/json"
	"net/http"

	"moneytalk/internal/textnorm"
)

type classifyRequest struct {
	Message string `json:"message"`
}

// ClassifyIntent handles POST /api/intent. It exposes the classifier's raw
// scores for tuning cue weights against real traffic.
func (h *Handler) ClassifyIntent(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	score := h.classify(r.Context(), textnorm.Normalize(req.Message))
	respondJSON(w, http.StatusOK, score)
}

// ClearPromptCache handles POST /api/prompts/clear. Edited prompt files take
// effect on the next report without a restart.
func (h *Handler) ClearPromptCache(w http.ResponseWriter, r *http.Request) {
	h.orc.Prompts().Clear()
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
