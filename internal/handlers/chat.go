package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"moneytalk/internal/logger"
	"moneytalk/internal/orchestrator"
)

// ChatRequest represents the incoming chat message
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the chat response
type ChatResponse struct {
	orchestrator.Result
	Transcript string `json:"transcript,omitempty"`
}

// Chat handles POST /api/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.orc.Handle(r.Context(), h.defaultUser, req.Message)
	respondJSON(w, http.StatusOK, ChatResponse{Result: res})
}

// ChatVoice handles POST /api/chat/voice. The voice note is stored, sent for
// speech-to-text, and the transcript runs through the same pipeline as a
// typed message.
func (h *Handler) ChatVoice(w http.ResponseWriter, r *http.Request) {
	h.chatUpload(w, r, h.extractor.TranscribeAudio)
}

// ChatPhoto handles POST /api/chat/photo. The receipt photo is stored, sent
// for OCR, and the recognized text runs through the pipeline.
func (h *Handler) ChatPhoto(w http.ResponseWriter, r *http.Request) {
	h.chatUpload(w, r, h.extractor.ExtractText)
}

func (h *Handler) chatUpload(w http.ResponseWriter, r *http.Request,
	extract func(ctx context.Context, path string) (string, error)) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	log := logger.FromContext(r.Context())

	stored, err := h.storage.Save(header.Filename, file)
	if err != nil {
		log.Error().Err(err).Msg("upload save failed")
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	// The file only exists to hand a path to the sidecar; remove it once the
	// text is out.
	defer func() {
		if err := h.storage.Delete(stored); err != nil {
			log.Warn().Err(err).Str("file", stored).Msg("failed to remove upload")
		}
	}()

	text, err := extract(r.Context(), h.storage.GetPath(stored))
	if err != nil {
		log.Error().Err(err).Str("file", stored).Msg("text extraction failed")
		respondError(w, http.StatusBadGateway, "could not extract text from upload")
		return
	}

	res := h.orc.Handle(r.Context(), h.defaultUser, text)
	respondJSON(w, http.StatusOK, ChatResponse{Result: res, Transcript: text})
}
