package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"moneytalk/internal/intent"
	"moneytalk/internal/ledger"
	"moneytalk/internal/orchestrator"
	"moneytalk/internal/storage"
)

// TextExtractor turns uploaded media into text for the chat pipeline.
type TextExtractor interface {
	TranscribeAudio(ctx context.Context, audioPath string) (string, error)
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

type Handler struct {
	orc         *orchestrator.Orchestrator
	repo        *ledger.Repository
	storage     *storage.LocalStorage
	extractor   TextExtractor
	classify    func(ctx context.Context, text string) intent.Score
	defaultUser int64
}

func New(orc *orchestrator.Orchestrator, repo *ledger.Repository, store *storage.LocalStorage,
	extractor TextExtractor, classify func(ctx context.Context, text string) intent.Score) (*Handler, error) {
	defaultUser, err := repo.EnsureDefaultUser()
	if err != nil {
		return nil, err
	}
	return &Handler{
		orc:         orc,
		repo:        repo,
		storage:     store,
		extractor:   extractor,
		classify:    classify,
		defaultUser: defaultUser,
	}, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
