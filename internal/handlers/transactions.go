package handlers

import (
	"net/http"
	"strconv"

	"moneytalk/internal/logger"
	"moneytalk/internal/models"
)

// GetRecentTransactions handles GET /api/transactions/recent
func (h *Handler) GetRecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	txs, err := h.repo.Recent(r.Context(), h.defaultUser, limit)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("recent transactions query failed")
		respondError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	views := make([]models.TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, tx.ToView())
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": views})
}

// GetReport handles GET /api/report?q=<period phrase>. The phrase goes
// through the same resolver and synthesizer as a chat report request.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "missing q parameter")
		return
	}

	res := h.orc.HandleReport(r.Context(), h.defaultUser, q)
	respondJSON(w, http.StatusOK, res)
}
