package leadform

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

// AdminHandler serves the read-only lead archive endpoints.
type AdminHandler struct {
	repo   Repository
	logger *logging.Logger
}

// NewAdminHandler creates a new archive handler.
func NewAdminHandler(repo Repository, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{repo: repo, logger: logger}
}

// ListLeadsResponse is the response for listing archived leads.
type ListLeadsResponse struct {
	Leads []*LeadRecord `json:"leads"`
	Count int           `json:"count"`
	Limit int           `json:"limit"`
}

// ListLeads handles GET /admin/leads requests.
func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	leads, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	response := ListLeadsResponse{
		Leads: leads,
		Count: len(leads),
		Limit: limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
