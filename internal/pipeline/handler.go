package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/contentflowhq/lead-pipeline/internal/leadform"
	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

// maxBodyBytes caps inbound submission bodies.
const maxBodyBytes = 1 << 20

// Handler serves the public lead intake endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the intake handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SubmitResponse is the intake response body. Success is true whenever the
// lead was accepted, even when CRM delivery degraded to email.
type SubmitResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	LeadID      string `json:"leadId,omitempty"`
	LeadScore   int    `json:"leadScore"`
	LeadQuality string `json:"leadQuality"`
	ContactID   string `json:"contactId,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit handles POST /leads requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload leadform.SubmissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := h.service.Process(r.Context(), &payload)
	if err != nil {
		if leadform.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("lead submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	message := "Lead captured"
	if result.SoftFail != "" {
		message = "Lead captured; CRM sync pending"
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success:     true,
		Message:     message,
		LeadID:      result.Lead.ID,
		LeadScore:   result.Lead.LeadScore,
		LeadQuality: string(result.Lead.LeadQuality),
		ContactID:   result.ContactID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
