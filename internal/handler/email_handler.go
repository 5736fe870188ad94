package handler

import (
	"encoding/json"
	"net/http"

	"joulaa/internal/email"

	"github.com/rs/zerolog"
)

// EmailHandler handles transactional email HTTP requests.
type EmailHandler struct {
	sender email.Sender
	logger zerolog.Logger
}

// NewEmailHandler creates a new email handler.
func NewEmailHandler(sender email.Sender, logger zerolog.Logger) *EmailHandler {
	return &EmailHandler{
		sender: sender,
		logger: logger.With().Str("handler", "email").Logger(),
	}
}

type sendEmailRequest struct {
	From    string   `json:"from,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// Send handles POST /api/send-email requests.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if len(req.To) == 0 {
		writeError(w, http.StatusBadRequest, "to is required", h.logger)
		return
	}
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required", h.logger)
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, "html is required", h.logger)
		return
	}

	id, err := h.sender.Send(r.Context(), &email.Message{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to send email", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sendEmailResponse{ID: id})
}
