package approval

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mamark678/fuelgo/internal/approval"
	"github.com/mamark678/fuelgo/internal/domain"
)

// The link is clicked by a human admin, so success is a small HTML page.
var successTemplate = template.Must(template.New("success").Parse(`<html>
<head>
	<meta name="viewport" content="width=device-width, initial-scale=1"/>
	<title>FuelGo Registration</title>
</head>
<body style="font-family: Arial, sans-serif; padding: 40px; text-align: center;">
	<h1>Success!</h1>
	<p>User has been <strong>{{.Status}}</strong> successfully.</p>
	<p>Owner notified via email. You can close this window.</p>
</body>
</html>`))

// Handler handles approval link clicks.
type Handler struct {
	logger  *slog.Logger
	service *approval.Service
}

// NewHandler creates a new approval handler.
func NewHandler(logger *slog.Logger, service *approval.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// HandleApproval consumes an emailed approval link.
// GET /approval?token=...&action=approve|resubmission&reason=...
func (h *Handler) HandleApproval(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	actionParam := r.URL.Query().Get("action")
	reason := r.URL.Query().Get("reason")

	if token == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	action, err := domain.ParseApprovalAction(actionParam)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.Process(r.Context(), token, action, reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := successTemplate.Execute(w, map[string]string{
		"Status": result.Status.Label(),
	}); err != nil {
		h.logger.Error("failed to render approval page", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTokenNotFound):
		http.Error(w, "Token not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrTokenConsumed):
		http.Error(w, "Token used", http.StatusGone)
	case errors.Is(err, domain.ErrTokenExpired):
		http.Error(w, "Token expired", http.StatusGone)
	case errors.Is(err, domain.ErrOwnerNotFound):
		http.Error(w, "User not found", http.StatusBadRequest)
	case errors.Is(err, domain.ErrOwnerNotPending):
		http.Error(w, "User not pending", http.StatusBadRequest)
	case errors.Is(err, domain.ErrOwnerMissingEmail):
		http.Error(w, "No owner email found", http.StatusBadRequest)
	case errors.Is(err, domain.ErrMailNotConfigured), errors.Is(err, domain.ErrMailSendFailed):
		http.Error(w, "Failed to send owner notification email. Status remains pending.", http.StatusInternalServerError)
	case errors.Is(err, domain.ErrDecisionConflict):
		http.Error(w, "Server error: approval was not recorded", http.StatusInternalServerError)
	default:
		h.logger.Error("approval processing failed", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
