package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mamark678/fuelgo/internal/auth"
	"github.com/mamark678/fuelgo/internal/httputil"
	"github.com/mamark678/fuelgo/internal/identity"
)

// Handler handles account deletion requests.
type Handler struct {
	logger        *slog.Logger
	deleter       identity.Deleter    // nil when the identity provider is not configured
	adminVerifier *auth.AdminVerifier // nil when admin token verification is not configured
}

// NewHandler creates a new account handler. adminVerifier may be nil, in
// which case the adminToken field is accepted unverified and a warning is
// logged per request.
func NewHandler(logger *slog.Logger, deleter identity.Deleter, adminVerifier *auth.AdminVerifier) *Handler {
	return &Handler{
		logger:        logger,
		deleter:       deleter,
		adminVerifier: adminVerifier,
	}
}

// DeleteRequest is the account deletion request body.
type DeleteRequest struct {
	UserID     string `json:"userId"`
	AdminToken string `json:"adminToken,omitempty"`
}

// DeleteResponse is the success response body.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FailureResponse is the server-error response body, carrying the
// provider's message.
type FailureResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Delete handles account deletion.
// POST /v1/account/delete (OPTIONS answered by the CORS middleware)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		httputil.Error(w, http.StatusBadRequest, "userId is required")
		return
	}

	if h.adminVerifier != nil {
		if _, err := h.adminVerifier.Verify(req.AdminToken); err != nil {
			h.logger.Warn("account deletion rejected: bad admin token", "user_id", req.UserID)
			httputil.Error(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
	} else {
		// Verification is not configured, so the admin token is accepted
		// as-is. This is an authorization gap; make it visible.
		h.logger.Warn("admin token accepted without verification (ADMIN_JWT_SECRET not set)",
			"user_id", req.UserID)
	}

	if h.deleter == nil {
		httputil.JSON(w, http.StatusInternalServerError, FailureResponse{
			Error:   "Failed to delete user",
			Message: "identity provider not configured",
		})
		return
	}

	if err := h.deleter.DeleteUser(r.Context(), req.UserID); err != nil {
		h.logger.Error("failed to delete user", "user_id", req.UserID, "error", err)
		httputil.JSON(w, http.StatusInternalServerError, FailureResponse{
			Error:   "Failed to delete user",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("user deleted", "user_id", req.UserID)

	httputil.JSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("User %s deleted successfully", req.UserID),
	})
}
