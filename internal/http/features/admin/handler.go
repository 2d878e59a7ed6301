package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mamark678/fuelgo/internal/approval"
	"github.com/mamark678/fuelgo/internal/domain"
	"github.com/mamark678/fuelgo/internal/httputil"
	"github.com/mamark678/fuelgo/internal/repository"
)

// Handler handles the admin surface for pending registrations.
type Handler struct {
	logger     *slog.Logger
	service    *approval.Service
	owners     *repository.OwnersRepository
	appBaseURL string
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, service *approval.Service, owners *repository.OwnersRepository, appBaseURL string) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		owners:     owners,
		appBaseURL: appBaseURL,
	}
}

// PendingOwner is a pending registration in list responses.
type PendingOwner struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	StationName string    `json:"stationName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApprovalLinkResponse carries the freshly issued approval link pair.
type ApprovalLinkResponse struct {
	ApproveURL      string    `json:"approveUrl"`
	ResubmissionURL string    `json:"resubmissionUrl"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// ListPending lists registrations awaiting a decision.
// GET /v1/admin/owners/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	owners, err := h.owners.ListPending(r.Context())
	if err != nil {
		h.logger.Error("failed to list pending owners", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list pending owners")
		return
	}

	resp := make([]PendingOwner, 0, len(owners))
	for _, owner := range owners {
		resp = append(resp, PendingOwner{
			ID:          owner.ID,
			Email:       owner.Email,
			Name:        owner.Name,
			StationName: owner.StationName,
			CreatedAt:   owner.CreatedAt,
		})
	}

	httputil.JSON(w, http.StatusOK, resp)
}

// IssueApprovalLink mints a single-use token for a pending owner and
// returns the approve and resubmission link variants.
// POST /v1/admin/owners/{ownerID}/approval-link
func (h *Handler) IssueApprovalLink(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "ownerID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid owner id")
		return
	}

	rawToken, token, err := h.service.IssueToken(r.Context(), ownerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOwnerNotFound):
			httputil.Error(w, http.StatusNotFound, "owner not found")
		case errors.Is(err, domain.ErrOwnerNotPending):
			httputil.Error(w, http.StatusConflict, "owner is not pending approval")
		default:
			h.logger.Error("failed to issue approval token", "owner_id", ownerID, "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to issue approval token")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, ApprovalLinkResponse{
		ApproveURL:      fmt.Sprintf("%s/approval?token=%s&action=approve", h.appBaseURL, rawToken),
		ResubmissionURL: fmt.Sprintf("%s/approval?token=%s&action=resubmission", h.appBaseURL, rawToken),
		ExpiresAt:       *token.ExpiresAt,
	})
}
