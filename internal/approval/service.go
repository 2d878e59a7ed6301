// Package approval implements the registration approval workflow: a
// single-use emailed token gates one pending -> approved/resubmission
// transition on a station owner record. The owner is notified before the
// state change is committed, and the commit re-validates both records
// inside a transaction to guard against concurrent link clicks.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mamark678/fuelgo/internal/domain"
)

// channelEmailLink records how a decision was processed.
const channelEmailLink = "emailLink"

// Store is the persistence surface the workflow needs. CommitDecision must
// re-validate the token and owner atomically and return
// domain.ErrDecisionConflict when the re-check fails.
type Store interface {
	TokenByHash(ctx context.Context, tokenHash string) (*domain.ApprovalToken, error)
	OwnerByID(ctx context.Context, id uuid.UUID) (*domain.StationOwner, error)
	ExpireToken(ctx context.Context, tokenID uuid.UUID) error
	CommitDecision(ctx context.Context, d domain.Decision) error
	SaveToken(ctx context.Context, token *domain.ApprovalToken) error
}

// Mailer sends decision notifications to station owners.
type Mailer interface {
	SendApprovalEmail(to, name, station string) error
	SendResubmissionEmail(to, name, station, reason string) error
}

// Config holds approval workflow configuration.
type Config struct {
	// TokenTTL bounds the lifetime of newly issued approval tokens.
	TokenTTL time.Duration
}

// Service runs the approval workflow.
type Service struct {
	config Config
	logger *slog.Logger
	store  Store
	mailer Mailer // nil when no mail transport is configured
}

// NewService creates a new approval service. mailer may be nil, in which
// case Process refuses to run (the owner could not be notified).
func NewService(config Config, logger *slog.Logger, store Store, mailer Mailer) *Service {
	return &Service{
		config: config,
		logger: logger,
		store:  store,
		mailer: mailer,
	}
}

// Result describes a successfully processed decision.
type Result struct {
	Owner  *domain.StationOwner
	Action domain.ApprovalAction
	Status domain.ApprovalStatus
}

// Process consumes an approval token and applies the decision it carries.
//
// The notification email is sent before any state is persisted: if the send
// fails, both records are left untouched and the link stays usable. The
// commit then re-checks the token and owner inside a transaction; a failed
// re-check surfaces as domain.ErrDecisionConflict, meaning the owner was
// already notified of an outcome that was not recorded.
func (s *Service) Process(ctx context.Context, rawToken string, action domain.ApprovalAction, reason string) (*Result, error) {
	token, err := s.store.TokenByHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if token.IsConsumed() {
		return nil, domain.ErrTokenConsumed
	}

	if token.IsExpired(time.Now()) {
		if err := s.store.ExpireToken(ctx, token.ID); err != nil {
			return nil, fmt.Errorf("failed to expire token: %w", err)
		}
		s.logger.Info("approval token expired", "token_id", token.ID)
		return nil, domain.ErrTokenExpired
	}

	owner, err := s.store.OwnerByID(ctx, token.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to look up owner: %w", err)
	}

	if !owner.IsPending() {
		return nil, domain.ErrOwnerNotPending
	}
	if owner.Email == "" {
		return nil, domain.ErrOwnerMissingEmail
	}

	// Phase 1: notify. Nothing is persisted until the owner has been told
	// of the outcome.
	if s.mailer == nil {
		s.logger.Warn("mail transport not configured, refusing to process approval",
			"owner_id", owner.ID)
		return nil, domain.ErrMailNotConfigured
	}

	if action == domain.ActionApprove {
		err = s.mailer.SendApprovalEmail(owner.Email, owner.Name, owner.StationName)
	} else {
		err = s.mailer.SendResubmissionEmail(owner.Email, owner.Name, owner.StationName, reason)
	}
	if err != nil {
		s.logger.Error("failed to send owner notification",
			"owner_id", owner.ID, "action", action, "error", err)
		return nil, domain.ErrMailSendFailed
	}
	s.logger.Info("owner notification sent", "owner_id", owner.ID, "action", action)

	// Phase 2: commit. A guard failure here is its own error category: the
	// notification already went out and cannot be recalled.
	err = s.store.CommitDecision(ctx, domain.Decision{
		TokenID: token.ID,
		OwnerID: owner.ID,
		Action:  action,
		Reason:  reason,
		Channel: channelEmailLink,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDecisionConflict) {
			s.logger.Error("owner notified but decision not committed",
				"owner_id", owner.ID, "token_id", token.ID, "action", action)
			return nil, domain.ErrDecisionConflict
		}
		return nil, fmt.Errorf("failed to commit decision: %w", err)
	}

	s.logger.Info("approval decision committed",
		"owner_id", owner.ID, "action", action, "status", action.Status())

	return &Result{
		Owner:  owner,
		Action: action,
		Status: action.Status(),
	}, nil
}

// IssueToken mints a new single-use approval token for a pending owner,
// revoking any earlier active tokens. It returns the raw token for
// embedding in approval links.
func (s *Service) IssueToken(ctx context.Context, ownerID uuid.UUID) (string, *domain.ApprovalToken, error) {
	owner, err := s.store.OwnerByID(ctx, ownerID)
	if err != nil {
		return "", nil, err
	}
	if !owner.IsPending() {
		return "", nil, domain.ErrOwnerNotPending
	}

	rawToken, err := GenerateToken(32)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.config.TokenTTL)
	token := &domain.ApprovalToken{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		TokenHash: HashToken(rawToken),
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}

	if err := s.store.SaveToken(ctx, token); err != nil {
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.logger.Info("approval token issued", "owner_id", ownerID, "token_id", token.ID,
		"expires_at", expiresAt)

	return rawToken, token, nil
}
