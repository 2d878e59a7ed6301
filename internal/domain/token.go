package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApprovalAction is the decision carried by an approval link.
type ApprovalAction string

const (
	ActionApprove      ApprovalAction = "approve"
	ActionResubmission ApprovalAction = "resubmission"
)

// ParseApprovalAction parses a (case-insensitive) action query value.
func ParseApprovalAction(s string) (ApprovalAction, error) {
	switch ApprovalAction(strings.ToLower(s)) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionResubmission:
		return ActionResubmission, nil
	default:
		return "", fmt.Errorf("unknown approval action %q", s)
	}
}

// Status returns the owner status this action transitions to.
func (a ApprovalAction) Status() ApprovalStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusResubmission
}

// ApprovalToken is a single-use credential embedded in an emailed approval
// link. Only the SHA-256 hash of the raw token is persisted.
type ApprovalToken struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  *time.Time
	ConsumedAt *time.Time
	Action     *ApprovalAction
}

// IsConsumed returns true once the token has been used or invalidated.
func (t *ApprovalToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

// IsExpired returns true if the token carries an expiration timestamp that
// is in the past. Tokens without an expiration never expire.
func (t *ApprovalToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// Decision is the state transition committed after a successful
// notification: the owner's new status plus token bookkeeping.
type Decision struct {
	TokenID uuid.UUID
	OwnerID uuid.UUID
	Action  ApprovalAction
	Reason  string
	Channel string
}
