package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the registration review state of a station owner.
type ApprovalStatus string

const (
	StatusPending      ApprovalStatus = "pending"
	StatusApproved     ApprovalStatus = "approved"
	StatusResubmission ApprovalStatus = "resubmission"
)

// Label returns the human-facing form of the status, as shown on the
// confirmation page and in notification emails.
func (s ApprovalStatus) Label() string {
	switch s {
	case StatusApproved:
		return "Approved"
	case StatusResubmission:
		return "Resubmission"
	default:
		return "Pending"
	}
}

// StationOwner represents a gas-station owner registration record.
type StationOwner struct {
	ID                      uuid.UUID
	Email                   string
	Name                    string
	StationName             string
	ApprovalStatus          ApprovalStatus
	EmailNotificationSent   bool
	ApprovalProcessedVia    *string
	ApprovalProcessedAt     *time.Time
	ApprovalAction          *ApprovalAction
	ApprovedAt              *time.Time
	ResubmissionRequestedAt *time.Time
	RejectionReason         *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsPending returns true while the registration is still awaiting a decision.
func (o *StationOwner) IsPending() bool {
	return o.ApprovalStatus == StatusPending
}
