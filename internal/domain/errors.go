package domain

import "errors"

// Approval workflow errors
var (
	ErrTokenNotFound     = errors.New("approval token not found")
	ErrTokenConsumed     = errors.New("approval token already used")
	ErrTokenExpired      = errors.New("approval token expired")
	ErrOwnerNotFound     = errors.New("station owner not found")
	ErrOwnerNotPending   = errors.New("station owner is not pending approval")
	ErrOwnerMissingEmail = errors.New("station owner has no contact email")
)

// Notification errors
var (
	ErrMailNotConfigured = errors.New("mail transport not configured")
	ErrMailSendFailed    = errors.New("failed to send notification email")
)

// ErrDecisionConflict is returned when the in-transaction guard re-check
// fails: another request consumed the token or changed the owner's status
// after the notification email was already sent. The owner has been
// notified but nothing was persisted.
var ErrDecisionConflict = errors.New("approval decision conflict: state changed after notification")

// ErrInvalidAdminToken is returned when an admin authorization token fails
// signature or claims validation.
var ErrInvalidAdminToken = errors.New("invalid admin token")
