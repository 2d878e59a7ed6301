package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mamark678/fuelgo/internal/domain"
)

const ownerColumns = `id, email, name, station_name, approval_status,
	       email_notification_sent, approval_processed_via, approval_processed_at,
	       approval_action, approved_at, resubmission_requested_at, rejection_reason,
	       created_at, updated_at`

// OwnersRepository handles station owner persistence.
type OwnersRepository struct {
	db *sql.DB
}

// NewOwnersRepository creates a new owners repository.
func NewOwnersRepository(db *sql.DB) *OwnersRepository {
	return &OwnersRepository{db: db}
}

// Create creates a new station owner record.
func (r *OwnersRepository) Create(ctx context.Context, owner *domain.StationOwner) error {
	query := `
		INSERT INTO station_owners (id, email, name, station_name, approval_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		owner.ID, owner.Email, owner.Name, owner.StationName,
		owner.ApprovalStatus, owner.CreatedAt, owner.UpdatedAt,
	)
	return err
}

// GetByID retrieves a station owner by ID.
func (r *OwnersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StationOwner, error) {
	query := `SELECT ` + ownerColumns + ` FROM station_owners WHERE id = $1`
	return r.scanOwner(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a station owner by ID with a row lock, for use
// inside a transaction.
func (r *OwnersRepository) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*domain.StationOwner, error) {
	query := `SELECT ` + ownerColumns + ` FROM station_owners WHERE id = $1 FOR UPDATE`
	return r.scanOwner(q.QueryRowContext(ctx, query, id))
}

// ListPending lists owners still awaiting an approval decision, oldest first.
func (r *OwnersRepository) ListPending(ctx context.Context) ([]*domain.StationOwner, error) {
	query := `SELECT ` + ownerColumns + ` FROM station_owners WHERE approval_status = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []*domain.StationOwner
	for rows.Next() {
		owner := &domain.StationOwner{}
		if err := rows.Scan(
			&owner.ID, &owner.Email, &owner.Name, &owner.StationName, &owner.ApprovalStatus,
			&owner.EmailNotificationSent, &owner.ApprovalProcessedVia, &owner.ApprovalProcessedAt,
			&owner.ApprovalAction, &owner.ApprovedAt, &owner.ResubmissionRequestedAt, &owner.RejectionReason,
			&owner.CreatedAt, &owner.UpdatedAt,
		); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// ApplyDecisionTx writes the approval decision and its bookkeeping fields
// within a transaction. The caller must already hold the row lock and have
// verified the owner is still pending.
func (r *OwnersRepository) ApplyDecisionTx(ctx context.Context, q Querier, d domain.Decision, now time.Time) error {
	status := d.Action.Status()

	var approvedAt, resubmissionAt *time.Time
	var reason *string
	if d.Action == domain.ActionApprove {
		approvedAt = &now
	} else {
		resubmissionAt = &now
		if d.Reason != "" {
			reason = &d.Reason
		}
	}

	query := `
		UPDATE station_owners
		SET approval_status = $2,
		    email_notification_sent = true,
		    approval_processed_via = $3,
		    approval_processed_at = $4,
		    approval_action = $5,
		    approved_at = COALESCE($6, approved_at),
		    resubmission_requested_at = COALESCE($7, resubmission_requested_at),
		    rejection_reason = COALESCE($8, rejection_reason),
		    updated_at = $4
		WHERE id = $1 AND approval_status = $9
	`
	result, err := q.ExecContext(ctx, query,
		d.OwnerID, status, d.Channel, now, d.Action,
		approvedAt, resubmissionAt, reason, domain.StatusPending,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOwnerNotPending
	}
	return nil
}

func (r *OwnersRepository) scanOwner(row *sql.Row) (*domain.StationOwner, error) {
	owner := &domain.StationOwner{}
	err := row.Scan(
		&owner.ID, &owner.Email, &owner.Name, &owner.StationName, &owner.ApprovalStatus,
		&owner.EmailNotificationSent, &owner.ApprovalProcessedVia, &owner.ApprovalProcessedAt,
		&owner.ApprovalAction, &owner.ApprovedAt, &owner.ResubmissionRequestedAt, &owner.RejectionReason,
		&owner.CreatedAt, &owner.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan station owner: %w", err)
	}
	return owner, nil
}
