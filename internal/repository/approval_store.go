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

// ApprovalStore aggregates the token and owner repositories behind the
// approval service's store interface, including the transactional commit
// with its guard re-check.
type ApprovalStore struct {
	db     *sql.DB
	tokens *ApprovalTokensRepository
	owners *OwnersRepository
}

// NewApprovalStore creates a new approval store.
func NewApprovalStore(db *sql.DB, tokens *ApprovalTokensRepository, owners *OwnersRepository) *ApprovalStore {
	return &ApprovalStore{db: db, tokens: tokens, owners: owners}
}

// TokenByHash looks up an approval token by its hash.
func (s *ApprovalStore) TokenByHash(ctx context.Context, tokenHash string) (*domain.ApprovalToken, error) {
	return s.tokens.GetByTokenHash(ctx, tokenHash)
}

// OwnerByID looks up a station owner.
func (s *ApprovalStore) OwnerByID(ctx context.Context, id uuid.UUID) (*domain.StationOwner, error) {
	return s.owners.GetByID(ctx, id)
}

// ExpireToken marks an expired token as consumed without recording a
// decision.
func (s *ApprovalStore) ExpireToken(ctx context.Context, tokenID uuid.UUID) error {
	return s.tokens.MarkConsumed(ctx, tokenID, nil, time.Now())
}

// CommitDecision atomically re-validates the token and owner under row
// locks, then writes the owner's new status and marks the token consumed.
// Returns domain.ErrDecisionConflict if either re-check fails, meaning
// another request won the race after the notification email went out.
func (s *ApprovalStore) CommitDecision(ctx context.Context, d domain.Decision) error {
	return Tx(ctx, s.db, func(tx *sql.Tx) error {
		now := time.Now()

		token, err := s.tokens.GetByIDForUpdate(ctx, tx, d.TokenID)
		if err != nil {
			if errors.Is(err, domain.ErrTokenNotFound) {
				return domain.ErrDecisionConflict
			}
			return fmt.Errorf("failed to re-read token: %w", err)
		}
		if token.IsConsumed() {
			return domain.ErrDecisionConflict
		}

		owner, err := s.owners.GetByIDForUpdate(ctx, tx, d.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrOwnerNotFound) {
				return domain.ErrDecisionConflict
			}
			return fmt.Errorf("failed to re-read owner: %w", err)
		}
		if !owner.IsPending() {
			return domain.ErrDecisionConflict
		}

		if err := s.owners.ApplyDecisionTx(ctx, tx, d, now); err != nil {
			if errors.Is(err, domain.ErrOwnerNotPending) {
				return domain.ErrDecisionConflict
			}
			return fmt.Errorf("failed to apply decision: %w", err)
		}

		action := d.Action
		if err := s.tokens.MarkConsumedTx(ctx, tx, d.TokenID, &action, now); err != nil {
			if errors.Is(err, domain.ErrTokenConsumed) {
				return domain.ErrDecisionConflict
			}
			return fmt.Errorf("failed to consume token: %w", err)
		}

		return nil
	})
}

// SaveToken revokes any active tokens for the owner and stores the new one
// in a single transaction.
func (s *ApprovalStore) SaveToken(ctx context.Context, token *domain.ApprovalToken) error {
	return Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tokens.RevokeActiveTokensTx(ctx, tx, token.OwnerID, time.Now()); err != nil {
			return fmt.Errorf("failed to revoke active tokens: %w", err)
		}
		if err := s.tokens.CreateTx(ctx, tx, token); err != nil {
			return fmt.Errorf("failed to create token: %w", err)
		}
		return nil
	})
}
