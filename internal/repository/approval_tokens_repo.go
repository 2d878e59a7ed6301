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

const tokenColumns = `id, owner_id, token_hash, created_at, expires_at, consumed_at, action`

// ApprovalTokensRepository handles approval token persistence.
type ApprovalTokensRepository struct {
	db *sql.DB
}

// NewApprovalTokensRepository creates a new approval tokens repository.
func NewApprovalTokensRepository(db *sql.DB) *ApprovalTokensRepository {
	return &ApprovalTokensRepository{db: db}
}

// Create creates a new approval token.
func (r *ApprovalTokensRepository) Create(ctx context.Context, token *domain.ApprovalToken) error {
	return r.CreateTx(ctx, r.db, token)
}

// CreateTx creates a new approval token within a transaction.
func (r *ApprovalTokensRepository) CreateTx(ctx context.Context, q Querier, token *domain.ApprovalToken) error {
	query := `
		INSERT INTO approval_tokens (id, owner_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.ExecContext(ctx, query,
		token.ID, token.OwnerID, token.TokenHash, token.CreatedAt, token.ExpiresAt,
	)
	return err
}

// GetByTokenHash retrieves an approval token by its hash.
func (r *ApprovalTokensRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.ApprovalToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM approval_tokens WHERE token_hash = $1`
	return r.scanToken(r.db.QueryRowContext(ctx, query, tokenHash))
}

// GetByIDForUpdate retrieves an approval token by ID with a row lock, for
// use inside a transaction.
func (r *ApprovalTokensRepository) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*domain.ApprovalToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM approval_tokens WHERE id = $1 FOR UPDATE`
	return r.scanToken(q.QueryRowContext(ctx, query, id))
}

// MarkConsumed marks a token as consumed, recording the action taken.
// A nil action records consumption without a decision (expiry).
func (r *ApprovalTokensRepository) MarkConsumed(ctx context.Context, tokenID uuid.UUID, action *domain.ApprovalAction, now time.Time) error {
	return r.MarkConsumedTx(ctx, r.db, tokenID, action, now)
}

// MarkConsumedTx marks a token as consumed within a transaction.
func (r *ApprovalTokensRepository) MarkConsumedTx(ctx context.Context, q Querier, tokenID uuid.UUID, action *domain.ApprovalAction, now time.Time) error {
	query := `
		UPDATE approval_tokens
		SET consumed_at = $2, action = $3
		WHERE id = $1 AND consumed_at IS NULL
	`
	result, err := q.ExecContext(ctx, query, tokenID, now, action)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTokenConsumed
	}
	return nil
}

// RevokeActiveTokensTx marks all active tokens for an owner as consumed,
// within a transaction. Used when issuing a replacement token.
func (r *ApprovalTokensRepository) RevokeActiveTokensTx(ctx context.Context, q Querier, ownerID uuid.UUID, now time.Time) error {
	query := `
		UPDATE approval_tokens
		SET consumed_at = $2
		WHERE owner_id = $1 AND consumed_at IS NULL
	`
	_, err := q.ExecContext(ctx, query, ownerID, now)
	return err
}

func (r *ApprovalTokensRepository) scanToken(row *sql.Row) (*domain.ApprovalToken, error) {
	token := &domain.ApprovalToken{}
	err := row.Scan(
		&token.ID, &token.OwnerID, &token.TokenHash,
		&token.CreatedAt, &token.ExpiresAt, &token.ConsumedAt, &token.Action,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan approval token: %w", err)
	}
	return token, nil
}
