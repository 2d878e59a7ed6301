package approval

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	approvalsvc "github.com/mamark678/fuelgo/internal/approval"
	"github.com/mamark678/fuelgo/internal/domain"
)

type fakeStore struct {
	token *domain.ApprovalToken
	owner *domain.StationOwner

	expired   int
	committed int
}

func (s *fakeStore) TokenByHash(_ context.Context, tokenHash string) (*domain.ApprovalToken, error) {
	if s.token == nil || s.token.TokenHash != tokenHash {
		return nil, domain.ErrTokenNotFound
	}
	copied := *s.token
	return &copied, nil
}

func (s *fakeStore) OwnerByID(_ context.Context, id uuid.UUID) (*domain.StationOwner, error) {
	if s.owner == nil || s.owner.ID != id {
		return nil, domain.ErrOwnerNotFound
	}
	copied := *s.owner
	return &copied, nil
}

func (s *fakeStore) ExpireToken(_ context.Context, _ uuid.UUID) error {
	s.expired++
	now := time.Now()
	s.token.ConsumedAt = &now
	return nil
}

func (s *fakeStore) CommitDecision(_ context.Context, d domain.Decision) error {
	if s.token.IsConsumed() || !s.owner.IsPending() {
		return domain.ErrDecisionConflict
	}
	now := time.Now()
	action := d.Action
	s.token.ConsumedAt = &now
	s.token.Action = &action
	s.owner.ApprovalStatus = d.Action.Status()
	s.committed++
	return nil
}

func (s *fakeStore) SaveToken(_ context.Context, token *domain.ApprovalToken) error {
	s.token = token
	return nil
}

type fakeMailer struct {
	sent    int
	reasons []string
	failErr error
}

func (m *fakeMailer) SendApprovalEmail(to, name, station string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent++
	return nil
}

func (m *fakeMailer) SendResubmissionEmail(to, name, station, reason string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent++
	m.reasons = append(m.reasons, reason)
	return nil
}

const rawToken = "abc123"

func newTestHandler(store *fakeStore, mailer *fakeMailer) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := approvalsvc.NewService(approvalsvc.Config{}, logger, store, mailer)
	return NewHandler(logger, service)
}

func seedStore() *fakeStore {
	ownerID := uuid.New()
	return &fakeStore{
		owner: &domain.StationOwner{
			ID:             ownerID,
			Email:          "owner@example.com",
			Name:           "Maria Santos",
			StationName:    "Santos Fuel Station",
			ApprovalStatus: domain.StatusPending,
		},
		token: &domain.ApprovalToken{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			TokenHash: approvalsvc.HashToken(rawToken),
			CreatedAt: time.Now(),
		},
	}
}

func doRequest(handler *Handler, token, action, reason string) *httptest.ResponseRecorder {
	query := url.Values{}
	if token != "" {
		query.Set("token", token)
	}
	if action != "" {
		query.Set("action", action)
	}
	if reason != "" {
		query.Set("reason", reason)
	}

	req := httptest.NewRequest(http.MethodGet, "/approval?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	handler.HandleApproval(w, req)
	return w
}

func TestHandleApproval_Approve(t *testing.T) {
	store := seedStore()
	mailer := &fakeMailer{}
	handler := newTestHandler(store, mailer)

	w := doRequest(handler, rawToken, "approve", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want html", ct)
	}
	if !strings.Contains(w.Body.String(), "Approved") {
		t.Error("success page should contain Approved")
	}
	if store.owner.ApprovalStatus != domain.StatusApproved {
		t.Errorf("owner status = %q, want approved", store.owner.ApprovalStatus)
	}
	if !store.token.IsConsumed() || *store.token.Action != domain.ActionApprove {
		t.Error("token should be consumed with action approve")
	}
	if mailer.sent != 1 {
		t.Errorf("sent = %d, want 1", mailer.sent)
	}
}

func TestHandleApproval_Resubmission(t *testing.T) {
	store := seedStore()
	mailer := &fakeMailer{}
	handler := newTestHandler(store, mailer)

	w := doRequest(handler, rawToken, "resubmission", "ID photo blurry")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Resubmission") {
		t.Error("success page should contain Resubmission")
	}
	if len(mailer.reasons) != 1 || mailer.reasons[0] != "ID photo blurry" {
		t.Errorf("reasons = %v, want the provided reason", mailer.reasons)
	}
}

func TestHandleApproval_ActionCaseInsensitive(t *testing.T) {
	store := seedStore()
	handler := newTestHandler(store, &fakeMailer{})

	w := doRequest(handler, rawToken, "APPROVE", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestHandleApproval_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		action string
	}{
		{name: "missing token", token: "", action: "approve"},
		{name: "missing action", token: rawToken, action: ""},
		{name: "bad action", token: rawToken, action: "reject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedStore()
			mailer := &fakeMailer{}
			handler := newTestHandler(store, mailer)

			w := doRequest(handler, tt.token, tt.action, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if mailer.sent != 0 || store.committed != 0 {
				t.Error("invalid input must cause no side effects")
			}
		})
	}
}

func TestHandleApproval_TokenNotFound(t *testing.T) {
	store := seedStore()
	mailer := &fakeMailer{}
	handler := newTestHandler(store, mailer)

	w := doRequest(handler, "unknown-token", "approve", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if mailer.sent != 0 || store.committed != 0 {
		t.Error("unknown token must cause no side effects")
	}
}

func TestHandleApproval_TokenGone(t *testing.T) {
	store := seedStore()
	now := time.Now()
	store.token.ConsumedAt = &now
	handler := newTestHandler(store, &fakeMailer{})

	w := doRequest(handler, rawToken, "approve", "")
	if w.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410", w.Code)
	}
}

func TestHandleApproval_TokenExpired(t *testing.T) {
	store := seedStore()
	expired := time.Now().Add(-time.Hour)
	store.token.ExpiresAt = &expired
	mailer := &fakeMailer{}
	handler := newTestHandler(store, mailer)

	w := doRequest(handler, rawToken, "approve", "")
	if w.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410", w.Code)
	}
	if store.expired != 1 {
		t.Error("expired token should be marked consumed")
	}
	if mailer.sent != 0 {
		t.Error("no email may be sent for an expired token")
	}
}

func TestHandleApproval_OwnerNotPending(t *testing.T) {
	store := seedStore()
	store.owner.ApprovalStatus = domain.StatusApproved
	handler := newTestHandler(store, &fakeMailer{})

	w := doRequest(handler, rawToken, "approve", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleApproval_MailFailure(t *testing.T) {
	store := seedStore()
	mailer := &fakeMailer{failErr: io.ErrUnexpectedEOF}
	handler := newTestHandler(store, mailer)

	w := doRequest(handler, rawToken, "approve", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Status remains pending") {
		t.Errorf("body %q should explain the state was untouched", w.Body.String())
	}
	if store.owner.ApprovalStatus != domain.StatusPending {
		t.Error("owner must stay pending on mail failure")
	}
	if store.token.IsConsumed() {
		t.Error("token must stay unconsumed on mail failure")
	}
}

func TestHandleApproval_SecondClickGone(t *testing.T) {
	store := seedStore()
	handler := newTestHandler(store, &fakeMailer{})

	first := doRequest(handler, rawToken, "approve", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first click status = %d, want 200", first.Code)
	}

	second := doRequest(handler, rawToken, "approve", "")
	if second.Code != http.StatusGone {
		t.Fatalf("second click status = %d, want 410", second.Code)
	}
	if store.committed != 1 {
		t.Errorf("exactly one transition expected, got %d", store.committed)
	}
}
