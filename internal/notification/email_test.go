package notification

import (
	"strings"
	"testing"
)

func TestRenderApproval(t *testing.T) {
	subject, body, err := renderApproval("Maria Santos", "Santos Fuel Station")
	if err != nil {
		t.Fatalf("renderApproval failed: %v", err)
	}

	if !strings.Contains(subject, "APPROVED") {
		t.Errorf("subject %q should contain APPROVED", subject)
	}
	if !strings.Contains(body, "Maria Santos") {
		t.Error("body should contain the owner name")
	}
	if !strings.Contains(body, "Santos Fuel Station") {
		t.Error("body should contain the station name")
	}
	if !strings.Contains(body, "APPROVED") {
		t.Error("body should contain the APPROVED status")
	}
}

func TestRenderResubmission(t *testing.T) {
	subject, body, err := renderResubmission("Maria Santos", "Santos Fuel Station", "ID photo blurry")
	if err != nil {
		t.Fatalf("renderResubmission failed: %v", err)
	}

	if !strings.Contains(subject, "Document Review Required") {
		t.Errorf("subject %q should contain the review notice", subject)
	}
	if !strings.Contains(body, "ID photo blurry") {
		t.Error("body should contain the reason text")
	}
}

func TestRenderResubmission_NoReason(t *testing.T) {
	_, body, err := renderResubmission("Maria Santos", "Santos Fuel Station", "")
	if err != nil {
		t.Fatalf("renderResubmission failed: %v", err)
	}

	if strings.Contains(body, "Reason:") {
		t.Error("body should omit the reason block when no reason is given")
	}
}

func TestRenderResubmission_EscapesReason(t *testing.T) {
	_, body, err := renderResubmission("Maria", "Station", `<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("renderResubmission failed: %v", err)
	}

	if strings.Contains(body, "<script>") {
		t.Error("reason text must be HTML-escaped")
	}
}
