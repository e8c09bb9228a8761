package repository

import (
	"testing"
	"time"

	"github.com/staffclock/attendance-service/internal/domain"
)

func TestProfileDocumentRoundTrip(t *testing.T) {
	token := "device-1"
	seen := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	in := &domain.Profile{
		Email:             "a@example.com",
		DisplayName:       "Ann",
		EmployeeID:        "E-1",
		Position:          "Nurse",
		Role:              domain.RoleStaff,
		AccountEnabled:    true,
		NotificationToken: &token,
		LastSeen:          &seen,
	}

	doc := newProfileDocument("uid-1", in)
	if doc.ID != "uid-1" || doc.Role != "staff" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	out := doc.toDomain()
	if out.ID != "uid-1" {
		t.Fatalf("expected id uid-1, got %s", out.ID)
	}
	if out.Role != domain.RoleStaff || !out.AccountEnabled || out.IsCheckedIn {
		t.Fatalf("unexpected flags: %+v", out)
	}
	if !out.HasNotificationToken() || *out.NotificationToken != token {
		t.Fatalf("expected notification token %q", token)
	}
	if out.LastSeen == nil || !out.LastSeen.Equal(seen) {
		t.Fatalf("expected last seen %v, got %v", seen, out.LastSeen)
	}
}
