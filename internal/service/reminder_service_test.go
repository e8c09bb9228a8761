package service_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/staffclock/attendance-service/internal/domain"
	"github.com/staffclock/attendance-service/internal/service"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

var reminderPayload = domain.Notification{Title: "Check-in Reminder", Body: "Please check in."}

func newReminder(profiles *fakeProfileRepo, gw *fakeGateway) (*service.ReminderService, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return service.NewReminderService(profiles, gw, reminderPayload, zap.New(core)), logs
}

func TestRunDailyReminder_SendsToPendingWithTokens(t *testing.T) {
	profiles := newFakeProfileRepo(
		domain.Profile{ID: "a", NotificationToken: strPtr("tok-a")},
		domain.Profile{ID: "b", NotificationToken: strPtr("tok-b")},
		domain.Profile{ID: "c"},
		domain.Profile{ID: "d", IsCheckedIn: true, NotificationToken: strPtr("tok-d")},
		domain.Profile{ID: "e", IsCheckedIn: true},
	)
	gw := &fakeGateway{}
	svc, _ := newReminder(profiles, gw)

	outcome, err := svc.RunDailyReminder(context.Background())
	if err != nil {
		t.Fatalf("RunDailyReminder: %v", err)
	}
	if len(gw.calls) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(gw.calls))
	}

	tokens := append([]string(nil), gw.calls[0].tokens...)
	sort.Strings(tokens)
	if len(tokens) != 2 || tokens[0] != "tok-a" || tokens[1] != "tok-b" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
	if gw.calls[0].notification != reminderPayload {
		t.Fatalf("unexpected payload: %+v", gw.calls[0].notification)
	}
	if outcome.Pending != 3 || outcome.Dispatched != 2 || !outcome.Delivered {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestRunDailyReminder_EmptyTokenSkipped(t *testing.T) {
	profiles := newFakeProfileRepo(
		domain.Profile{ID: "a", NotificationToken: strPtr("")},
		domain.Profile{ID: "b", NotificationToken: strPtr("tok-b")},
	)
	gw := &fakeGateway{}
	svc, _ := newReminder(profiles, gw)

	if _, err := svc.RunDailyReminder(context.Background()); err != nil {
		t.Fatalf("RunDailyReminder: %v", err)
	}
	if len(gw.calls) != 1 || len(gw.calls[0].tokens) != 1 || gw.calls[0].tokens[0] != "tok-b" {
		t.Fatalf("unexpected dispatch: %+v", gw.calls)
	}
}

func TestRunDailyReminder_NoTokens(t *testing.T) {
	profiles := newFakeProfileRepo(
		domain.Profile{ID: "a"},
		domain.Profile{ID: "b"},
	)
	gw := &fakeGateway{}
	svc, logs := newReminder(profiles, gw)

	if _, err := svc.RunDailyReminder(context.Background()); err != nil {
		t.Fatalf("RunDailyReminder: %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("expected no dispatch, got %d", len(gw.calls))
	}
	if logs.FilterMessage("no notification tokens among pending staff; nothing to send").Len() != 1 {
		t.Fatal("expected empty token list to be logged")
	}
}

func TestRunDailyReminder_NobodyPending(t *testing.T) {
	profiles := newFakeProfileRepo(
		domain.Profile{ID: "a", IsCheckedIn: true, NotificationToken: strPtr("tok-a")},
	)
	gw := &fakeGateway{}
	svc, logs := newReminder(profiles, gw)

	outcome, err := svc.RunDailyReminder(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(gw.calls) != 0 || outcome.Pending != 0 {
		t.Fatalf("expected no dispatch, got %d calls", len(gw.calls))
	}
	if logs.FilterMessage("no staff pending check-in; nothing to send").Len() != 1 {
		t.Fatal("expected empty result to be logged")
	}
}

func TestRunDailyReminder_GatewayFailureSwallowed(t *testing.T) {
	profiles := newFakeProfileRepo(domain.Profile{ID: "a", NotificationToken: strPtr("tok-a")})
	gw := &fakeGateway{err: errors.New("gateway unavailable")}
	svc, logs := newReminder(profiles, gw)

	outcome, err := svc.RunDailyReminder(context.Background())
	if err != nil {
		t.Fatalf("expected gateway failure to be swallowed, got %v", err)
	}
	if outcome.Delivered {
		t.Fatal("expected outcome to record failed delivery")
	}
	if len(gw.calls) != 1 {
		t.Fatalf("expected one dispatch attempt, got %d", len(gw.calls))
	}
	if logs.FilterMessage("reminder dispatch failed").Len() != 1 {
		t.Fatal("expected dispatch failure to be logged")
	}
}

func TestRunDailyReminder_QueryFailure(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.listErr = errors.New("query timeout")
	gw := &fakeGateway{}
	svc, _ := newReminder(profiles, gw)

	_, err := svc.RunDailyReminder(context.Background())
	if apperrors.KindOf(err) != apperrors.KindInternal {
		t.Fatalf("expected INTERNAL, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatal("expected no dispatch")
	}
}

func TestRunDailyReminder_RepeatedRunsResend(t *testing.T) {
	profiles := newFakeProfileRepo(
		domain.Profile{ID: "a", NotificationToken: strPtr("tok-a")},
		domain.Profile{ID: "b", NotificationToken: strPtr("tok-b")},
	)
	gw := &fakeGateway{}
	svc, _ := newReminder(profiles, gw)

	for i := 0; i < 2; i++ {
		if _, err := svc.RunDailyReminder(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	if len(gw.calls) != 2 {
		t.Fatalf("expected two dispatches, got %d", len(gw.calls))
	}

	first := append([]string(nil), gw.calls[0].tokens...)
	second := append([]string(nil), gw.calls[1].tokens...)
	sort.Strings(first)
	sort.Strings(second)
	if len(first) != len(second) {
		t.Fatalf("expected identical dispatches, got %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical dispatches, got %v and %v", first, second)
		}
	}
}
