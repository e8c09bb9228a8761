package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/staffclock/attendance-service/internal/api/http"
	"github.com/staffclock/attendance-service/internal/api/http/handlers"
	"github.com/staffclock/attendance-service/internal/auth"
	"github.com/staffclock/attendance-service/internal/observability"
	"github.com/staffclock/attendance-service/internal/service"
	apperrors "github.com/staffclock/attendance-service/pkg/util/errorutil"
)

type stubProvisioner struct {
	callerID string
	input    service.ProvisionInput
	err      error
}

func (s *stubProvisioner) Provision(_ context.Context, callerID string, in service.ProvisionInput) (*service.ProvisionResult, error) {
	s.callerID = callerID
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &service.ProvisionResult{IdentityID: "new-uid", Message: "Successfully created user: " + in.DisplayName}, nil
}

type stubAuthenticator struct{}

func (stubAuthenticator) Login(_ context.Context, email, password string) (string, time.Time, error) {
	if email == "admin@example.com" && password == "password123" {
		return "token-1", time.Now().Add(time.Hour), nil
	}
	return "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T, provisioner *stubProvisioner) (*fiber.App, *auth.TokenManager, *observability.Metrics) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", 5)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("attendance-service", "test", nil, metrics),
		Auth:           handlers.NewAuthHandler(stubAuthenticator{}),
		Staff:          handlers.NewStaffHandler(provisioner),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return app, tokens, metrics
}

func postJSON(t *testing.T, app *fiber.App, path, body, bearer string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

const staffBody = `{"email":"s@example.com","password":"pw","displayName":"Sam","employeeId":"E-1","position":"Clerk","role":"admin"}`

func TestCreateStaff_Success(t *testing.T) {
	provisioner := &stubProvisioner{}
	app, tokens, _ := newTestApp(t, provisioner)
	token, _, err := tokens.GenerateToken("admin-uid", "admin@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	status, body := postJSON(t, app, "/staff", staffBody, token)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	var resp struct {
		Data struct {
			UID     string `json:"uid"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.UID != "new-uid" || !strings.Contains(resp.Data.Message, "Sam") {
		t.Fatalf("unexpected response: %s", body)
	}
	if provisioner.callerID != "admin-uid" {
		t.Fatalf("expected caller id from token, got %q", provisioner.callerID)
	}
	if provisioner.input.EmployeeID != "E-1" || provisioner.input.Position != "Clerk" {
		t.Fatalf("unexpected input: %+v", provisioner.input)
	}
}

func TestCreateStaff_Unauthenticated(t *testing.T) {
	tests := []struct {
		name   string
		bearer string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provisioner := &stubProvisioner{}
			app, _, _ := newTestApp(t, provisioner)

			status, body := postJSON(t, app, "/staff", staffBody, tc.bearer)
			if status != fiber.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", status)
			}
			var env errorEnvelope
			if err := json.Unmarshal(body, &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != string(apperrors.KindUnauthenticated) {
				t.Fatalf("expected UNAUTHENTICATED, got %s", env.Error.Code)
			}
			if provisioner.callerID != "" {
				t.Fatal("provisioner must not be invoked")
			}
		})
	}
}

func TestCreateStaff_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   apperrors.Kind
	}{
		{"permission denied", apperrors.NewPermissionDenied("no"), fiber.StatusForbidden, apperrors.KindPermissionDenied},
		{"invalid argument", apperrors.NewInvalidArgument("missing", nil), fiber.StatusBadRequest, apperrors.KindInvalidArgument},
		{"already exists", apperrors.NewAlreadyExists("taken"), fiber.StatusConflict, apperrors.KindAlreadyExists},
		{"internal", apperrors.NewInternalError(errors.New("pg: connection refused")), fiber.StatusInternalServerError, apperrors.KindInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, tokens, metrics := newTestApp(t, &stubProvisioner{err: tc.err})
			token, _, _ := tokens.GenerateToken("admin-uid", "")

			status, body := postJSON(t, app, "/staff", staffBody, token)
			if status != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, status)
			}
			var env errorEnvelope
			if err := json.Unmarshal(body, &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != string(tc.code) {
				t.Fatalf("expected %s, got %s", tc.code, env.Error.Code)
			}
			if strings.Contains(string(body), "connection refused") {
				t.Fatalf("internal detail leaked: %s", body)
			}
			if metrics.Snapshot().Errors["/staff|POST|"+string(tc.code)] != 1 {
				t.Fatal("expected error to be counted")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	app, _, _ := newTestApp(t, &stubProvisioner{})

	status, body := postJSON(t, app, "/auth/login", `{"email":"admin@example.com","password":"password123"}`, "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), "token-1") {
		t.Fatalf("expected token in body: %s", body)
	}

	status, _ = postJSON(t, app, "/auth/login", `{"email":"admin@example.com","password":"bad"}`, "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}

	status, _ = postJSON(t, app, "/auth/login", `{"email":""}`, "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app, _, _ := newTestApp(t, &stubProvisioner{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected ready with no dependencies, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/nope", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
