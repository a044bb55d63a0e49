package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

type stubFlow struct {
	registerFn func(ctx context.Context, email, firstName, lastName, password string) service.RegisterResult
	loginFn    func(ctx context.Context, email, password string) service.LoginResult
	forgotFn   func(ctx context.Context, email string) service.Result
	resetFn    func(ctx context.Context, token, newPassword string) service.Result
	roleFn     func(ctx context.Context, name string) service.Result
}

func (s *stubFlow) Register(ctx context.Context, email, firstName, lastName, password string) service.RegisterResult {
	return s.registerFn(ctx, email, firstName, lastName, password)
}

func (s *stubFlow) Login(ctx context.Context, email, password string) service.LoginResult {
	return s.loginFn(ctx, email, password)
}

func (s *stubFlow) ForgotPassword(ctx context.Context, email string) service.Result {
	return s.forgotFn(ctx, email)
}

func (s *stubFlow) ResetPassword(ctx context.Context, token, newPassword string) service.Result {
	return s.resetFn(ctx, token, newPassword)
}

func (s *stubFlow) CreateRole(ctx context.Context, name string) service.Result {
	return s.roleFn(ctx, name)
}

func newTestApp(flow AuthFlow) *fiber.App {
	app := fiber.New()
	h := NewAuthHandler(flow)
	app.Post("/roles/add", h.CreateRole)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/forgotPassword", h.ForgotPassword)
	app.Post("/resetPassword", h.ResetPassword)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestRegisterEndpointSuccess(t *testing.T) {
	flow := &stubFlow{
		registerFn: func(_ context.Context, email, _, _, _ string) service.RegisterResult {
			if email != "user@test.com" {
				t.Errorf("email = %q", email)
			}
			return service.RegisterResult{
				Result: service.Result{Success: true, Message: "User registered successfully"},
				State:  domain.RegistrationRoleAssigned,
			}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/register", map[string]string{
		"email": "user@test.com", "firstName": "A", "lastName": "B", "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["message"] != "User registered successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if body["state"] != string(domain.RegistrationRoleAssigned) {
		t.Errorf("state = %v", body["state"])
	}
}

func TestRegisterEndpointFailureIs400(t *testing.T) {
	flow := &stubFlow{
		registerFn: func(_ context.Context, _, _, _, _ string) service.RegisterResult {
			return service.RegisterResult{
				Result: service.Result{Code: apperrors.CodeConflict, Message: "User already exists"},
				State:  domain.RegistrationFailed,
			}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/register", map[string]string{
		"email": "user@test.com", "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "User already exists" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestLoginEndpointSuccess(t *testing.T) {
	flow := &stubFlow{
		loginFn: func(_ context.Context, _, _ string) service.LoginResult {
			return service.LoginResult{
				Result:      service.Result{Success: true, Message: "Login Successful"},
				AccessToken: "token-abc",
				Email:       "user@test.com",
				UserID:      "id-1",
			}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/login", map[string]string{
		"email": "user@test.com", "password": "Passw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["accessToken"] != "token-abc" || body["userId"] != "id-1" || body["email"] != "user@test.com" {
		t.Errorf("body = %v", body)
	}
}

func TestLoginEndpointMissingFields(t *testing.T) {
	app := newTestApp(&stubFlow{})

	resp, _ := postJSON(t, app, "/login", map[string]string{"email": "user@test.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestForgotPasswordEndpointDeliveryFailureIs500(t *testing.T) {
	flow := &stubFlow{
		forgotFn: func(_ context.Context, _ string) service.Result {
			return service.Result{
				Code:    apperrors.CodeInternal,
				Message: "An error occurred while processing your request.",
			}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/forgotPassword", map[string]string{"email": "user@test.com"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["message"] != "An error occurred while processing your request." {
		t.Errorf("message = %v", body["message"])
	}
}

func TestForgotPasswordEndpointInvalidEmailIs400(t *testing.T) {
	flow := &stubFlow{
		forgotFn: func(_ context.Context, _ string) service.Result {
			return service.Result{Code: apperrors.CodeInvalidInput, Message: "Invalid email format."}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/forgotPassword", map[string]string{"email": "not-an-email"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "Invalid email format." {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCreateRoleEndpointAlwaysConfirms(t *testing.T) {
	flow := &stubFlow{
		roleFn: func(_ context.Context, name string) service.Result {
			if name != "ADMIN" {
				t.Errorf("role = %q", name)
			}
			return service.Result{Success: true, Message: "role created successfully"}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/roles/add", map[string]string{"role": "ADMIN"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["message"] != "role created successfully" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestResetPasswordEndpoint(t *testing.T) {
	flow := &stubFlow{
		resetFn: func(_ context.Context, token, _ string) service.Result {
			if token != "tok123" {
				t.Errorf("token = %q", token)
			}
			return service.Result{Success: true, Message: "Password has been reset successfully."}
		},
	}
	app := newTestApp(flow)

	resp, body := postJSON(t, app, "/resetPassword", map[string]string{
		"token": "tok123", "newPassword": "NewPassw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["message"] != "Password has been reset successfully." {
		t.Errorf("message = %v", body["message"])
	}
}
