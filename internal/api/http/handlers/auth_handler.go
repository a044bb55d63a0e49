package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/service"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// AuthFlow is the slice of the auth service the handler needs.
type AuthFlow interface {
	Register(ctx context.Context, email, firstName, lastName, password string) service.RegisterResult
	Login(ctx context.Context, email, password string) service.LoginResult
	ForgotPassword(ctx context.Context, email string) service.Result
	ResetPassword(ctx context.Context, token, newPassword string) service.Result
	CreateRole(ctx context.Context, name string) service.Result
}

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	flow AuthFlow
}

// NewAuthHandler constructs handler.
func NewAuthHandler(flow AuthFlow) *AuthHandler {
	return &AuthHandler{flow: flow}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result := h.flow.Register(c.UserContext(), req.Email, req.FirstName, req.LastName, req.Password)
	if !result.Success {
		// State distinguishes a clean failure from a partial commit
		// where the identity exists without its default role.
		return c.Status(failureStatus(result.Result)).JSON(fiber.Map{
			"message": result.Message,
			"state":   string(result.State),
		})
	}

	return c.JSON(dto.RegisterResponse{
		Success: true,
		Message: result.Message,
		State:   string(result.State),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result := h.flow.Login(c.UserContext(), req.Email, req.Password)
	if !result.Success {
		return failureResponse(c, result.Result)
	}

	return c.JSON(dto.LoginResponse{
		Success:     true,
		Message:     result.Message,
		AccessToken: result.AccessToken,
		Email:       result.Email,
		UserID:      result.UserID,
	})
}

// ForgotPassword handles POST /forgotPassword.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result := h.flow.ForgotPassword(c.UserContext(), req.Email)
	if !result.Success {
		return failureResponse(c, result)
	}

	return c.JSON(fiber.Map{"message": result.Message})
}

// ResetPassword handles POST /resetPassword.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result := h.flow.ResetPassword(c.UserContext(), req.Token, req.NewPassword)
	if !result.Success {
		return failureResponse(c, result)
	}

	return c.JSON(fiber.Map{"message": result.Message})
}

// CreateRole handles POST /roles/add.
func (h *AuthHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "role required")
	}

	result := h.flow.CreateRole(c.UserContext(), req.Role)
	return c.JSON(fiber.Map{"message": result.Message})
}

// Profile handles GET /profile for an authenticated caller.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(dto.ProfileResponse{
		ID:        principal.Identity.ID,
		Email:     principal.Identity.Email,
		FirstName: principal.Identity.FirstName,
		LastName:  principal.Identity.LastName,
		Roles:     principal.Roles,
	})
}

// failureResponse maps a failed flow result onto the HTTP contract:
// internal failures are 500, everything else 400, body carries the message.
func failureResponse(c *fiber.Ctx, result service.Result) error {
	return c.Status(failureStatus(result)).JSON(fiber.Map{"message": result.Message})
}

func failureStatus(result service.Result) int {
	if result.Code == apperrors.CodeInternal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
