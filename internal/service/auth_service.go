package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/notify"
	"github.com/spec-kit/identity-service/internal/repository"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// Messages returned by the authentication flow. Clients match on these.
const (
	msgEmailLowerCase    = "Email should be in lower case"
	msgUserExists        = "User already exists"
	msgRegisterSuccess   = "User registered successfully"
	msgInvalidLogin      = "Invalid email/password"
	msgLoginSuccess      = "Login Successful"
	msgInvalidEmail      = "Invalid email format."
	msgUserNotFound      = "User does not exists"
	msgResetLinkSent     = "Reset password link sent successfully."
	msgResetDone         = "Password has been reset successfully."
	msgResetTokenInvalid = "Invalid or expired reset token"
	msgServerError       = "An error occurred while processing your request."
	msgRoleCreated       = "role created successfully"
)

const minPasswordLength = 8

// Result is the uniform outcome of a flow operation. Code follows the
// pkg/util taxonomy and drives the HTTP status mapping.
type Result struct {
	Success bool
	Code    string
	Message string
}

// RegisterResult extends Result with the registration state, so a
// partial commit (identity created, role assignment failed) stays
// observable instead of being reported as a plain failure.
type RegisterResult struct {
	Result
	State domain.RegistrationState
}

// LoginResult carries the issued token alongside the outcome.
type LoginResult struct {
	Result
	AccessToken string
	Email       string
	UserID      string
}

// AuthService orchestrates registration, login and password reset
// against the credential store, token issuer and notifier.
type AuthService struct {
	identities repository.IdentityRepository
	roles      repository.RoleRepository
	resets     repository.ResetTokenStore
	notifier   notify.Notifier
	tokens     *auth.TokenIssuer
	dispatcher events.Dispatcher
	logger     *zap.Logger

	bcryptCost    int
	resetTokenLen int
	resetTTL      time.Duration
	resetURLBase  string
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	IdentityRepo    repository.IdentityRepository
	RoleRepo        repository.RoleRepository
	ResetTokenStore repository.ResetTokenStore
	Notifier        notify.Notifier
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities:    deps.IdentityRepo,
		roles:         deps.RoleRepo,
		resets:        deps.ResetTokenStore,
		notifier:      deps.Notifier,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		tokens:        auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:    cfg.Auth.BcryptCost,
		resetTokenLen: cfg.Auth.ResetTokenLength,
		resetTTL:      cfg.Auth.ResetTokenTTL(),
		resetURLBase:  cfg.Mail.ResetURLBase,
	}
}

// Register creates a new identity and assigns the default role.
// Validation order is fixed; the first failing rule wins. If role
// assignment fails the identity remains created (State CREATED).
func (s *AuthService) Register(ctx context.Context, email, firstName, lastName, password string) RegisterResult {
	if strings.ContainsFunc(email, unicode.IsUpper) {
		return registerFailure(apperrors.CodeInvalidInput, msgEmailLowerCase)
	}

	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		return registerFailure(apperrors.CodeConflict, msgUserExists)
	} else if err != pgx.ErrNoRows {
		return registerFailure(apperrors.CodeInternal, err.Error())
	}

	if len(password) < minPasswordLength {
		return registerFailure(apperrors.CodeUpstreamRejected,
			fmt.Sprintf("Create user failed password must be at least %d characters", minPasswordLength))
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return registerFailure(apperrors.CodeUpstreamRejected, fmt.Sprintf("Create user failed %v", err))
	}

	identity := &domain.Identity{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if err == repository.ErrDuplicateEmail {
			// Lost the check-then-create race; the unique index is authoritative.
			return registerFailure(apperrors.CodeConflict, msgUserExists)
		}
		return registerFailure(apperrors.CodeUpstreamRejected, fmt.Sprintf("Create user failed %v", err))
	}

	if err := s.roles.AssignRole(ctx, identity.ID, domain.DefaultRole); err != nil {
		return RegisterResult{
			Result: Result{
				Code:    apperrors.CodeUpstreamRejected,
				Message: fmt.Sprintf("Create user succeeded but could not add user to role %v", err),
			},
			State: domain.RegistrationCreated,
		}
	}

	s.publish(ctx, events.EventIdentityRegistered, identity.ID, events.IdentityRegisteredPayload{
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	})

	return RegisterResult{
		Result: Result{Success: true, Message: msgRegisterSuccess},
		State:  domain.RegistrationRoleAssigned,
	}
}

// Login authenticates by email and password and issues an access token.
// Unknown email and wrong password report the same message.
func (s *AuthService) Login(ctx context.Context, email, password string) LoginResult {
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return loginFailure(apperrors.CodeNotFound, msgInvalidLogin)
		}
		return loginFailure(apperrors.CodeInternal, err.Error())
	}

	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return loginFailure(apperrors.CodeNotFound, msgInvalidLogin)
	}

	roles, err := s.roles.GetRoles(ctx, identity.ID)
	if err != nil {
		return loginFailure(apperrors.CodeInternal, err.Error())
	}

	token, _, err := s.tokens.IssueToken(identity, roles)
	if err != nil {
		return loginFailure(apperrors.CodeInternal, err.Error())
	}

	return LoginResult{
		Result:      Result{Success: true, Message: msgLoginSuccess},
		AccessToken: token,
		Email:       identity.Email,
		UserID:      identity.ID,
	}
}

// ForgotPassword validates the address, persists a fresh opaque token
// and mails a reset link. The notifier call is awaited; its failure
// surfaces as an internal result.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) Result {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return failure(apperrors.CodeInvalidInput, msgInvalidEmail)
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return failure(apperrors.CodeNotFound, msgUserNotFound)
		}
		return failure(apperrors.CodeInternal, err.Error())
	}

	token, err := auth.GenerateToken(s.resetTokenLen)
	if err != nil {
		return failure(apperrors.CodeInternal, msgServerError)
	}

	if err := s.resets.Save(ctx, token, identity.Email, s.resetTTL); err != nil {
		return failure(apperrors.CodeInternal, msgServerError)
	}

	link := s.resetURLBase + "?token=" + url.QueryEscape(token)
	if err := s.notifier.SendEmail(ctx, identity.Email, "Reset Your Password", link); err != nil {
		s.logger.Error("reset email delivery failed", zap.Error(err))
		return failure(apperrors.CodeInternal, msgServerError)
	}

	s.publish(ctx, events.EventPasswordResetRequested, identity.ID, events.PasswordResetRequestedPayload{
		Email: identity.Email,
	})

	return Result{Success: true, Message: msgResetLinkSent}
}

// ResetPassword consumes a previously issued reset token and replaces
// the identity's password. Tokens are single use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) Result {
	if token == "" || newPassword == "" {
		return failure(apperrors.CodeInvalidInput, "token and newPassword required")
	}

	email, err := s.resets.Consume(ctx, token)
	if err != nil {
		if err == repository.ErrTokenNotFound {
			return failure(apperrors.CodeInvalidInput, msgResetTokenInvalid)
		}
		return failure(apperrors.CodeInternal, msgServerError)
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		return failure(apperrors.CodeInternal, msgServerError)
	}

	if len(newPassword) < minPasswordLength {
		return failure(apperrors.CodeInvalidInput,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return failure(apperrors.CodeInternal, msgServerError)
	}

	identity.PasswordHash = hash
	if err := s.identities.Update(ctx, identity); err != nil {
		return failure(apperrors.CodeInternal, msgServerError)
	}

	s.publish(ctx, events.EventPasswordResetCompleted, identity.ID, nil)

	return Result{Success: true, Message: msgResetDone}
}

// CreateRole adds a role. The contract has no failure path; persistence
// errors are logged and the confirmation message is returned regardless.
func (s *AuthService) CreateRole(ctx context.Context, name string) Result {
	role := &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		s.logger.Warn("role creation failed", zap.String("role", name), zap.Error(err))
	} else {
		s.publish(ctx, events.EventRoleCreated, role.ID, events.RoleCreatedPayload{Name: name})
	}
	return Result{Success: true, Message: msgRoleCreated}
}

// TokenIssuer exposes the underlying issuer for middleware usage.
func (s *AuthService) TokenIssuer() *auth.TokenIssuer {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func failure(code, message string) Result {
	return Result{Code: code, Message: message}
}

func registerFailure(code, message string) RegisterResult {
	return RegisterResult{Result: failure(code, message), State: domain.RegistrationFailed}
}

func loginFailure(code, message string) LoginResult {
	return LoginResult{Result: failure(code, message)}
}
