package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/events"
)

// NotificationService records identity lifecycle events for audit-style
// logging. Reset-link delivery itself happens inline in the auth flow;
// these handlers only observe.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIdentityRegistered, n.handleIdentityRegistered)
	n.dispatcher.Subscribe(events.EventRoleCreated, n.handleRoleCreated)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handlePasswordResetCompleted)
}

func (n *NotificationService) handleIdentityRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("IdentityRegistered", zap.String("identity_id", event.Subject), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleRoleCreated(_ context.Context, event events.Event) error {
	n.logger.Info("RoleCreated", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	n.logger.Info("PasswordResetRequested", zap.String("identity_id", event.Subject))
	return nil
}

func (n *NotificationService) handlePasswordResetCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("PasswordResetCompleted", zap.String("identity_id", event.Subject))
	return nil
}
