package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/trip-planner/internal/config"
	"github.com/spec-kit/trip-planner/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCollaboratorInvited, n.handleCollaboratorInvited)
	n.dispatcher.Subscribe(events.EventCollaboratorAccepted, n.handleCollaboratorAccepted)
	n.dispatcher.Subscribe(events.EventItemAdded, n.handleItemAdded)
	n.dispatcher.Subscribe(events.EventExpenseAdded, n.handleExpenseAdded)
}

func (n *NotificationService) handleCollaboratorInvited(ctx context.Context, event events.Event) error {
	n.logger.Info("CollaboratorInvited", zap.String("itinerary_id", event.ItineraryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCollaboratorAccepted(ctx context.Context, event events.Event) error {
	n.logger.Info("CollaboratorAccepted", zap.String("itinerary_id", event.ItineraryID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleItemAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("ItemAdded", zap.String("itinerary_id", event.ItineraryID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleExpenseAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("ExpenseAdded", zap.String("itinerary_id", event.ItineraryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("itinerary_id", event.ItineraryID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("itinerary_id", event.ItineraryID),
		zap.String("event_type", string(event.Type)))
}
