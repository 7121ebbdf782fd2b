package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-eco/ecopledge-service/internal/config"
	"github.com/campus-eco/ecopledge-service/internal/events"
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
	n.dispatcher.Subscribe(events.EventPledgeSubmitted, n.handlePledgeSubmitted)
	n.dispatcher.Subscribe(events.EventRedemptionVerified, n.handleRedemptionVerified)
	n.dispatcher.Subscribe(events.EventDonationVerified, n.handleDonationVerified)
	n.dispatcher.Subscribe(events.EventPromoClaimed, n.handlePromoClaimed)
}

func (n *NotificationService) handlePledgeSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("PledgeSubmitted", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRedemptionVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("RedemptionVerified", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDonationVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("DonationVerified", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePromoClaimed(ctx context.Context, event events.Event) error {
	n.logger.Info("PromoClaimed", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

// sendEmailNotificationStub stands in for a real mail integration.
func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("user_id", event.UserID),
		zap.String("type", string(event.Type)),
	)
}

// sendWebhookNotificationStub stands in for a real webhook integration.
func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if n.cfg.WebhookURL == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("type", string(event.Type)),
	)
}
