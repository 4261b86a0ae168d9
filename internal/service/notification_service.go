package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/chamados/helpdesk-service/internal/config"
	"github.com/chamados/helpdesk-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Unread indicators are computed on read by TicketService; this service only
// mirrors lifecycle events to the log and the configured stub channels.
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
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketClaimed, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketHidden, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketUnhidden, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleCommentAdded)
}

func (n *NotificationService) handleLifecycleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket lifecycle event",
		zap.String("event_type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("actor_id", event.Actor.AccountID),
		zap.String("actor_role", event.Actor.Role.String()))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket comment added",
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("actor_id", event.Actor.AccountID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
