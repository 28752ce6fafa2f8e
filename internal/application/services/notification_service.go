package services

import (
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
)

// NotificationService persists notifications and pushes them to the
// recipient's live connection when one exists.
type NotificationService struct {
	notifications repositories.NotificationRepository
	broadcaster   realtime.Broadcaster
	logger        *logging.ChanneledLogger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repositories.NotificationRepository, broadcaster realtime.Broadcaster, logger *logging.ChanneledLogger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

// Notify stores a notification and pushes it over the live channel. The
// push is best-effort; an offline recipient sees the record on next fetch.
func (n *NotificationService) Notify(userID, title, message string, kind exchange.NotificationType, link *string) (*exchange.Notification, error) {
	notification := &exchange.Notification{
		ID:        security.GenerateULID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.notifications.Store(notification); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	n.broadcaster.SendToUser(userID, realtime.EventNotificationNew, notification)
	n.logger.Messages().Debug("Notification created", "userId", userID, "type", string(kind))
	return notification, nil
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(userID string) ([]*exchange.Notification, error) {
	return n.notifications.FindByUser(userID)
}

// UnreadCount returns the number of unread notifications.
func (n *NotificationService) UnreadCount(userID string) (int, error) {
	notifications, err := n.notifications.FindByUser(userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, notification := range notifications {
		if !notification.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read.
func (n *NotificationService) MarkRead(userID, notificationID string) error {
	notification, err := n.notifications.FindByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return ErrForbidden
	}
	if notification.Read {
		return nil
	}
	notification.Read = true
	return n.notifications.Update(notification)
}

// MarkAllRead marks every unread notification of the user as read.
func (n *NotificationService) MarkAllRead(userID string) error {
	notifications, err := n.notifications.FindByUser(userID)
	if err != nil {
		return err
	}
	for _, notification := range notifications {
		if notification.Read {
			continue
		}
		notification.Read = true
		if err := n.notifications.Update(notification); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one of the user's notifications.
func (n *NotificationService) Delete(userID, notificationID string) error {
	notification, err := n.notifications.FindByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return ErrForbidden
	}
	return n.notifications.Delete(notificationID)
}
