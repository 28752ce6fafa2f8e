package filestore

import (
	"sort"
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const notificationsFile = "notifications.json"

type NotificationStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewNotificationStore(store *jsonstore.Store) *NotificationStore {
	return &NotificationStore{store: store}
}

func (r *NotificationStore) load() ([]*exchange.Notification, error) {
	var notifications []*exchange.Notification
	if err := r.store.Read(notificationsFile, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationStore) FindByID(id string) (*exchange.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, n := range notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindByUser returns the user's notifications, newest first.
func (r *NotificationStore) FindByUser(userID string) ([]*exchange.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := r.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*exchange.Notification, 0)
	for _, n := range notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *NotificationStore) Store(notification *exchange.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := r.load()
	if err != nil {
		return err
	}
	notifications = append(notifications, notification)
	return r.store.Write(notificationsFile, notifications)
}

func (r *NotificationStore) Update(notification *exchange.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := r.load()
	if err != nil {
		return err
	}
	for i, n := range notifications {
		if n.ID == notification.ID {
			notifications[i] = notification
			return r.store.Write(notificationsFile, notifications)
		}
	}
	return repositories.ErrNotFound
}

func (r *NotificationStore) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := r.load()
	if err != nil {
		return err
	}
	remaining := notifications[:0]
	for _, n := range notifications {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(notifications) {
		return repositories.ErrNotFound
	}
	return r.store.Write(notificationsFile, remaining)
}
