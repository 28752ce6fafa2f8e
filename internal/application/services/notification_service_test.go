package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
)

func TestNotifyStoresAndPushes(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")

	_, err := f.notifySvc.Notify(alice.ID, "Hello", "welcome aboard", exchange.NotificationBookStatus, nil)
	require.NoError(t, err)

	events := f.broadcaster.events()
	assert.Contains(t, events, realtime.EventNotificationNew)

	count, err := f.notifySvc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkReadAndDeleteAreOwnerScoped(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	note, err := f.notifySvc.Notify(alice.ID, "Hello", "msg", exchange.NotificationBookStatus, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.notifySvc.MarkRead(bob.ID, note.ID), ErrForbidden)
	assert.ErrorIs(t, f.notifySvc.Delete(bob.ID, note.ID), ErrForbidden)

	require.NoError(t, f.notifySvc.MarkRead(alice.ID, note.ID))
	count, err := f.notifySvc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, f.notifySvc.Delete(alice.ID, note.ID))
	notes, err := f.notifySvc.ListForUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestMarkAllRead(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")

	for i := 0; i < 3; i++ {
		_, err := f.notifySvc.Notify(alice.ID, "Hello", "msg", exchange.NotificationBookStatus, nil)
		require.NoError(t, err)
	}

	require.NoError(t, f.notifySvc.MarkAllRead(alice.ID))
	count, err := f.notifySvc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
