package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
)

func TestOpenThreadDeduplicates(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	book := f.listBook(t, bob.ID, "Dune", "Frank Herbert", "sci-fi")

	first, err := f.messageSvc.OpenThread(alice.ID, bob.ID, &book.ID)
	require.NoError(t, err)

	second, err := f.messageSvc.OpenThread(alice.ID, bob.ID, &book.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different subject opens a different thread.
	general, err := f.messageSvc.OpenThread(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, general.ID)

	_, err = f.messageSvc.OpenThread(alice.ID, alice.ID, nil)
	assert.Error(t, err)
}

func TestSendMessagePushesAndNotifies(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	thread, err := f.messageSvc.OpenThread(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	message, err := f.messageSvc.Send(alice.ID, thread.ID, "Still available?")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, message.SenderID)

	events := f.broadcaster.events()
	assert.Contains(t, events, realtime.EventMessageNew)
	assert.Contains(t, events, realtime.EventThreadUpdate)
	assert.Contains(t, events, realtime.EventNotificationNew)

	notes, err := f.notifySvc.ListForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "message_received", string(notes[0].Type))
	assert.Contains(t, notes[0].Message, "Alice")
}

func TestSendRequiresParticipation(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	eve := f.signup(t, "Eve", "eve@example.com")

	thread, err := f.messageSvc.OpenThread(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	_, err = f.messageSvc.Send(eve.ID, thread.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.messageSvc.Send(alice.ID, thread.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.messageSvc.MessagesForThread(eve.ID, thread.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestThreadListUnreadCountsAndMarkRead(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	thread, err := f.messageSvc.OpenThread(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	_, err = f.messageSvc.Send(alice.ID, thread.ID, "first")
	require.NoError(t, err)
	_, err = f.messageSvc.Send(alice.ID, thread.ID, "second")
	require.NoError(t, err)

	bobThreads, err := f.messageSvc.ThreadsForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobThreads, 1)
	assert.Equal(t, 2, bobThreads[0].UnreadCount)
	require.NotNil(t, bobThreads[0].LastMessage)
	assert.Equal(t, "second", bobThreads[0].LastMessage.Content)

	total, err := f.messageSvc.UnreadTotal(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, f.messageSvc.MarkThreadRead(bob.ID, thread.ID))
	assert.Contains(t, f.broadcaster.events(), realtime.EventMessageRead)

	total, err = f.messageSvc.UnreadTotal(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	// The sender's own messages never count as unread for them.
	aliceTotal, err := f.messageSvc.UnreadTotal(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, aliceTotal)
}

func TestCanAccessThread(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	eve := f.signup(t, "Eve", "eve@example.com")

	thread, err := f.messageSvc.OpenThread(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	assert.True(t, f.messageSvc.CanAccessThread(thread.ID, alice.ID))
	assert.False(t, f.messageSvc.CanAccessThread(thread.ID, eve.ID))
	assert.False(t, f.messageSvc.CanAccessThread("missing", alice.ID))
}
