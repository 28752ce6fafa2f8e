package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
)

type fakeSink struct {
	mu       sync.Mutex
	messages [][]byte
	full     bool
}

func (f *fakeSink) deliver(message []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.messages = append(f.messages, message)
	return true
}

func (f *fakeSink) envelopes(t *testing.T) []Envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Envelope, 0, len(f.messages))
	for _, raw := range f.messages {
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		out = append(out, env)
	}
	return out
}

func (f *fakeSink) lastViewers(t *testing.T) (ViewersPayload, bool) {
	t.Helper()
	var payload ViewersPayload
	found := false
	for _, env := range f.envelopes(t) {
		if env.Event == EventBookViewers {
			require.NoError(t, json.Unmarshal(env.Data, &payload))
			found = true
		}
	}
	return payload, found
}

func (f *fakeSink) lastTyping(t *testing.T) (TypingPayload, bool) {
	t.Helper()
	var payload TypingPayload
	found := false
	for _, env := range f.envelopes(t) {
		if env.Event == EventTypingUpdate {
			require.NoError(t, json.Unmarshal(env.Data, &payload))
			found = true
		}
	}
	return payload, found
}

type recordedView struct {
	bookID    string
	userID    string
	userName  string
	sessionID string
}

type fakeRecorder struct {
	mu    sync.Mutex
	views []recordedView
}

func (f *fakeRecorder) RecordView(bookID, userID, userName, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, recordedView{bookID, userID, userName, sessionID})
}

func (f *fakeRecorder) recorded() []recordedView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedView(nil), f.views...)
}

type fakeNames struct{ names map[string]string }

func (f *fakeNames) DisplayName(userID string) (string, bool) {
	name, ok := f.names[userID]
	return name, ok
}

type fakeThreads struct{ participants map[string][]string }

func (f *fakeThreads) CanAccessThread(threadID, userID string) bool {
	for _, id := range f.participants[threadID] {
		if id == userID {
			return true
		}
	}
	return false
}

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError + 4,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

func newTestHub(t *testing.T, names map[string]string, threads map[string][]string) (*Hub, *fakeRecorder) {
	t.Helper()
	recorder := &fakeRecorder{}
	hub := NewHub(recorder, &fakeNames{names: names}, &fakeThreads{participants: threads}, testLogger(t))
	return hub, recorder
}

func TestJoinBookBroadcastsViewerCount(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{"u1": "Alice", "u2": "Bob"}, nil)

	s1, s2 := &fakeSink{}, &fakeSink{}
	hub.Register("c1", "u1", s1)
	hub.Register("c2", "u2", s2)

	hub.JoinBook("c1", "42")
	hub.JoinBook("c2", "42")

	payload, ok := s1.lastViewers(t)
	require.True(t, ok)
	assert.Equal(t, 2, payload.Count)

	assert.Eventually(t, func() bool {
		viewers := hub.ActiveViewers("42")
		return len(viewers.Usernames) == 2
	}, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, hub.ActiveViewers("42").Usernames)
}

func TestAnonymousViewerCountedButUnnamed(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, nil)

	hub.Register("c1", "ghost", &fakeSink{})
	hub.JoinBook("c1", "42")

	viewers := hub.ActiveViewers("42")
	assert.Equal(t, 1, viewers.Count)
	assert.Empty(t, viewers.Usernames)
	assert.NotNil(t, viewers.Usernames)
}

func TestJoinSecondBookVacatesFirst(t *testing.T) {
	hub, recorder := newTestHub(t, map[string]string{}, nil)

	hub.Register("c1", "u1", &fakeSink{})
	hub.JoinBook("c1", "a")
	hub.JoinBook("c1", "b")

	assert.Equal(t, 0, hub.ActiveViewers("a").Count)
	assert.Equal(t, 1, hub.ActiveViewers("b").Count)

	views := recorder.recorded()
	require.Len(t, views, 1)
	assert.Equal(t, "a", views[0].bookID)
	assert.Equal(t, "c1", views[0].sessionID)
}

func TestSameRoomRejoinIsNoOp(t *testing.T) {
	hub, recorder := newTestHub(t, map[string]string{}, nil)

	sink := &fakeSink{}
	hub.Register("c1", "u1", sink)
	hub.JoinBook("c1", "42")
	first := len(sink.envelopes(t))

	hub.JoinBook("c1", "42")

	assert.Equal(t, 1, hub.ActiveViewers("42").Count)
	assert.Empty(t, recorder.recorded())
	assert.Equal(t, first, len(sink.envelopes(t)))
}

func TestLeaveBookRecordsViewAndDecrements(t *testing.T) {
	hub, recorder := newTestHub(t, map[string]string{}, nil)

	s1, s2 := &fakeSink{}, &fakeSink{}
	hub.Register("c1", "u1", s1)
	hub.Register("c2", "u2", s2)
	hub.JoinBook("c1", "42")
	hub.JoinBook("c2", "42")

	hub.LeaveBook("c2", "42")

	assert.Equal(t, 1, hub.ActiveViewers("42").Count)
	payload, ok := s1.lastViewers(t)
	require.True(t, ok)
	assert.Equal(t, 1, payload.Count)

	views := recorder.recorded()
	require.Len(t, views, 1)
	assert.Equal(t, "42", views[0].bookID)
	assert.Equal(t, "u2", views[0].userID)
	assert.Equal(t, "c2", views[0].sessionID)
}

func TestLeaveBookNeverJoinedIsNoOp(t *testing.T) {
	hub, recorder := newTestHub(t, map[string]string{}, nil)

	sink := &fakeSink{}
	hub.Register("c1", "u1", sink)
	hub.LeaveBook("c1", "42")

	assert.Empty(t, recorder.recorded())
	assert.Empty(t, sink.envelopes(t))
}

func TestUnregisterVacatesRoomAndRecordsView(t *testing.T) {
	hub, recorder := newTestHub(t, map[string]string{}, nil)

	s1, s2 := &fakeSink{}, &fakeSink{}
	hub.Register("c1", "u1", s1)
	hub.Register("c2", "u2", s2)
	hub.JoinBook("c1", "42")
	hub.JoinBook("c2", "42")

	hub.Unregister("c2")

	assert.Equal(t, 1, hub.ActiveViewers("42").Count)
	payload, ok := s1.lastViewers(t)
	require.True(t, ok)
	assert.Equal(t, 1, payload.Count)

	views := recorder.recorded()
	require.Len(t, views, 1)
	assert.Equal(t, "u2", views[0].userID)

	// Pushes to the departed user vanish without error.
	hub.SendToUser("u2", EventNotificationNew, map[string]string{"id": "n1"})
}

func TestThreadJoinRequiresParticipation(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, map[string][]string{
		"t1": {"u1"},
	})

	member, outsider := &fakeSink{}, &fakeSink{}
	hub.Register("c1", "u1", member)
	hub.Register("c2", "u2", outsider)

	hub.JoinThread("c1", "t1")
	hub.JoinThread("c2", "t1")

	hub.BroadcastToThread("t1", EventMessageNew, map[string]string{"id": "m1"})

	require.Len(t, member.envelopes(t), 1)
	assert.Equal(t, EventMessageNew, member.envelopes(t)[0].Event)
	assert.Empty(t, outsider.envelopes(t))
}

func TestThreadJoinVacatesBookRoom(t *testing.T) {
	hub, recorder := newTestHub(t, map[string]string{}, map[string][]string{
		"t1": {"u1"},
	})

	hub.Register("c1", "u1", &fakeSink{})
	hub.JoinBook("c1", "42")
	hub.JoinThread("c1", "t1")

	assert.Equal(t, 0, hub.ActiveViewers("42").Count)
	require.Len(t, recorder.recorded(), 1)
	assert.Equal(t, "42", recorder.recorded()[0].bookID)
}

func TestTypingExcludesSenderAndFallsBackToSomeone(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, map[string][]string{
		"t1": {"u1", "u2"},
	})

	sender, peer := &fakeSink{}, &fakeSink{}
	hub.Register("c1", "u1", sender)
	hub.Register("c2", "u2", peer)
	hub.JoinThread("c1", "t1")
	hub.JoinThread("c2", "t1")

	hub.TypingStart("c1", "t1")

	payload, ok := peer.lastTyping(t)
	require.True(t, ok)
	assert.True(t, payload.IsTyping)
	assert.Equal(t, "t1", payload.ThreadID)
	assert.Equal(t, "Someone", payload.UserName)

	_, senderGot := sender.lastTyping(t)
	assert.False(t, senderGot)
}

func TestTypingCarriesResolvedName(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{"u1": "Alice"}, map[string][]string{
		"t1": {"u1", "u2"},
	})

	peer := &fakeSink{}
	hub.Register("c1", "u1", &fakeSink{})
	hub.Register("c2", "u2", peer)
	hub.JoinThread("c1", "t1")
	hub.JoinThread("c2", "t1")

	require.Eventually(t, func() bool {
		hub.TypingStart("c1", "t1")
		payload, ok := peer.lastTyping(t)
		return ok && payload.UserName == "Alice"
	}, time.Second, 10*time.Millisecond)
}

func TestTypingStopOmitsName(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, map[string][]string{
		"t1": {"u1", "u2"},
	})

	peer := &fakeSink{}
	hub.Register("c1", "u1", &fakeSink{})
	hub.Register("c2", "u2", peer)
	hub.JoinThread("c1", "t1")
	hub.JoinThread("c2", "t1")

	hub.TypingStop("c1", "t1")

	payload, ok := peer.lastTyping(t)
	require.True(t, ok)
	assert.False(t, payload.IsTyping)
	assert.Empty(t, payload.UserName)
}

func TestSendToUserReachesLatestConnection(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, nil)

	older, newer := &fakeSink{}, &fakeSink{}
	hub.Register("c1", "u1", older)
	hub.Register("c2", "u1", newer)

	hub.SendToUser("u1", EventNotificationNew, map[string]string{"id": "n1"})

	assert.Empty(t, older.envelopes(t))
	require.Len(t, newer.envelopes(t), 1)
	assert.Equal(t, EventNotificationNew, newer.envelopes(t)[0].Event)
}

func TestSendToOfflineUserIsSilentlyDropped(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, nil)
	assert.NotPanics(t, func() {
		hub.SendToUser("nobody", EventNotificationNew, map[string]string{"id": "n1"})
	})
}

func TestSlowConsumerDoesNotBlockBroadcast(t *testing.T) {
	hub, _ := newTestHub(t, map[string]string{}, nil)

	slow := &fakeSink{full: true}
	healthy := &fakeSink{}
	hub.Register("c1", "u1", slow)
	hub.Register("c2", "u2", healthy)
	hub.JoinBook("c1", "42")
	hub.JoinBook("c2", "42")

	assert.Empty(t, slow.envelopes(t))
	payload, ok := healthy.lastViewers(t)
	require.True(t, ok)
	assert.Equal(t, 2, payload.Count)
}
