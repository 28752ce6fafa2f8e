package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/filestore"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

func newViewerService(t *testing.T, dedup, active time.Duration) (*ViewerService, *filestore.ViewStore) {
	t.Helper()
	store := jsonstore.New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	views := filestore.NewViewStore(store)
	return NewViewerService(views, dedup, active, quietLogger(t)), views
}

func TestRecordViewDedupWindow(t *testing.T) {
	svc, _ := newViewerService(t, 15*time.Minute, 5*time.Minute)

	svc.RecordView("b1", "u1", "Alice", "s1")
	svc.RecordView("b1", "u1", "Alice", "s1") // same session, inside window
	svc.RecordView("b1", "u2", "Bob", "s2")   // different session
	svc.RecordView("b2", "u1", "Alice", "s1") // different book

	total, err := svc.TotalViews("b1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	total, err = svc.TotalViews("b2")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRecordViewOutsideDedupWindow(t *testing.T) {
	svc, _ := newViewerService(t, time.Millisecond, 5*time.Minute)

	svc.RecordView("b1", "u1", "Alice", "s1")
	time.Sleep(5 * time.Millisecond)
	svc.RecordView("b1", "u1", "Alice", "s1")

	total, err := svc.TotalViews("b1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestRecordViewAnonymous(t *testing.T) {
	svc, views := newViewerService(t, 15*time.Minute, 5*time.Minute)

	svc.RecordView("b1", "", "", "s1")

	records, err := views.FindByBook("b1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].UserID)
	assert.Nil(t, records[0].UserName)
}

func TestActiveViewersWindow(t *testing.T) {
	svc, _ := newViewerService(t, 0, 50*time.Millisecond)

	svc.RecordView("b1", "u1", "Alice", "s1")
	svc.RecordView("b1", "", "", "s2")

	recent, err := svc.ActiveViewers("b1")
	require.NoError(t, err)
	assert.Equal(t, 2, recent.Count)
	assert.Equal(t, []string{"Alice"}, recent.Usernames)

	time.Sleep(60 * time.Millisecond)

	recent, err = svc.ActiveViewers("b1")
	require.NoError(t, err)
	assert.Equal(t, 0, recent.Count)
	assert.Empty(t, recent.Usernames)
}

func TestCleanupOldViews(t *testing.T) {
	svc, _ := newViewerService(t, 0, 5*time.Minute)

	svc.RecordView("b1", "u1", "Alice", "s1")
	svc.RecordView("b1", "u2", "Bob", "s2")
	time.Sleep(10 * time.Millisecond)

	deleted, err := svc.CleanupOldViews(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	total, err := svc.TotalViews("b1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestRecordViewRequiresBookAndSession(t *testing.T) {
	svc, _ := newViewerService(t, 15*time.Minute, 5*time.Minute)

	svc.RecordView("", "u1", "Alice", "s1")
	svc.RecordView("b1", "u1", "Alice", "")

	total, err := svc.TotalViews("b1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
