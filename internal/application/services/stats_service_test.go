package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStats(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	dune := f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")
	f.listBook(t, alice.ID, "Hyperion", "Dan Simmons", "sci-fi")
	_, err := f.bookSvc.UpdateStatus(alice.ID, dune.ID, "exchanged")
	require.NoError(t, err)

	_, err = f.ratingSvc.Create(bob.ID, dune.ID, 4, nil)
	require.NoError(t, err)

	stats, err := f.statsSvc.ForUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.BooksShared)
	assert.Equal(t, 1, stats.BooksExchanged)
	assert.Equal(t, 1, stats.TotalRatings)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.NotEmpty(t, stats.RecentActivity)
}

func TestUserStatsEmpty(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")

	stats, err := f.statsSvc.ForUser(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.BooksShared)
	assert.Zero(t, stats.AverageRating)
	assert.Empty(t, stats.RecentActivity)
}
