package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingCreateAndOwnerSummary(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	carol := f.signup(t, "Carol", "carol@example.com")
	book := f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")

	_, err := f.ratingSvc.Create(bob.ID, book.ID, 5, nil)
	require.NoError(t, err)
	comment := "a bit worn"
	_, err = f.ratingSvc.Create(carol.ID, book.ID, 4, &comment)
	require.NoError(t, err)

	summary, err := f.ratingSvc.SummaryForOwner(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	notes, err := f.notifySvc.ListForUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Equal(t, "rating_received", string(notes[0].Type))
}

func TestRatingRejectsDuplicatesAndSelfRating(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	book := f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")

	_, err := f.ratingSvc.Create(alice.ID, book.ID, 5, nil)
	assert.ErrorIs(t, err, ErrOwnBookRating)

	_, err = f.ratingSvc.Create(bob.ID, book.ID, 5, nil)
	require.NoError(t, err)
	_, err = f.ratingSvc.Create(bob.ID, book.ID, 3, nil)
	assert.ErrorIs(t, err, ErrDuplicateRating)

	_, err = f.ratingSvc.Create(bob.ID, book.ID, 6, nil)
	assert.Error(t, err)
}
