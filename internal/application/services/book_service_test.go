package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookListFiltersAndPagination(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")
	f.listBook(t, alice.ID, "Hyperion", "Dan Simmons", "sci-fi")
	f.listBook(t, bob.ID, "Emma", "Jane Austen", "romance")

	page, err := f.bookSvc.List(BookFilters{Genre: "sci-fi"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.bookSvc.List(BookFilters{OwnerID: bob.ID})
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Emma", page.Books[0].Title)

	page, err = f.bookSvc.List(BookFilters{Search: "herbert"})
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Dune", page.Books[0].Title)

	page, err = f.bookSvc.List(BookFilters{PageSize: 2, Page: 2, SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Hyperion", page.Books[0].Title)
}

func TestBookSortByTitle(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")

	f.listBook(t, alice.ID, "Zorba", "Nikos Kazantzakis", "fiction")
	f.listBook(t, alice.ID, "Anna Karenina", "Leo Tolstoy", "fiction")

	page, err := f.bookSvc.List(BookFilters{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Books, 2)
	assert.Equal(t, "Anna Karenina", page.Books[0].Title)

	page, err = f.bookSvc.List(BookFilters{SortBy: "title", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "Zorba", page.Books[0].Title)
}

func TestBookCreateValidation(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")

	_, err := f.bookSvc.Create(alice.ID, BookInput{Title: "X", Author: "Y", Genre: "nope", Condition: "good"})
	assert.Error(t, err)

	_, err = f.bookSvc.Create(alice.ID, BookInput{Title: "X", Author: "Y", Genre: "fiction", Condition: "mint"})
	assert.Error(t, err)

	_, err = f.bookSvc.Create(alice.ID, BookInput{Title: " ", Author: "Y", Genre: "fiction", Condition: "good"})
	assert.Error(t, err)
}

func TestBookUpdateOwnerOnly(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	book := f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")

	input := BookInput{Title: "Dune Messiah", Author: "Frank Herbert", Genre: "sci-fi", Condition: "good"}
	_, err := f.bookSvc.Update(bob.ID, book.ID, input)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.bookSvc.Update(alice.ID, book.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)

	err = f.bookSvc.Delete(bob.ID, book.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, f.bookSvc.Delete(alice.ID, book.ID))
}

func TestBookStatusTransitions(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	book := f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")

	updated, err := f.bookSvc.UpdateStatus(alice.ID, book.ID, "reserved")
	require.NoError(t, err)
	assert.Equal(t, "reserved", string(updated.Status))

	_, err = f.bookSvc.UpdateStatus(alice.ID, book.ID, "lost")
	assert.Error(t, err)
}

func TestBookImportSkipsBadRows(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")

	result, err := f.bookSvc.Import(alice.ID, []BookInput{
		{Title: "Dune", Author: "Frank Herbert", Genre: "sci-fi", Condition: "good"},
		{Title: "", Author: "Nobody", Genre: "fiction", Condition: "good"},
		{Title: "Emma", Author: "Jane Austen", Genre: "romance", Condition: "fair"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)

	exported, err := f.bookSvc.Export(alice.ID)
	require.NoError(t, err)
	assert.Len(t, exported, 2)
}

func TestBookCreateNotifiesWishlistMatches(t *testing.T) {
	f := newFixtures(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	_, err := f.wishlistSvc.Add(bob.ID, "Dune", nil)
	require.NoError(t, err)
	_, err = f.wishlistSvc.Add(alice.ID, "Dune", nil) // owner's own wishlist must not fire
	require.NoError(t, err)

	f.listBook(t, alice.ID, "Dune", "Frank Herbert", "sci-fi")

	bobNotes, err := f.notifySvc.ListForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobNotes, 1)
	assert.Equal(t, "wishlist_match", string(bobNotes[0].Type))

	aliceNotes, err := f.notifySvc.ListForUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceNotes)
}
