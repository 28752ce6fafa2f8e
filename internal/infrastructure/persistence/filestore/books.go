package filestore

import (
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const booksFile = "books.json"

type BookStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewBookStore(store *jsonstore.Store) *BookStore {
	return &BookStore{store: store}
}

func (r *BookStore) load() ([]*exchange.Book, error) {
	var books []*exchange.Book
	if err := r.store.Read(booksFile, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookStore) FindByID(id string) (*exchange.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *BookStore) FindAll() ([]*exchange.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *BookStore) Store(book *exchange.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.load()
	if err != nil {
		return err
	}
	books = append(books, book)
	return r.store.Write(booksFile, books)
}

func (r *BookStore) Update(book *exchange.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.load()
	if err != nil {
		return err
	}
	for i, b := range books {
		if b.ID == book.ID {
			books[i] = book
			return r.store.Write(booksFile, books)
		}
	}
	return repositories.ErrNotFound
}

func (r *BookStore) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.load()
	if err != nil {
		return err
	}
	remaining := books[:0]
	for _, b := range books {
		if b.ID != id {
			remaining = append(remaining, b)
		}
	}
	if len(remaining) == len(books) {
		return repositories.ErrNotFound
	}
	return r.store.Write(booksFile, remaining)
}
