package filestore

import (
	"sync"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const viewsFile = "views.json"

type ViewStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewViewStore(store *jsonstore.Store) *ViewStore {
	return &ViewStore{store: store}
}

func (r *ViewStore) load() ([]*exchange.BookView, error) {
	var views []*exchange.BookView
	if err := r.store.Read(viewsFile, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *ViewStore) FindAll() ([]*exchange.BookView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *ViewStore) FindByBook(bookID string) ([]*exchange.BookView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	views, err := r.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*exchange.BookView, 0)
	for _, v := range views {
		if v.BookID == bookID {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (r *ViewStore) Store(view *exchange.BookView) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	views, err := r.load()
	if err != nil {
		return err
	}
	views = append(views, view)
	return r.store.Write(viewsFile, views)
}

func (r *ViewStore) DeleteOlderThan(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	views, err := r.load()
	if err != nil {
		return 0, err
	}
	recent := make([]*exchange.BookView, 0, len(views))
	for _, v := range views {
		if v.Timestamp.After(cutoff) {
			recent = append(recent, v)
		}
	}
	deleted := len(views) - len(recent)
	if deleted == 0 {
		return 0, nil
	}
	if err := r.store.Write(viewsFile, recent); err != nil {
		return 0, err
	}
	return deleted, nil
}
