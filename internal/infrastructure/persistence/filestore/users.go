// Package filestore provides flat-JSON-file implementations of the exchange
// repositories. Every operation reads the whole collection and, for writes,
// rewrites it; a per-repository mutex keeps read-modify-write cycles atomic.
package filestore

import (
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const usersFile = "users.json"

type UserStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewUserStore(store *jsonstore.Store) *UserStore {
	return &UserStore{store: store}
}

func (r *UserStore) load() ([]*exchange.User, error) {
	var users []*exchange.User
	if err := r.store.Read(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserStore) FindByID(id string) (*exchange.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserStore) FindByEmail(email string) (*exchange.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserStore) Store(user *exchange.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	users = append(users, user)
	return r.store.Write(usersFile, users)
}

func (r *UserStore) Update(user *exchange.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == user.ID {
			users[i] = user
			return r.store.Write(usersFile, users)
		}
	}
	return repositories.ErrNotFound
}
