package filestore

import (
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const (
	messagesFile = "messages.json"
	threadsFile  = "message-threads.json"
)

type MessageStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewMessageStore(store *jsonstore.Store) *MessageStore {
	return &MessageStore{store: store}
}

func (r *MessageStore) load() ([]*exchange.Message, error) {
	var messages []*exchange.Message
	if err := r.store.Read(messagesFile, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageStore) FindMessageByID(id string) (*exchange.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *MessageStore) FindByThread(threadID string) ([]*exchange.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*exchange.Message, 0)
	for _, m := range messages {
		if m.ThreadID == threadID {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (r *MessageStore) FindAll() ([]*exchange.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *MessageStore) Store(message *exchange.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return err
	}
	messages = append(messages, message)
	return r.store.Write(messagesFile, messages)
}

func (r *MessageStore) Update(message *exchange.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load()
	if err != nil {
		return err
	}
	for i, m := range messages {
		if m.ID == message.ID {
			messages[i] = message
			return r.store.Write(messagesFile, messages)
		}
	}
	return repositories.ErrNotFound
}

type ThreadStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewThreadStore(store *jsonstore.Store) *ThreadStore {
	return &ThreadStore{store: store}
}

func (r *ThreadStore) load() ([]*exchange.MessageThread, error) {
	var threads []*exchange.MessageThread
	if err := r.store.Read(threadsFile, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *ThreadStore) FindByID(id string) (*exchange.MessageThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, t := range threads {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ThreadStore) FindAll() ([]*exchange.MessageThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *ThreadStore) FindByUser(userID string) ([]*exchange.MessageThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*exchange.MessageThread, 0)
	for _, t := range threads {
		if t.HasParticipant(userID) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (r *ThreadStore) Store(thread *exchange.MessageThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return err
	}
	threads = append(threads, thread)
	return r.store.Write(threadsFile, threads)
}

func (r *ThreadStore) Update(thread *exchange.MessageThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return err
	}
	for i, t := range threads {
		if t.ID == thread.ID {
			threads[i] = thread
			return r.store.Write(threadsFile, threads)
		}
	}
	return repositories.ErrNotFound
}
