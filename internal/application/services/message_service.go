package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
)

// MessageService handles threads and messages between exchange partners,
// pushing live updates into the thread room as they happen.
type MessageService struct {
	messages      repositories.MessageRepository
	threads       repositories.ThreadRepository
	users         repositories.UserRepository
	books         repositories.BookRepository
	notifications *NotificationService
	broadcaster   realtime.Broadcaster
	logger        *logging.ChanneledLogger
}

// NewMessageService creates a new message service
func NewMessageService(messages repositories.MessageRepository, threads repositories.ThreadRepository, users repositories.UserRepository, books repositories.BookRepository, notifications *NotificationService, broadcaster realtime.Broadcaster, logger *logging.ChanneledLogger) *MessageService {
	return &MessageService{
		messages:      messages,
		threads:       threads,
		users:         users,
		books:         books,
		notifications: notifications,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

// ReadReceipt is pushed to the thread room when a participant catches up.
type ReadReceipt struct {
	ThreadID string `json:"threadId"`
	UserID   string `json:"userId"`
}

// OpenThread returns the existing thread between two users about a book,
// or creates it. Threads are deduplicated by participant pair plus book.
func (m *MessageService) OpenThread(userID, otherUserID string, bookID *string) (*exchange.MessageThread, error) {
	if userID == otherUserID {
		return nil, fmt.Errorf("%w: cannot open a thread with yourself", ErrValidation)
	}

	threads, err := m.threads.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load threads: %w", err)
	}
	for _, thread := range threads {
		if thread.HasParticipant(otherUserID) && sameThreadBook(thread, bookID) {
			m.decorate(thread, userID)
			return thread, nil
		}
	}

	self, err := m.users.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	other, err := m.users.FindByID(otherUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	now := time.Now().UTC()
	thread := &exchange.MessageThread{
		ID: security.GenerateULID(),
		Participants: []exchange.ThreadParticipant{
			{ID: self.ID, Name: self.Name},
			{ID: other.ID, Name: other.Name},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if bookID != nil && *bookID != "" {
		book, err := m.books.FindByID(*bookID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve book: %w", err)
		}
		thread.Book = &exchange.ThreadBook{ID: book.ID, Title: book.Title}
	}

	if err := m.threads.Store(thread); err != nil {
		return nil, fmt.Errorf("failed to store thread: %w", err)
	}
	m.logger.Messages().Info("Thread opened", "threadId", thread.ID)
	return thread, nil
}

// ThreadsForUser lists the user's threads, most recently active first,
// each decorated with its last message and the user's unread count.
func (m *MessageService) ThreadsForUser(userID string) ([]*exchange.MessageThread, error) {
	threads, err := m.threads.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, thread := range threads {
		m.decorate(thread, userID)
	}
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].UpdatedAt.After(threads[j].UpdatedAt)
	})
	return threads, nil
}

// Thread returns one thread the user participates in.
func (m *MessageService) Thread(userID, threadID string) (*exchange.MessageThread, error) {
	thread, err := m.threads.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	m.decorate(thread, userID)
	return thread, nil
}

// MessagesForThread returns a thread's messages, oldest first.
func (m *MessageService) MessagesForThread(userID, threadID string) ([]*exchange.Message, error) {
	thread, err := m.threads.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	messages, err := m.messages.FindByThread(threadID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// Send appends a message to a thread. The thread room sees it immediately;
// the recipient also gets a persisted notification.
func (m *MessageService) Send(userID, threadID, content string) (*exchange.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	thread, err := m.threads.FindByID(threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	message := &exchange.Message{
		ID:        security.GenerateULID(),
		ThreadID:  thread.ID,
		SenderID:  userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.messages.Store(message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	thread.UpdatedAt = message.CreatedAt
	if err := m.threads.Update(thread); err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}
	thread.LastMessage = message

	m.broadcaster.BroadcastToThread(thread.ID, realtime.EventMessageNew, message)
	m.broadcaster.BroadcastToThread(thread.ID, realtime.EventThreadUpdate, thread)

	if other := thread.OtherParticipant(userID); other != nil {
		sender := "Someone"
		if self := thread.OtherParticipant(other.ID); self != nil {
			sender = self.Name
		}
		link := "/messages/" + thread.ID
		if _, err := m.notifications.Notify(
			other.ID,
			"New message",
			fmt.Sprintf("%s sent you a message", sender),
			exchange.NotificationMessageReceived,
			&link,
		); err != nil {
			m.logger.Messages().Error("Failed to notify recipient", "threadId", thread.ID, "error", err)
		}
	}

	return message, nil
}

// MarkThreadRead marks every message from the other participant as read
// and pushes a read receipt into the thread room.
func (m *MessageService) MarkThreadRead(userID, threadID string) error {
	thread, err := m.threads.FindByID(threadID)
	if err != nil {
		return err
	}
	if !thread.HasParticipant(userID) {
		return ErrNotParticipant
	}

	messages, err := m.messages.FindByThread(threadID)
	if err != nil {
		return err
	}
	changed := false
	for _, message := range messages {
		if message.SenderID == userID || message.Read {
			continue
		}
		message.Read = true
		if err := m.messages.Update(message); err != nil {
			return fmt.Errorf("failed to mark message read: %w", err)
		}
		changed = true
	}

	if changed {
		m.broadcaster.BroadcastToThread(threadID, realtime.EventMessageRead, ReadReceipt{
			ThreadID: threadID,
			UserID:   userID,
		})
	}
	return nil
}

// UnreadTotal counts unread messages addressed to the user across all
// their threads.
func (m *MessageService) UnreadTotal(userID string) (int, error) {
	threads, err := m.threads.FindByUser(userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, thread := range threads {
		count, err := m.unreadCount(thread.ID, userID)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// CanAccessThread reports whether the user participates in the thread. It
// backs the live channel's room gate.
func (m *MessageService) CanAccessThread(threadID, userID string) bool {
	thread, err := m.threads.FindByID(threadID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			m.logger.Messages().Error("Thread access check failed", "threadId", threadID, "error", err)
		}
		return false
	}
	return thread.HasParticipant(userID)
}

// decorate fills the computed fields a stored thread does not carry.
func (m *MessageService) decorate(thread *exchange.MessageThread, userID string) {
	messages, err := m.messages.FindByThread(thread.ID)
	if err != nil {
		m.logger.Messages().Error("Failed to load thread messages", "threadId", thread.ID, "error", err)
		return
	}
	thread.LastMessage = nil
	thread.UnreadCount = 0
	for _, message := range messages {
		if thread.LastMessage == nil || message.CreatedAt.After(thread.LastMessage.CreatedAt) {
			thread.LastMessage = message
		}
		if message.SenderID != userID && !message.Read {
			thread.UnreadCount++
		}
	}
}

func (m *MessageService) unreadCount(threadID, userID string) (int, error) {
	messages, err := m.messages.FindByThread(threadID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, message := range messages {
		if message.SenderID != userID && !message.Read {
			count++
		}
	}
	return count, nil
}

func sameThreadBook(thread *exchange.MessageThread, bookID *string) bool {
	switch {
	case thread.Book == nil:
		return bookID == nil || *bookID == ""
	case bookID == nil:
		return false
	default:
		return thread.Book.ID == *bookID
	}
}
