// Package store keeps the per-chat transcript in process memory. The log is
// the source of truth for a chat: the UI renders a projection of it and the
// Markdown export reads it back, so messages scrolled out of view are never
// lost to either.
package store

import (
	"sync"

	"agentchat/pkg/domain"
)

// TranscriptLog is an append-only in-memory message log keyed by chat ID.
type TranscriptLog struct {
	mu    sync.RWMutex
	chats map[string][]domain.Message
}

// NewTranscriptLog initializes an empty log.
func NewTranscriptLog() *TranscriptLog {
	return &TranscriptLog{chats: make(map[string][]domain.Message)}
}

// Append adds a message to the end of its chat's log.
func (l *TranscriptLog) Append(msg domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chats[msg.ChatID] = append(l.chats[msg.ChatID], msg)
}

// Messages returns a copy of the chat's log in append order.
func (l *TranscriptLog) Messages(chatID string) []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	msgs := l.chats[chatID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Len reports how many messages a chat holds.
func (l *TranscriptLog) Len(chatID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chats[chatID])
}

// Clear discards a chat's log.
func (l *TranscriptLog) Clear(chatID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.chats, chatID)
}
