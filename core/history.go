package core

import (
	"strings"

	"pkt.systems/addschat/schema"
)

// History is the bounded ledger of conversation turns sent as context. When
// the cap is exceeded the oldest turns are evicted first.
type History struct {
	entries []schema.ChatMessage
	max     int
}

// NewHistory returns an empty ledger capped at max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = schema.DefaultHistoryMax
	}
	return &History{max: max}
}

// Append adds a turn and evicts from the front past the cap. Blank content is
// ignored.
func (h *History) Append(role schema.Role, content string) bool {
	if h == nil {
		return false
	}
	if strings.TrimSpace(content) == "" {
		return false
	}
	h.entries = append(h.entries, schema.ChatMessage{Role: role, Content: content})
	if len(h.entries) > h.max {
		h.entries = append([]schema.ChatMessage(nil), h.entries[len(h.entries)-h.max:]...)
	}
	return true
}

// Entries returns a copy of the ledger, oldest first.
func (h *History) Entries() []schema.ChatMessage {
	if h == nil {
		return nil
	}
	return append([]schema.ChatMessage(nil), h.entries...)
}

// Len reports the number of stored turns.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Max reports the cap.
func (h *History) Max() int {
	if h == nil {
		return 0
	}
	return h.max
}
