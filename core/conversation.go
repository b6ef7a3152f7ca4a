package core

import "pkt.systems/addschat/schema"

// Conversation groups the state that a /new command replaces wholesale.
type Conversation struct {
	ID       schema.ConversationID
	History  *History
	noteSent bool
}

// NewConversation starts an empty conversation with a bounded ledger.
func NewConversation(historyMax int) *Conversation {
	return &Conversation{
		ID:      NewConversationID(),
		History: NewHistory(historyMax),
	}
}

// TakeNote returns note the first time it is called with a non-empty note and
// "" afterwards.
func (c *Conversation) TakeNote(note string) string {
	if c == nil || c.noteSent || note == "" {
		return ""
	}
	c.noteSent = true
	return note
}

// NoteSent reports whether the personalization note was already used.
func (c *Conversation) NoteSent() bool {
	return c != nil && c.noteSent
}
