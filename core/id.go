package core

import (
	"github.com/google/uuid"

	"pkt.systems/addschat/schema"
)

// NewConversationID returns a fresh random conversation id.
func NewConversationID() schema.ConversationID {
	return schema.ConversationID(uuid.NewString())
}
