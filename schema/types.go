package schema

// ModelID identifies an LLM model.
type ModelID string

// PresetName identifies a prompt preset.
type PresetName string

// ConversationID identifies one conversation between /new commands.
type ConversationID string

// Mode is the top-level screen layout.
type Mode int

const (
	// ModeSplash captures the user's name before the chat starts.
	ModeSplash Mode = iota
	// ModeChat shows the transcript, status and input lines.
	ModeChat
)

func (m Mode) String() string {
	switch m {
	case ModeSplash:
		return "splash"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Role is the author of a conversation turn.
type Role string

const (
	// RoleSystem carries instructions.
	RoleSystem Role = "system"
	// RoleUser carries user input.
	RoleUser Role = "user"
	// RoleAssistant carries model output.
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of an outbound request or the history ledger.
type ChatMessage struct {
	Role    Role
	Content string
}

// ChatRequest is the fully assembled outbound request.
type ChatRequest struct {
	Model     ModelID
	Messages  []ChatMessage
	WebSearch bool
}

// Citation references a web source returned alongside an answer.
type Citation struct {
	URL   string
	Title string
}

// String formats the citation as "url - title".
func (c Citation) String() string {
	title := c.Title
	if title == "" {
		title = c.URL
	}
	return c.URL + " - " + title
}
