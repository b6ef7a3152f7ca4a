package core

import (
	"strings"

	"pkt.systems/addschat/schema"
)

// SearchInstruction is added to the system block when web search is requested.
const SearchInstruction = "Use web search to find current information and cite your sources."

// searchTriggers auto-enable web search. Matching is a case-insensitive
// substring test against the raw message, so "update" also matches "updated".
var searchTriggers = []string{
	"latest",
	"today",
	"tonight",
	"yesterday",
	"this week",
	"current",
	"recent",
	"news",
	"update",
	"price",
	"weather",
	"score",
}

// WantsSearch reports whether a message contains any search trigger word.
func WantsSearch(message string) bool {
	lowered := strings.ToLower(message)
	for _, trigger := range searchTriggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}

// PromptInput is everything needed to build one outbound request.
type PromptInput struct {
	Model            schema.ModelID
	SystemPrompt     string
	PresetText       string
	Personalization  string
	RetrievalContext string
	Search           bool
	History          []schema.ChatMessage
	Message          string
}

// BuildRequest assembles the system block, the history and the new user
// message. Search is enabled when requested or when the message contains a
// trigger word.
func BuildRequest(in PromptInput) schema.ChatRequest {
	search := in.Search || WantsSearch(in.Message)
	parts := []string{in.SystemPrompt, in.PresetText, in.Personalization}
	if search {
		parts = append(parts, SearchInstruction)
	}
	parts = append(parts, in.RetrievalContext)

	messages := make([]schema.ChatMessage, 0, len(in.History)+2)
	if system := joinParts(parts); system != "" {
		messages = append(messages, schema.ChatMessage{Role: schema.RoleSystem, Content: system})
	}
	messages = append(messages, in.History...)
	messages = append(messages, schema.ChatMessage{Role: schema.RoleUser, Content: in.Message})
	return schema.ChatRequest{
		Model:     in.Model,
		Messages:  messages,
		WebSearch: search,
	}
}

// PersonalizationNote returns the one-time note that introduces the user.
func PersonalizationNote(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return "The user's name is " + name + ". Greet them by name once."
}

func joinParts(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "\n\n")
}
