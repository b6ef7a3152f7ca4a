package core

import (
	"strings"
	"testing"

	"pkt.systems/addschat/schema"
)

func TestBuildRequestOrdersSystemParts(t *testing.T) {
	req := BuildRequest(PromptInput{
		Model:            "gpt-4o-mini",
		SystemPrompt:     "base",
		PresetText:       "preset",
		Personalization:  "note",
		RetrievalContext: "[Retrieved context]\n- Widget: A small part.",
		Search:           true,
		History: []schema.ChatMessage{
			{Role: schema.RoleUser, Content: "earlier"},
			{Role: schema.RoleAssistant, Content: "reply"},
		},
		Message: "hello",
	})
	if len(req.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(req.Messages))
	}
	system := req.Messages[0]
	if system.Role != schema.RoleSystem {
		t.Fatalf("expected system message first, got %s", system.Role)
	}
	want := "base\n\npreset\n\nnote\n\n" + SearchInstruction + "\n\n[Retrieved context]\n- Widget: A small part."
	if system.Content != want {
		t.Fatalf("system block = %q, want %q", system.Content, want)
	}
	if req.Messages[1].Content != "earlier" || req.Messages[2].Content != "reply" {
		t.Fatalf("expected history in order, got %+v", req.Messages[1:3])
	}
	last := req.Messages[3]
	if last.Role != schema.RoleUser || last.Content != "hello" {
		t.Fatalf("expected user message last, got %+v", last)
	}
	if !req.WebSearch {
		t.Fatalf("expected web search enabled")
	}
}

func TestBuildRequestDropsEmptyParts(t *testing.T) {
	req := BuildRequest(PromptInput{
		SystemPrompt: "base",
		PresetText:   "   ",
		Message:      "hi there",
	})
	if req.Messages[0].Content != "base" {
		t.Fatalf("expected only base prompt, got %q", req.Messages[0].Content)
	}
	if req.WebSearch {
		t.Fatalf("did not expect search")
	}
}

func TestBuildRequestWithoutSystemBlock(t *testing.T) {
	req := BuildRequest(PromptInput{Message: "hi there"})
	if len(req.Messages) != 1 || req.Messages[0].Role != schema.RoleUser {
		t.Fatalf("expected only the user message, got %+v", req.Messages)
	}
}

func TestBuildRequestAutoEnablesSearch(t *testing.T) {
	req := BuildRequest(PromptInput{SystemPrompt: "base", Message: "What is the LATEST release?"})
	if !req.WebSearch {
		t.Fatalf("expected trigger word to enable search")
	}
	if !strings.Contains(req.Messages[0].Content, SearchInstruction) {
		t.Fatalf("expected search instruction in system block")
	}
}

func TestWantsSearchSubstring(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{message: "any news?", want: true},
		{message: "I updated my notes", want: true},
		{message: "tell me about the widget", want: false},
		{message: "", want: false},
	}
	for _, tc := range tests {
		if got := WantsSearch(tc.message); got != tc.want {
			t.Fatalf("WantsSearch(%q) = %t, want %t", tc.message, got, tc.want)
		}
	}
}

func TestPersonalizationNote(t *testing.T) {
	if got := PersonalizationNote("  "); got != "" {
		t.Fatalf("expected empty note, got %q", got)
	}
	if got := PersonalizationNote("Ada"); !strings.Contains(got, "Ada") {
		t.Fatalf("expected name in note, got %q", got)
	}
}
