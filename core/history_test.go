package core

import (
	"fmt"
	"testing"

	"pkt.systems/addschat/schema"
)

func TestHistoryEvictsOldestFirst(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Append(schema.RoleUser, fmt.Sprintf("turn %d", i))
	}
	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"turn 3", "turn 4", "turn 5"}
	for i, entry := range entries {
		if entry.Content != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, entry.Content, want[i])
		}
	}
}

func TestHistoryNeverExceedsCap(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 50; i++ {
		role := schema.RoleUser
		if i%2 == 1 {
			role = schema.RoleAssistant
		}
		h.Append(role, fmt.Sprintf("m%d", i))
		if h.Len() > h.Max() {
			t.Fatalf("history length %d exceeds cap %d", h.Len(), h.Max())
		}
	}
	if got := h.Entries()[0].Content; got != "m46" {
		t.Fatalf("expected oldest kept entry m46, got %q", got)
	}
}

func TestHistoryIgnoresBlank(t *testing.T) {
	h := NewHistory(2)
	if h.Append(schema.RoleUser, "  \n") {
		t.Fatalf("expected blank entry to be ignored")
	}
	if h.Len() != 0 {
		t.Fatalf("expected empty history, got %d", h.Len())
	}
}

func TestHistoryEntriesIsCopy(t *testing.T) {
	h := NewHistory(2)
	h.Append(schema.RoleUser, "hello")
	entries := h.Entries()
	entries[0].Content = "mutated"
	if h.Entries()[0].Content != "hello" {
		t.Fatalf("expected Entries to return a copy")
	}
}

func TestConversationTakeNoteOnce(t *testing.T) {
	conv := NewConversation(4)
	if conv.ID == "" {
		t.Fatalf("expected conversation id")
	}
	if got := conv.TakeNote("hi"); got != "hi" {
		t.Fatalf("expected note on first use, got %q", got)
	}
	if got := conv.TakeNote("hi"); got != "" {
		t.Fatalf("expected note suppressed after first use, got %q", got)
	}
	if !conv.NoteSent() {
		t.Fatalf("expected NoteSent")
	}
}
