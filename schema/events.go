package schema

// StreamEvent is one chunk delivered by a streaming response. The concrete
// variants are TextDelta and Completed; consumers use a type switch.
type StreamEvent interface {
	streamEvent()
}

// TextDelta carries incremental message text.
type TextDelta struct {
	Text string
}

// Completed is the final event of a stream. It carries accounting and
// citations but never message text.
type Completed struct {
	Citations    []Citation
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

func (TextDelta) streamEvent() {}
func (Completed) streamEvent() {}
