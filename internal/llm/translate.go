package llm

import (
	"github.com/tidwall/gjson"

	"pkt.systems/addschat/internal/usage"
	"pkt.systems/addschat/schema"
)

const (
	eventTextDelta       = "response.output_text.delta"
	eventAnnotationAdded = "response.output_text.annotation.added"
	eventCompleted       = "response.completed"
	eventFailed          = "response.failed"
	eventError           = "error"
)

// translator folds raw Responses stream events into TextDelta and Completed.
// Citations and usage are collected along the way and released together in
// the final Completed event.
type translator struct {
	model     schema.ModelID
	citations []schema.Citation
	seen      map[string]struct{}
	final     schema.Completed
}

func newTranslator(model schema.ModelID) *translator {
	return &translator{model: model, seen: make(map[string]struct{})}
}

// apply inspects one raw event. It returns a TextDelta when the event carries
// text, and an error message for failure events. Other event types are
// absorbed or skipped.
func (t *translator) apply(raw string) (delta schema.StreamEvent, failure string) {
	switch gjson.Get(raw, "type").String() {
	case eventTextDelta:
		text := gjson.Get(raw, "delta").String()
		if text == "" {
			return nil, ""
		}
		return schema.TextDelta{Text: text}, ""
	case eventAnnotationAdded:
		ann := gjson.Get(raw, "annotation")
		if ann.Get("type").String() != "url_citation" {
			return nil, ""
		}
		url := ann.Get("url").String()
		if url == "" {
			return nil, ""
		}
		if _, dup := t.seen[url]; dup {
			return nil, ""
		}
		t.seen[url] = struct{}{}
		t.citations = append(t.citations, schema.Citation{URL: url, Title: ann.Get("title").String()})
	case eventCompleted:
		u := gjson.Get(raw, "response.usage")
		if !u.Exists() {
			return nil, ""
		}
		t.final.InputTokens = u.Get("input_tokens").Int()
		t.final.OutputTokens = u.Get("output_tokens").Int()
		t.final.TotalTokens = u.Get("total_tokens").Int()
		t.final.CostUSD = usage.Cost(t.model, t.final.InputTokens, t.final.OutputTokens)
	case eventFailed:
		msg := gjson.Get(raw, "response.error.message").String()
		if msg == "" {
			msg = "response failed"
		}
		return nil, msg
	case eventError:
		msg := gjson.Get(raw, "message").String()
		if msg == "" {
			msg = "stream error"
		}
		return nil, msg
	}
	return nil, ""
}

func (t *translator) completed() schema.Completed {
	done := t.final
	done.Citations = append([]schema.Citation(nil), t.citations...)
	return done
}
