package family

import (
	"encoding/json"
	"fmt"
	"strings"
)

/*
	STREAMING - EVENT TYPES

	Streaming invocations deliver a sequence of small events, each tagged by a
	"type" discriminator. Lifecycle for a chat message:

	  message_start → content_block_start → content_block_delta(s) →
	  content_block_stop → message_delta → message_stop

	Events are consumed strictly in arrival order; the layer never re-orders
	or deduplicates them. Correctness depends on endpoint-guaranteed ordering.
*/

// StreamEvent is the envelope for one unit of a streamed response. The Type
// field discriminates which optional fields are populated.
type StreamEvent struct {
	Type         string        `json:"type"`
	Message      *ChatResponse `json:"message,omitempty"`       // For "message_start"
	Index        int           `json:"index,omitempty"`         // For content_block_start/delta/stop
	ContentBlock *ContentBlock `json:"content_block,omitempty"` // For "content_block_start"
	Delta        *EventDelta   `json:"delta,omitempty"`         // For "content_block_delta" and "message_delta"
	Usage        *Usage        `json:"usage,omitempty"`         // For "message_delta"
}

// EventDelta carries the incremental payload of a delta event. Its own Type
// field discriminates a second time:
//   - "text_delta": Text is populated
//   - "input_json_delta": PartialJSON carries a fragment of a JSON document
//   - (absent, on message_delta): StopReason / StopSequence are populated
type EventDelta struct {
	Type         string `json:"type,omitempty"`
	Text         string `json:"text,omitempty"`
	PartialJSON  string `json:"partial_json,omitempty"`
	StopReason   string `json:"stop_reason,omitempty"`
	StopSequence string `json:"stop_sequence,omitempty"`
}

// UnmarshalStreamEvent parses one raw streamed payload into a StreamEvent.
// Returns an error if the JSON is invalid or the type discriminator is missing.
func UnmarshalStreamEvent(payload []byte) (*StreamEvent, error) {
	var event StreamEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if event.Type == "" {
		return nil, fmt.Errorf("missing type field in stream event")
	}
	return &event, nil
}

// Reassembler folds an ordered sequence of stream events into one
// [ChatResponse]. It is a pure state accumulator: call [Reassembler.Fold] for
// every event in arrival order, then [Reassembler.Finalize] exactly once after
// the sequence ends. It holds no lock because a single logical stream is never
// consumed concurrently.
//
// Partial JSON fragments for tool-use blocks are concatenated per block index
// and parsed only at finalization, so an argument document split across many
// events never goes through an intermediate invalid-JSON state.
type Reassembler struct {
	message ChatResponse
	partial map[int]*strings.Builder
	done    bool
}

// NewReassembler returns a Reassembler ready to fold the first event.
func NewReassembler() *Reassembler {
	return &Reassembler{
		partial: map[int]*strings.Builder{},
	}
}

// Fold applies one event to the accumulating message. Events must be supplied
// strictly in arrival order; no event is revisited. Unknown event kinds are
// skipped without error so that future event types do not abort reassembly.
//
// A content_block_delta referencing an index never announced by a
// content_block_start lazily materializes the block (grow-on-demand) rather
// than failing; the block type is then inferred from the delta kind.
func (r *Reassembler) Fold(event StreamEvent) error {
	if r.done {
		return fmt.Errorf("reassembler already finalized")
	}

	switch event.Type {

	case "message_start":
		// The embedded message replaces the entire accumulated state:
		// role, model, id, initial usage counters, empty content list.
		if event.Message != nil {
			r.message = *event.Message
		}
		if r.message.Content == nil {
			r.message.Content = []ContentBlock{}
		}

	case "content_block_start":
		r.growContent(event.Index)
		if event.ContentBlock != nil {
			r.message.Content[event.Index] = *event.ContentBlock
		}
		// Tool-use blocks stream their input as JSON fragments; seed an empty
		// placeholder so a block that receives no fragments still finalizes
		// to an empty object.
		if r.message.Content[event.Index].Type == "tool_use" {
			r.ensurePartial(event.Index)
		}

	case "content_block_delta":
		if event.Delta == nil {
			return nil
		}
		r.growContent(event.Index)

		switch event.Delta.Type {
		case "text_delta":
			block := &r.message.Content[event.Index]
			if block.Type == "" {
				block.Type = "text"
			}
			block.Text += event.Delta.Text

		case "input_json_delta":
			block := &r.message.Content[event.Index]
			if block.Type == "" {
				block.Type = "tool_use"
			}
			r.ensurePartial(event.Index).WriteString(event.Delta.PartialJSON)
		}
		// Unknown delta kinds are skipped, same as unknown event kinds.

	case "message_delta":
		// Shallow merge of top-level fields; usage counters accumulate
		// rather than overwrite so counts spread across several deltas
		// are preserved.
		if event.Delta != nil {
			if event.Delta.StopReason != "" {
				r.message.StopReason = event.Delta.StopReason
			}
			if event.Delta.StopSequence != "" {
				r.message.StopSequence = event.Delta.StopSequence
			}
		}
		if event.Usage != nil {
			r.message.Usage.merge(*event.Usage)
		}

	default:
		// content_block_stop, message_stop, ping, and any future event kind:
		// nothing to fold.
	}

	return nil
}

// Finalize parses the accumulated JSON fragments, freezes the message, and
// returns it. An empty fragment set for a block yields an empty object; a
// non-empty set that is not a valid JSON document yields a
// *MalformedStreamError. After Finalize returns, further Fold calls fail.
func (r *Reassembler) Finalize() (*ChatResponse, error) {
	if r.done {
		return nil, fmt.Errorf("reassembler already finalized")
	}
	r.done = true

	for index, builder := range r.partial {
		fragment := builder.String()
		if fragment == "" {
			r.message.Content[index].Input = json.RawMessage(`{}`)
			continue
		}

		var input json.RawMessage
		if err := json.Unmarshal([]byte(fragment), &input); err != nil {
			return nil, &MalformedStreamError{Index: index, Err: err}
		}
		r.message.Content[index].Input = input
	}

	if r.message.Content == nil {
		r.message.Content = []ContentBlock{}
	}

	return &r.message, nil
}

// growContent extends the content list so that index is addressable, seeding
// any intermediate entries as empty blocks.
func (r *Reassembler) growContent(index int) {
	for len(r.message.Content) <= index {
		r.message.Content = append(r.message.Content, ContentBlock{})
	}
}

// ensurePartial returns the fragment accumulator for index, creating it on
// first use.
func (r *Reassembler) ensurePartial(index int) *strings.Builder {
	builder, ok := r.partial[index]
	if !ok {
		builder = &strings.Builder{}
		r.partial[index] = builder
	}
	return builder
}
