// Package chat adapts a server-streaming model response into a finite,
// ordered sequence of events that callers consume lazily from a channel.
package chat

import (
	"context"
	"iter"

	"github.com/envdeck/envdeck/internal/metrics"
)

// EventType identifies what a streamed event carries.
type EventType string

const (
	// EventText carries an incremental chunk of response text.
	EventText EventType = "text"
	// EventToolCall carries a structured tool invocation request.
	EventToolCall EventType = "tool_call"
	// EventThought carries model reasoning text, kept separate from
	// response text so callers can render or drop it.
	EventThought EventType = "thought"
	// EventError terminates the stream with a transport or model error.
	EventError EventType = "error"
	// EventDone terminates the stream after a complete response.
	EventDone EventType = "done"
)

// ToolCall is a tool invocation requested by the model mid-stream.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Event is one element of the streamed response. Exactly one of Text,
// ToolCall, or Err is populated, depending on Type; EventDone carries
// nothing.
type Event struct {
	Type     EventType `json:"type"`
	Text     string    `json:"text,omitempty"`
	ToolCall *ToolCall `json:"toolCall,omitempty"`
	Err      error     `json:"-"`
	// Error holds Err's message for serialization.
	Error string `json:"error,omitempty"`
}

// Chunk is one increment produced by a backend before it is mapped onto
// the event taxonomy.
type Chunk struct {
	Text     string
	Thought  bool
	ToolCall *ToolCall
}

// Request describes a single streamed completion.
type Request struct {
	Prompt string
	System string
}

// Backend produces the raw chunk sequence for a request. Yielding an
// error ends the sequence; the consumer maps it to a terminal error
// event rather than surfacing it to the caller directly.
type Backend interface {
	Generate(ctx context.Context, req Request) iter.Seq2[Chunk, error]
}

// Stream runs the request against the backend and returns a channel of
// events. The sequence is finite and ordered: zero or more text, thought,
// and tool-call events followed by exactly one terminal event, either
// EventError or EventDone, after which the channel is closed. Events are
// produced lazily as the backend yields chunks. There is no retry and no
// cancellation primitive beyond the context: cancelling ctx abandons the
// stream and the channel is closed without a terminal event.
func Stream(ctx context.Context, backend Backend, req Request) <-chan Event {
	ch := make(chan Event)

	go func() {
		defer close(ch)
		metrics.ChatStreamsActive.Inc()
		defer metrics.ChatStreamsActive.Dec()

		emit := func(e Event) bool {
			if ctx.Err() != nil {
				return false
			}
			if e.Err != nil {
				e.Error = e.Err.Error()
			}
			select {
			case ch <- e:
				metrics.ChatStreamEvents.WithLabelValues(string(e.Type)).Inc()
				return true
			case <-ctx.Done():
				return false
			}
		}

		for chunk, err := range backend.Generate(ctx, req) {
			if err != nil {
				emit(Event{Type: EventError, Err: err})
				return
			}
			var ok bool
			switch {
			case chunk.ToolCall != nil:
				ok = emit(Event{Type: EventToolCall, ToolCall: chunk.ToolCall})
			case chunk.Thought:
				ok = emit(Event{Type: EventThought, Text: chunk.Text})
			case chunk.Text != "":
				ok = emit(Event{Type: EventText, Text: chunk.Text})
			default:
				ok = true
			}
			if !ok {
				return
			}
		}

		emit(Event{Type: EventDone})
	}()

	return ch
}

// Collect drains a stream into a slice. Intended for callers that do not
// need incremental delivery, such as the CLI.
func Collect(ctx context.Context, backend Backend, req Request) []Event {
	var events []Event
	for e := range Stream(ctx, backend, req) {
		events = append(events, e)
	}
	return events
}
