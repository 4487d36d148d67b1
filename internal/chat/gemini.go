package chat

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// GeminiBackend streams completions from the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend builds a backend for the given API key and model.
// An empty model selects DefaultModel.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini backend requires an API key")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Generate streams the model response, yielding one chunk per content
// part. Transport errors end the sequence with the error.
func (b *GeminiBackend) Generate(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		var config *genai.GenerateContentConfig
		if req.System != "" {
			config = &genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
			}
		}

		contents := genai.Text(req.Prompt)
		for resp, err := range b.client.Models.GenerateContentStream(ctx, b.model, contents, config) {
			if err != nil {
				yield(Chunk{}, err)
				return
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					var chunk Chunk
					switch {
					case part.FunctionCall != nil:
						chunk = Chunk{ToolCall: &ToolCall{
							Name: part.FunctionCall.Name,
							Args: part.FunctionCall.Args,
						}}
					case part.Text != "":
						chunk = Chunk{Text: part.Text, Thought: part.Thought}
					default:
						continue
					}
					if !yield(chunk, nil) {
						return
					}
				}
			}
		}
	}
}
