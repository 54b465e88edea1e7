package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leofalp/bedrockgate/config"
	"github.com/leofalp/bedrockgate/internal/transport"
	"github.com/leofalp/bedrockgate/providers/family"
	"github.com/leofalp/bedrockgate/providers/family/ai21"
	"github.com/leofalp/bedrockgate/providers/family/anthropic"
	"github.com/leofalp/bedrockgate/providers/family/cohere"
	"github.com/leofalp/bedrockgate/providers/family/titan"
)

const contentTypeJSON = "application/json"

// Client dispatches canonical requests to the managed invocation endpoint.
// Construct with [New]; the zero value is not usable. A Client is safe for
// sequential reuse: no state crosses calls, and each call builds its own
// merged parameter set.
type Client struct {
	invoker         transport.Invoker
	completionModel string
	chatModel       string
	embeddingModel  string
	defaults        family.Params
}

// New returns a Client configured from cfg, talking HTTP to cfg.Endpoint.
// Use the With* methods to override the transport or defaults afterwards.
func New(cfg config.Config) *Client {
	return &Client{
		invoker:         transport.NewHTTPInvoker(cfg.Endpoint, &http.Client{}),
		completionModel: cfg.CompletionModel,
		chatModel:       cfg.ChatModel,
		embeddingModel:  cfg.EmbeddingModel,
		defaults: family.Params{
			MaxTokens:     cfg.Defaults.MaxTokens,
			Temperature:   cfg.Defaults.Temperature,
			TopP:          cfg.Defaults.TopP,
			TopK:          cfg.Defaults.TopK,
			StopSequences: cfg.Defaults.StopSequences,
		},
	}
}

// WithInvoker replaces the transport and returns the client so calls can be
// chained. Useful for injecting test doubles or a signing transport.
func (c *Client) WithInvoker(invoker transport.Invoker) *Client {
	c.invoker = invoker
	return c
}

// WithDefaults replaces the instance-level canonical defaults and returns the
// client so calls can be chained.
func (c *Client) WithDefaults(defaults family.Params) *Client {
	c.defaults = defaults
	return c
}

// Complete sends a single-shot completion for prompt. overrides (may be nil)
// are merged over the instance defaults, caller values winning key-by-key.
// The prompt is wrapped per family convention before being sent.
func (c *Client) Complete(ctx context.Context, prompt string, overrides *family.Params) (*family.Completion, error) {
	params := c.mergedParams(overrides, c.completionModel)

	normalizer, err := c.resolve(params.Model, family.OpCompletion)
	if err != nil {
		return nil, err
	}

	payload, err := normalizer.NormalizeCompletion(params, prompt)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion payload: %w", err)
	}

	raw, err := c.invoker.Invoke(ctx, params.Model, body, contentTypeJSON, contentTypeJSON)
	if err != nil {
		return nil, err
	}

	return normalizer.ParseCompletion(raw)
}

// Chat sends a multi-turn chat request. overrides are merged over the
// instance defaults; Messages must be non-empty.
//
// When onEvent is non-nil the streaming endpoint is used: every stream event
// is forwarded synchronously to onEvent in arrival order and folded into the
// reassembler, and the reassembled message is returned once the stream ends
// cleanly. An abnormal termination discards the partial state and returns an
// error — the caller never receives a silently incomplete response.
//
// When onEvent is nil the single-shot endpoint is used and the response is
// decoded directly.
func (c *Client) Chat(ctx context.Context, overrides family.Params, onEvent func(family.StreamEvent)) (*family.ChatResponse, error) {
	params := c.mergedParams(&overrides, c.chatModel)

	if len(params.Messages) == 0 {
		return nil, &family.InvalidRequestError{Field: "messages", Reason: "must not be empty"}
	}

	normalizer, err := c.resolve(params.Model, family.OpChat)
	if err != nil {
		return nil, err
	}

	payload, err := normalizer.NormalizeChat(params)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat payload: %w", err)
	}

	if onEvent == nil {
		raw, err := c.invoker.Invoke(ctx, params.Model, body, contentTypeJSON, contentTypeJSON)
		if err != nil {
			return nil, err
		}
		var response family.ChatResponse
		if err := json.Unmarshal(raw, &response); err != nil {
			return nil, fmt.Errorf("failed to decode chat response: %w", err)
		}
		return &response, nil
	}

	reassembler := family.NewReassembler()
	err = c.invoker.InvokeStream(ctx, params.Model, body, contentTypeJSON, contentTypeJSON, func(payload []byte) error {
		event, err := family.UnmarshalStreamEvent(payload)
		if err != nil {
			return fmt.Errorf("failed to parse stream event: %w", err)
		}
		// Callback first, then fold: both see events one at a time in the
		// exact arrival order.
		onEvent(*event)
		return reassembler.Fold(*event)
	})
	if err != nil {
		return nil, err
	}

	return reassembler.Finalize()
}

// Embed sends a single-shot embedding request for text.
func (c *Client) Embed(ctx context.Context, text string) (*family.Embedding, error) {
	normalizer, err := c.resolve(c.embeddingModel, family.OpEmbedding)
	if err != nil {
		return nil, err
	}

	payload, err := normalizer.NormalizeEmbedding(text)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding payload: %w", err)
	}

	raw, err := c.invoker.Invoke(ctx, c.embeddingModel, body, contentTypeJSON, contentTypeJSON)
	if err != nil {
		return nil, err
	}

	return normalizer.ParseEmbedding(raw)
}

// mergedParams builds the per-call canonical parameter set: instance defaults
// merged with caller overrides (overrides win), then the operation's
// configured model applied when neither set one.
func (c *Client) mergedParams(overrides *family.Params, configuredModel string) family.Params {
	params := c.defaults
	if overrides != nil {
		params = params.Merge(*overrides)
	}
	if params.Model == "" {
		params.Model = configuredModel
	}
	return params
}

// resolve derives the family from modelID, guards it against the capability
// table for op, and returns the family's normalizer.
func (c *Client) resolve(modelID string, op family.Operation) (family.Normalizer, error) {
	fam, err := family.FromModelID(modelID)
	if err != nil {
		return nil, err
	}
	if !family.Supports(op, fam) {
		return nil, &family.UnsupportedFamilyError{Family: fam, Op: op}
	}

	switch fam {
	case family.FamilyAnthropic:
		return anthropic.New(), nil
	case family.FamilyCohere:
		return cohere.New(), nil
	case family.FamilyAI21:
		return ai21.New(), nil
	case family.FamilyAmazon:
		return titan.New(), nil
	default:
		// FromModelID only returns known families; reaching this means a
		// family was added to the table without a registered wrapper.
		return nil, &family.UnsupportedFamilyError{Family: fam, Op: op}
	}
}
