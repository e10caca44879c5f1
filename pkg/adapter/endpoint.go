package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
)

// DefaultEndpointURL is the hosted chat endpoint the portfolio talks to.
const DefaultEndpointURL = "https://slm-portochat.muhammadfarid-zaki.workers.dev/api/chat"

const maxResponseBytes = 1 << 20

// Endpoint calls an HTTP chat endpoint speaking the portfolio wire format:
// POST {messages, model?, temperature?, max_tokens?} answered by
// {success, response}.
type Endpoint struct {
	url         string
	client      *http.Client
	model       string
	temperature *float64
	maxTokens   *int64
	origin      string
}

type EndpointOption func(*Endpoint)

func WithHTTPClient(client *http.Client) EndpointOption {
	return func(e *Endpoint) {
		e.client = client
	}
}

func WithEndpointModel(model string) EndpointOption {
	return func(e *Endpoint) {
		e.model = model
	}
}

func WithTemperature(temperature float64) EndpointOption {
	return func(e *Endpoint) {
		e.temperature = &temperature
	}
}

func WithMaxTokens(maxTokens int64) EndpointOption {
	return func(e *Endpoint) {
		e.maxTokens = &maxTokens
	}
}

// WithOrigin sets the Origin header, which portochat servers use to decide
// whether the caller runs in a live environment.
func WithOrigin(origin string) EndpointOption {
	return func(e *Endpoint) {
		e.origin = origin
	}
}

func NewEndpoint(url string, opts ...EndpointOption) *Endpoint {
	e := &Endpoint{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Complete sends one request. Non-2xx statuses return
// *model.RequestFailedError; bodies without success and response text return
// model.ErrInvalidResponse. There are no retries.
func (e *Endpoint) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	req := model.ChatRequest{
		Messages:    model.ChatMessages{Text: prompt.User},
		Model:       e.model,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	}
	if prompt.System != "" {
		req.Messages = model.ChatMessages{List: []model.ChatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		}}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create chat request", goerr.V("url", e.url))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.origin != "" {
		httpReq.Header.Set("Origin", e.origin)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return "", goerr.Wrap(err, "failed to send chat request", goerr.V("url", e.url))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read chat response", goerr.V("url", e.url))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", goerr.Wrap(&model.RequestFailedError{Status: resp.StatusCode}, "chat endpoint returned error status",
			goerr.V("url", e.url), goerr.V("body", string(raw)))
	}

	var out model.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", goerr.Wrap(model.ErrInvalidResponse, "chat response is not JSON",
			goerr.V("url", e.url), goerr.V("error", err.Error()))
	}
	if !out.Success || out.Response == "" {
		return "", goerr.Wrap(model.ErrInvalidResponse, "chat response has no answer",
			goerr.V("url", e.url), goerr.V("body", string(raw)))
	}

	return out.Response, nil
}
