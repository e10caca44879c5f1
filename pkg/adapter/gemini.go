package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
	"google.golang.org/genai"
)

// Gemini answers chat prompts with a Vertex AI Gemini model.
type Gemini struct {
	client          *genai.Client
	generativeModel string
	temperature     *float32
	maxTokens       int32
}

type GeminiOption func(*Gemini)

func WithGenerativeModel(model string) GeminiOption {
	return func(g *Gemini) {
		g.generativeModel = model
	}
}

func WithGeminiTemperature(temperature float32) GeminiOption {
	return func(g *Gemini) {
		g.temperature = genai.Ptr(temperature)
	}
}

func WithGeminiMaxTokens(maxTokens int32) GeminiOption {
	return func(g *Gemini) {
		g.maxTokens = maxTokens
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client",
			goerr.V("project", projectID), goerr.V("location", location))
	}

	g := &Gemini{
		client:          client,
		generativeModel: "gemini-2.5-flash",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Complete sends the prompt as a single user turn, with the system prompt
// as system instruction.
func (g *Gemini) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, g.config(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content", goerr.V("model", g.generativeModel))
	}

	text := resp.Text()
	if text == "" {
		return "", goerr.Wrap(model.ErrInvalidResponse, "gemini returned no text", goerr.V("model", g.generativeModel))
	}
	return text, nil
}

func (g *Gemini) config(prompt model.Prompt) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     g.temperature,
		MaxOutputTokens: g.maxTokens,
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, "")
	}
	return config
}
