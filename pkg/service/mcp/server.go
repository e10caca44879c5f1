package mcp

import (
	"context"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ToolAskProfile        = "ask_profile"
	ToolGetProfileSummary = "get_profile_summary"
)

// Resolver answers a question and reports which responder answered it.
type Resolver interface {
	Resolve(ctx context.Context, text string) *chat.Reply
}

type askParams struct {
	Question string `json:"question" jsonschema:"Question about the person's work, skills, projects or contact details"`
}

// AskResult is the structured output of ask_profile.
type AskResult struct {
	Answer string            `json:"answer"`
	Source model.ReplySource `json:"source"`
}

type summaryParams struct{}

// SummaryResult is the structured output of get_profile_summary.
type SummaryResult struct {
	Summary string `json:"summary"`
}

// NewInput contains parameters for creating a new MCP server
type NewInput struct {
	Resolver Resolver
	KB       *model.KnowledgeBase
	Version  string
}

// NewServer creates an MCP server exposing the profile assistant as tools.
func NewServer(input NewInput) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "portochat",
		Version: input.Version,
	}, nil)

	askSchema, err := jsonschema.For[askParams](nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build ask_profile input schema")
	}
	if prop, ok := askSchema.Properties["question"]; ok {
		minLength := 1
		prop.MinLength = &minLength
	}

	nickname := input.KB.Personal.Nickname
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolAskProfile,
		Description: "Ask " + nickname + "'s portfolio assistant a question about " + nickname + "'s professional profile",
		InputSchema: askSchema,
	}, askHandler(input.Resolver))

	summary := knowledge.Summary(input.KB)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetProfileSummary,
		Description: "Get a compact summary of " + nickname + "'s professional profile",
	}, func(ctx context.Context, req *mcp.CallToolRequest, params *summaryParams) (*mcp.CallToolResult, SummaryResult, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: summary}},
		}, SummaryResult{Summary: summary}, nil
	})

	return server, nil
}

func askHandler(resolver Resolver) func(context.Context, *mcp.CallToolRequest, *askParams) (*mcp.CallToolResult, AskResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, params *askParams) (*mcp.CallToolResult, AskResult, error) {
		question := strings.TrimSpace(params.Question)
		if question == "" {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: "question must not be empty"}},
			}, AskResult{}, nil
		}

		reply := resolver.Resolve(ctx, question)
		logging.From(ctx).Debug("answered via MCP", "source", reply.Source)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: reply.Text}},
		}, AskResult{Answer: reply.Text, Source: reply.Source}, nil
	}
}
