package mcp_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/service/mcp"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	"github.com/m-mizutani/portochat/pkg/usecase/topic"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func connect(t *testing.T) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	kb, err := knowledge.Default()
	gt.NoError(t, err)

	server, err := mcp.NewServer(mcp.NewInput{
		Resolver: chat.New(topic.New(kb), nil),
		KB:       kb,
		Version:  "test",
	})
	gt.NoError(t, err)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	gt.A(t, result.Content).Length(1)
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok)
	return text.Text
}

func TestListTools(t *testing.T) {
	session := connect(t)

	res, err := session.ListTools(context.Background(), nil)
	gt.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	gt.True(t, names[mcp.ToolAskProfile])
	gt.True(t, names[mcp.ToolGetProfileSummary])
}

func TestAskProfile(t *testing.T) {
	session := connect(t)

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolAskProfile,
		Arguments: map[string]any{"question": "tell me about your certificates"},
	})
	gt.NoError(t, err)
	gt.False(t, result.IsError)
	gt.S(t, textOf(t, result)).Contains("Golang certificate")

	structured, ok := result.StructuredContent.(map[string]any)
	gt.True(t, ok)
	gt.Equal(t, structured["source"], any(string(model.ReplySourceKnowledgeBase)))
}

func TestAskProfileRejectsBlankQuestion(t *testing.T) {
	session := connect(t)

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolAskProfile,
		Arguments: map[string]any{"question": "   "},
	})
	gt.NoError(t, err)
	gt.True(t, result.IsError)
}

func TestGetProfileSummary(t *testing.T) {
	session := connect(t)

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolGetProfileSummary,
		Arguments: map[string]any{},
	})
	gt.NoError(t, err)
	gt.S(t, textOf(t, result)).Contains("Zaki's AI assistant")
}
