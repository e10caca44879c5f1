package chat_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	"github.com/m-mizutani/portochat/pkg/usecase/topic"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
)

type mockBackend struct {
	completeFn func(ctx context.Context, prompt model.Prompt) (string, error)
	calls      int
}

func (m *mockBackend) Complete(ctx context.Context, prompt model.Prompt) (string, error) {
	m.calls++
	return m.completeFn(ctx, prompt)
}

func newTopic(t *testing.T) *topic.Responder {
	t.Helper()
	kb, err := knowledge.Default()
	gt.NoError(t, err)
	return topic.New(kb)
}

func TestEnvironmentFromOrigin(t *testing.T) {
	testCases := []struct {
		origin string
		static bool
	}{
		{"https://zaki.dev", false},
		{"http://localhost:8080", false},
		{"https://zetakai.github.io", true},
		{"https://GitHub.io", true},
		{"https://notgithub.io", false},
		{"null", true},
		{"file:///home/zaki/index.html", true},
		{"", true},
	}

	for _, tc := range testCases {
		t.Run(tc.origin, func(t *testing.T) {
			gt.Equal(t, chat.EnvironmentFromOrigin(tc.origin).IsStatic(), tc.static)
		})
	}
}

func TestRemoteResponderStaticMakesNoCall(t *testing.T) {
	backend := &mockBackend{completeFn: func(ctx context.Context, prompt model.Prompt) (string, error) {
		return "should not be called", nil
	}}
	remote := chat.NewRemoteResponder(backend)

	ctx := chat.WithEnvironment(context.Background(), chat.Environment{Scheme: "file"})
	_, err := remote.Fetch(ctx, "hello")
	gt.True(t, errors.Is(err, model.ErrEnvironmentUnavailable))
	gt.Equal(t, backend.calls, 0)

	static := chat.NewRemoteResponder(backend, chat.WithDefaultEnvironment(chat.EnvironmentFromOrigin("https://zetakai.github.io")))
	_, err = static.Fetch(context.Background(), "hello")
	gt.True(t, errors.Is(err, model.ErrEnvironmentUnavailable))
	gt.Equal(t, backend.calls, 0)
}

func TestRemoteResponderSendsSystemPrompt(t *testing.T) {
	var got model.Prompt
	backend := &mockBackend{completeFn: func(ctx context.Context, prompt model.Prompt) (string, error) {
		got = prompt
		return "remote answer", nil
	}}

	remote := chat.NewRemoteResponder(backend, chat.WithSystemPrompt("You are an assistant"))
	answer, err := remote.Fetch(context.Background(), "hello")
	gt.NoError(t, err)
	gt.Equal(t, answer, "remote answer")
	gt.Equal(t, got, model.Prompt{System: "You are an assistant", User: "hello"})
}

func TestOrchestratorRemoteSuccess(t *testing.T) {
	backend := &mockBackend{completeFn: func(ctx context.Context, prompt model.Prompt) (string, error) {
		return "remote answer", nil
	}}
	o := chat.New(newTopic(t), chat.NewRemoteResponder(backend))

	reply := o.Resolve(context.Background(), "hello")
	gt.Equal(t, reply.Text, "remote answer")
	gt.Equal(t, reply.Source, model.ReplySourceRemote)
}

func TestOrchestratorStaticEnvironmentAppendsNote(t *testing.T) {
	backend := &mockBackend{completeFn: func(ctx context.Context, prompt model.Prompt) (string, error) {
		return "should not be called", nil
	}}
	local := newTopic(t)
	o := chat.New(local, chat.NewRemoteResponder(backend))

	ctx := chat.WithEnvironment(context.Background(), chat.Environment{Scheme: "file"})
	question := "tell me about your certificates"

	reply := o.Resolve(ctx, question)
	gt.Equal(t, reply.Text, local.Respond(question)+chat.StaticNote)
	gt.Equal(t, reply.Source, model.ReplySourceKnowledgeBaseStatic)
	gt.Equal(t, backend.calls, 0)
}

func TestOrchestratorFallsBackSilently(t *testing.T) {
	failures := map[string]error{
		"network":  errors.New("dial tcp: connection refused"),
		"status":   &model.RequestFailedError{Status: 502},
		"invalid":  model.ErrInvalidResponse,
		"canceled": context.Canceled,
	}

	for name, failure := range failures {
		t.Run(name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			ctx := logging.With(context.Background(), logging.New("warn", buf))

			backend := &mockBackend{completeFn: func(ctx context.Context, prompt model.Prompt) (string, error) {
				return "", failure
			}}
			local := newTopic(t)
			o := chat.New(local, chat.NewRemoteResponder(backend))

			question := "tell me about your certificates"
			reply := o.Resolve(ctx, question)
			gt.Equal(t, reply.Text, local.Respond(question))
			gt.Equal(t, reply.Source, model.ReplySourceKnowledgeBase)
			gt.S(t, reply.Text).NotContains("Note:")

			// operators still see the failure
			gt.S(t, buf.String()).Contains("remote chat failed")
		})
	}
}

func TestGetResponseNeverEmpty(t *testing.T) {
	backend := &mockBackend{completeFn: func(ctx context.Context, prompt model.Prompt) (string, error) {
		return "", errors.New("boom")
	}}
	o := chat.New(newTopic(t), chat.NewRemoteResponder(backend))

	for _, q := range []string{"hello", "What is the meaning of life?", "weather?", "x"} {
		gt.NotEqual(t, o.GetResponse(context.Background(), q), "")
	}
}

func TestOrchestratorWithoutRemote(t *testing.T) {
	local := newTopic(t)
	o := chat.New(local, nil)

	reply := o.Resolve(context.Background(), "What's your experience?")
	gt.Equal(t, reply.Text, local.Respond("What's your experience?"))
	gt.Equal(t, reply.Source, model.ReplySourceKnowledgeBase)
}

func TestRespondReportsCancellation(t *testing.T) {
	o := chat.New(newTopic(t), nil)

	answer, err := o.Respond(context.Background(), "hello")
	gt.NoError(t, err)
	gt.S(t, answer).Contains("AI assistant")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.Respond(ctx, "hello")
	gt.True(t, errors.Is(err, context.Canceled))
}
