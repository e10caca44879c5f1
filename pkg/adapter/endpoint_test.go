package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/portochat/pkg/adapter"
	"github.com/m-mizutani/portochat/pkg/model"
)

func TestEndpointComplete(t *testing.T) {
	var got map[string]any
	var origin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		gt.Equal(t, r.Header.Get("Content-Type"), "application/json")
		origin = r.Header.Get("Origin")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"success": true, "response": "Hi from the model"}`)
	}))
	defer srv.Close()

	ep := adapter.NewEndpoint(srv.URL,
		adapter.WithEndpointModel("tiny"),
		adapter.WithTemperature(0.5),
		adapter.WithMaxTokens(128),
		adapter.WithOrigin("https://example.com"),
	)

	answer, err := ep.Complete(context.Background(), model.Prompt{User: "hello"})
	gt.NoError(t, err)
	gt.Equal(t, answer, "Hi from the model")

	gt.Equal(t, got["messages"], any("hello"))
	gt.Equal(t, got["model"], any("tiny"))
	gt.Equal(t, got["temperature"], any(0.5))
	gt.Equal(t, got["max_tokens"], any(float64(128)))
	gt.Equal(t, origin, "https://example.com")
}

func TestEndpointSystemPrompt(t *testing.T) {
	var got model.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"success": true, "response": "ok"}`)
	}))
	defer srv.Close()

	_, err := adapter.NewEndpoint(srv.URL).Complete(context.Background(), model.Prompt{
		System: "You are an assistant",
		User:   "hello",
	})
	gt.NoError(t, err)

	gt.A(t, got.Messages.List).Length(2)
	gt.Equal(t, got.Messages.List[0], model.ChatMessage{Role: "system", Content: "You are an assistant"})
	gt.Equal(t, got.Messages.LastUser(), "hello")
	gt.Equal(t, got.Model, "")
	gt.True(t, got.Temperature == nil)
}

func TestEndpointFailures(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"success": false}`,
			checkFn: func(t *testing.T, err error) {
				var reqErr *model.RequestFailedError
				gt.True(t, errors.As(err, &reqErr))
				gt.Equal(t, reqErr.Status, http.StatusInternalServerError)
				gt.S(t, reqErr.Error()).Contains("API request failed: 500")
			},
		},
		{
			name:   "success flag missing",
			status: http.StatusOK,
			body:   `{"response": "hello"}`,
			checkFn: func(t *testing.T, err error) {
				gt.True(t, errors.Is(err, model.ErrInvalidResponse))
			},
		},
		{
			name:   "empty response",
			status: http.StatusOK,
			body:   `{"success": true, "response": ""}`,
			checkFn: func(t *testing.T, err error) {
				gt.True(t, errors.Is(err, model.ErrInvalidResponse))
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			checkFn: func(t *testing.T, err error) {
				gt.True(t, errors.Is(err, model.ErrInvalidResponse))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			_, err := adapter.NewEndpoint(srv.URL).Complete(context.Background(), model.Prompt{User: "hello"})
			gt.Error(t, err)
			tc.checkFn(t, err)

			// no retries
			gt.Equal(t, calls.Load(), int32(1))
		})
	}
}

func TestEndpointNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := adapter.NewEndpoint(url).Complete(context.Background(), model.Prompt{User: "hello"})
	gt.Error(t, err)
}
