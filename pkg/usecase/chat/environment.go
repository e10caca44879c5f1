package chat

import (
	"context"
	"net/url"
	"strings"
)

// Environment is where the widget is hosted, as seen from its page origin.
type Environment struct {
	Scheme string
	Host   string
}

// LiveEnvironment is a regular server-hosted page.
var LiveEnvironment = Environment{Scheme: "http", Host: "localhost"}

// EnvironmentFromOrigin parses a page origin such as "https://example.com".
// The opaque origin "null" sent by file:// pages maps to the file scheme.
func EnvironmentFromOrigin(origin string) Environment {
	origin = strings.TrimSpace(origin)
	if origin == "null" {
		return Environment{Scheme: "file"}
	}

	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" {
		return Environment{Scheme: "file"}
	}
	return Environment{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Hostname()),
	}
}

// IsStatic reports whether the page is served from a file or a static host
// that cannot reach the chat backend.
func (e Environment) IsStatic() bool {
	if e.Scheme == "file" {
		return true
	}
	return e.Host == "github.io" || strings.HasSuffix(e.Host, ".github.io")
}

func (e Environment) String() string {
	if e.Host == "" {
		return e.Scheme + "://"
	}
	return e.Scheme + "://" + e.Host
}

type environmentKey struct{}

// WithEnvironment attaches the caller's environment to ctx.
func WithEnvironment(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, environmentKey{}, env)
}

// EnvironmentFrom returns the environment attached to ctx.
func EnvironmentFrom(ctx context.Context) (Environment, bool) {
	env, ok := ctx.Value(environmentKey{}).(Environment)
	return env, ok
}
