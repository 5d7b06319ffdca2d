// Package llms provides the stateless text-generation contract used by every
// agent: respond(history) -> text, routed to a named backend (openai, ollama,
// test, ...) and normalized to the error taxonomy of spec section 7.
package llms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

// Message is one turn of conversation history passed to a Provider.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// Kind classifies a Provider failure. It mirrors spec section 7's taxonomy of
// kinds, not concrete Go types.
type Kind int

const (
	// KindNone marks a non-error.
	KindNone Kind = iota
	// KindConfiguration is a fatal construction-time error (unknown backend, missing key).
	KindConfiguration
	// KindTransientProvider is surfaced in-band as a "try again later" message.
	KindTransientProvider
	// KindConnection is surfaced in-band as a "server offline" message.
	KindConnection
	// KindUserInterrupt maps to the REQUEST_EXIT sentinel.
	KindUserInterrupt
	// KindUnexpected is raised to the caller; the session survives.
	KindUnexpected
)

// RequestExit is the sentinel returned for a user-cancelled generation.
const RequestExit = "REQUEST_EXIT"

// ProviderError wraps a classified provider failure.
type ProviderError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider is the contract every LLM backend implements.
type Provider interface {
	// Respond generates a reply for the given history. Errors are either a
	// *ProviderError with Kind KindUnexpected (propagate) or nil, with
	// transient/connection/interrupt conditions already folded into the
	// returned string per spec section 7.
	Respond(ctx context.Context, history []Message) (string, error)

	GetModelName() string
	GetMaxTokens() int
	GetTemperature() float64
	IsLocal() bool
	Close() error
}

// unsafeProviders mirrors original_source/llm_provider.py's unsafe_providers
// list: backends whose requests leave the local machine.
var unsafeProviders = map[string]bool{
	"openai":     true,
	"deepseek":   true,
	"together":   true,
	"google":     true,
	"openrouter": true,
}

// WarnIfUnsafe logs a warning when a cloud provider is configured without
// is_local, matching the construction-time warning in the original source.
func WarnIfUnsafe(providerType string, isLocal bool) {
	if unsafeProviders[strings.ToLower(providerType)] && !isLocal {
		slog.Warn("using a cloud API provider, data will be sent off-machine", "provider", providerType)
	}
}

// ClassifyError maps a raw backend error to a Kind and, where applicable, the
// in-band message that should be returned instead of propagating — exactly
// the substring-matching rules of the original provider.respond.
func ClassifyError(providerName, serverAddress string, err error) (Kind, string) {
	if err == nil {
		return KindNone, ""
	}
	if errors.Is(err, context.Canceled) {
		return KindUserInterrupt, RequestExit
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "try again later"):
		return KindTransientProvider, fmt.Sprintf("%s server is overloaded. Please try again later.", providerName)
	case strings.Contains(msg, "refused"):
		return KindConnection, fmt.Sprintf("Server %s seems offline. Unable to answer.", serverAddress)
	default:
		return KindUnexpected, ""
	}
}

// CheckReachable dials addr with a short timeout, the Go analogue of
// original_source/llm_provider.py's is_ip_online ping check — a TCP dial
// instead of shelling out to ping, since nothing in this module's corpus
// invokes external processes for connectivity checks.
func CheckReachable(ctx context.Context, addr string) bool {
	if addr == "" {
		return false
	}
	if strings.Contains(addr, "127.0.0.1") || strings.Contains(addr, "localhost") {
		return true
	}
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
