package memory

import (
	"context"
	"strconv"
)

// SummarizeOptions carries the decoding knobs the source's seq2seq
// summarizer exposed (beam search width, length penalty, min/max output
// length). No Go seq2seq/beam-search library exists anywhere in the
// example pack, so these are passed through as prompt/config parameters
// to an LLM-backed summarizer instead of a literal decoding loop.
type SummarizeOptions struct {
	MinLength     int
	MaxLength     int
	NumBeams      int
	LengthPenalty float64
}

// DefaultSummarizeOptions mirrors the source's bart-large-cnn call site.
func DefaultSummarizeOptions(minLength, maxLength int) SummarizeOptions {
	return SummarizeOptions{
		MinLength:     minLength,
		MaxLength:     maxLength,
		NumBeams:      4,
		LengthPenalty: 1.0,
	}
}

// Summarizer condenses a block of text to roughly fit within opts.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummarizeOptions) (string, error)
}

// LLMSummarizer asks a chat-completion backend to produce a condensed
// version of the text, grounded on the teacher's pkg/memory/summarizer.go
// pattern of delegating summarization to the configured LLM provider
// rather than a dedicated extractive model.
type LLMSummarizer struct {
	respond func(ctx context.Context, prompt string) (string, error)
}

// NewLLMSummarizer wraps a single-shot responder function. Callers
// typically supply a closure over an llms.Provider's Respond method.
func NewLLMSummarizer(respond func(ctx context.Context, prompt string) (string, error)) *LLMSummarizer {
	return &LLMSummarizer{respond: respond}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, text string, opts SummarizeOptions) (string, error) {
	if len(text) < opts.MinLength*3/2 {
		return text, nil
	}
	prompt := buildSummarizePrompt(text, opts)
	out, err := s.respond(ctx, prompt)
	if err != nil {
		return "", err
	}
	if out == "" {
		return text, nil
	}
	return out, nil
}

func buildSummarizePrompt(text string, opts SummarizeOptions) string {
	return "Summarize the following text in between " +
		strconv.Itoa(opts.MinLength) + " and " + strconv.Itoa(opts.MaxLength) +
		" characters, preserving the key facts:\n\n" + text
}
