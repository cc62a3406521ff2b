// Package classifier turns free-text captures into validated four-level
// classifications using the vault vocabulary and a local inference provider.
//
// Classification is resilient by construction: a reply that cannot be parsed
// or that names values outside the vocabulary degrades field by field to
// configured defaults. Only an unreachable or timed-out provider surfaces as
// an error, so callers can hold the capture for retry instead of losing it.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/parakeep/parakeep/internal/config"
	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/vault"
)

// Classifier assigns each capture a domain, section, subject, and category.
type Classifier struct {
	provider llm.Provider
	model    string
	defaults config.DefaultsConfig
}

// New creates a Classifier backed by the given provider and model.
func New(provider llm.Provider, model string, defaults config.DefaultsConfig) *Classifier {
	return &Classifier{
		provider: provider,
		model:    model,
		defaults: defaults,
	}
}

// Classify runs one combined inference call over text and validates the reply
// against the hierarchy. It returns an error only when the provider is
// unreachable or times out; every reply, however malformed, yields a usable
// Result.
func (c *Classifier) Classify(ctx context.Context, text string, h vault.Hierarchy) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return c.defaultResult("empty capture cannot be classified", ""), nil
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(text, h),
		MaxTokens:   512,
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	parsed, ok := parseReply(resp.Content)
	if !ok {
		return c.defaultResult("failed to parse model reply", resp.Content), nil
	}

	result := validate(parsed, h, c.defaults)
	result.Raw = resp.Content
	return &result, nil
}

// defaultResult builds an all-default, zero-confidence result. The capture is
// still filed so the user can find and correct it later.
func (c *Classifier) defaultResult(reason, raw string) *Result {
	return &Result{
		Domain:     c.defaults.Domain,
		Section:    c.defaults.Section,
		Subject:    c.defaults.Subject,
		Category:   c.defaults.Category,
		Confidence: 0,
		Reasoning:  reason,
		Raw:        raw,
	}
}
