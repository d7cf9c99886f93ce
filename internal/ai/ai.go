// Package ai wraps optional third-party text generation behind a single
// interface with an ordered provider chain.
package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/logger"
	"github.com/spigell/interview-trainer/internal/utils"
)

// ErrUnavailable means no provider produced usable text.
var ErrUnavailable = errors.New("text generation unavailable")

const (
	// DefaultMaxLength caps a cleaned reply.
	DefaultMaxLength = 150
	// DefaultReply replaces an empty reply.
	DefaultReply = "I understand. Please continue."

	defaultMaxLogLength = 200
)

var rolePrefix = regexp.MustCompile(`(?i)assistant:\s*`)

// Generator produces free text for a prompt. Output is untrusted.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Provider is a named generator in a Chain.
type Provider struct {
	Name      string
	Model     string
	Generator Generator
}

// Chain tries providers in order, once each. The first non-empty reply wins.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
	maxLogLen int
}

func NewChain(log *zap.Logger, maxLogLength int, providers ...Provider) *Chain {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	var usable []Provider
	for _, p := range providers {
		if p.Generator != nil {
			usable = append(usable, p)
		}
	}

	return &Chain{
		providers: usable,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// Len is the number of usable providers.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.providers)
}

func (c *Chain) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.Len() == 0 {
		return "", ErrUnavailable
	}

	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		log := logger.WithFields(c.logger, logger.CommonFields(p.Name, p.Model)...)
		log.Debug("generate content request",
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
		)

		out, err := p.Generator.GenerateContent(ctx, prompt)
		if err == nil && strings.TrimSpace(out) == "" {
			err = errors.New("empty response")
		}
		if err != nil {
			log.Warn("text generation provider failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}

		log.Debug("generate content response",
			zap.Int("response_length", utf8.RuneCountInString(out)),
			zap.String("response_preview", utils.TruncateForLog(out, c.maxLogLen)),
		)
		return out, nil
	}

	return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// CleanResponse keeps the first line of raw, drops role labels and caps the length.
func CleanResponse(raw string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	line, _, _ := strings.Cut(raw, "\n")
	line = strings.TrimSpace(rolePrefix.ReplaceAllString(line, ""))
	if line == "" {
		return DefaultReply
	}

	if utf8.RuneCountInString(line) > maxLen {
		line = strings.TrimSpace(string([]rune(line)[:maxLen]))
	}
	return line
}
