package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/interview-trainer/internal/logger"
)

type stubGenerator struct {
	out   string
	err   error
	calls int
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestChainFirstSuccessWins(t *testing.T) {
	failing := &stubGenerator{err: errors.New("503")}
	empty := &stubGenerator{out: "   "}
	working := &stubGenerator{out: "What's your email?"}
	unused := &stubGenerator{out: "never"}

	core, observed := observer.New(zapcore.WarnLevel)
	chain := NewChain(zap.New(core), 0,
		Provider{Name: "first", Generator: failing},
		Provider{Name: "second", Generator: empty},
		Provider{Name: "third", Model: "m", Generator: working},
		Provider{Name: "fourth", Generator: unused},
	)

	out, err := chain.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if out != "What's your email?" {
		t.Fatalf("unexpected output: %q", out)
	}
	if failing.calls != 1 || empty.calls != 1 || working.calls != 1 || unused.calls != 0 {
		t.Fatalf("unexpected call counts: %d %d %d %d", failing.calls, empty.calls, working.calls, unused.calls)
	}

	warnings := observed.FilterMessage("text generation provider failed").All()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].ContextMap()[logger.FieldProvider] != "first" {
		t.Fatalf("expected provider field on warning, got %v", warnings[0].ContextMap())
	}
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(nil, 0,
		Provider{Name: "a", Generator: &stubGenerator{err: errors.New("boom")}},
		Provider{Name: "b", Generator: &stubGenerator{err: errors.New("bang")}},
	)

	_, err := chain.GenerateContent(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") || !strings.Contains(err.Error(), "bang") {
		t.Fatalf("expected provider errors to be joined, got %v", err)
	}
}

func TestEmptyChain(t *testing.T) {
	chain := NewChain(nil, 0, Provider{Name: "nil generator"})
	if chain.Len() != 0 {
		t.Fatalf("expected providers without generator to be skipped")
	}
	if _, err := chain.GenerateContent(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	var nilChain *Chain
	if _, err := nilChain.GenerateContent(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from nil chain, got %v", err)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	gen := &stubGenerator{out: "late"}
	chain := NewChain(nil, 0, Provider{Name: "a", Generator: gen})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := chain.GenerateContent(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator should not be called after cancellation")
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: DefaultReply},
		{name: "only label", raw: "Assistant:   ", want: DefaultReply},
		{name: "first line", raw: "Sure thing!\nUser: hi\nAssistant: more", want: "Sure thing!"},
		{name: "strips label", raw: "ASSISTANT: What's your phone number?", want: "What's your phone number?"},
		{name: "caps length", raw: strings.Repeat("a", 200), want: strings.Repeat("a", DefaultMaxLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.raw, 0); got != tt.want {
				t.Fatalf("CleanResponse(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
