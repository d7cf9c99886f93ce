package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/candidates"
	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/storage"
)

func TestDrawQuestionsUsesConfiguredCounts(t *testing.T) {
	qs, err := drawQuestions(&InterviewConfig{Easy: 1, Medium: 0, Hard: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	if qs[0].Difficulty != model.DifficultyEasy || qs[2].Difficulty != model.DifficultyHard {
		t.Fatalf("unexpected order: %+v", qs)
	}

	qs, err = drawQuestions(&InterviewConfig{}, zap.NewNop())
	if err != nil || len(qs) != 6 {
		t.Fatalf("expected default 6 questions, got %d (%v)", len(qs), err)
	}
}

func TestDrawQuestionsFromBankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	bank := `questions:
  - id: 1
    text: What is a goroutine?
    difficulty: easy
    time-limit: 30
    category: Go
    type: concept
`
	if err := os.WriteFile(path, []byte(bank), 0o600); err != nil {
		t.Fatal(err)
	}

	qs, err := drawQuestions(&InterviewConfig{BankFile: path, Easy: 1}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 || qs[0].Category != "Go" {
		t.Fatalf("unexpected questions: %+v", qs)
	}

	if _, err := drawQuestions(&InterviewConfig{BankFile: filepath.Join(t.TempDir(), "missing.yaml")}, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing bank file")
	}
}

func TestNewGeneratorSkipsBrokenProviders(t *testing.T) {
	cfg := &AIConfig{
		Enabled: true,
		Providers: []*ProviderConfig{
			{Name: "mystery", Kind: "oracle"},
			{Name: "no-url", Kind: providerKindInference, APIKey: "token"},
			{Name: "hf", Kind: providerKindInference, URL: "http://127.0.0.1:1/models/x", APIKey: "token"},
		},
	}

	chain := newGenerator(context.Background(), cfg, zap.NewNop())
	if chain.Len() != 1 {
		t.Fatalf("expected one usable provider, got %d", chain.Len())
	}

	if newGenerator(context.Background(), &AIConfig{Enabled: false, Providers: cfg.Providers}, zap.NewNop()) != nil {
		t.Fatal("disabled ai must not build a chain")
	}
}

func TestRedactedHidesInlineSecrets(t *testing.T) {
	cfg := &Config{
		Storage: &StorageConfig{Driver: "postgres", DatabaseURL: "postgres://user:pw@db/x"},
		AI:      &AIConfig{Providers: []*ProviderConfig{{Name: "gemini", APIKey: "secret"}}},
	}

	out, err := json.Marshal(redacted(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "secret") || strings.Contains(string(out), "pw@db") {
		t.Fatalf("secrets leaked: %s", out)
	}
	if cfg.AI.Providers[0].APIKey != "secret" {
		t.Fatal("redaction must not modify the original config")
	}
}

func TestRecordResultAddsUnknownCandidate(t *testing.T) {
	ctx := context.Background()
	reg := candidates.Load(ctx, storage.NewMemoryStore(), zap.NewNop())

	c := model.Candidate{ID: "x", Name: "Jane", Status: model.StatusCompleted}
	if err := recordResult(ctx, reg, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Name = "Jane Doe"
	if err := recordResult(ctx, reg, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := reg.Get("x")
	if err != nil || got.Name != "Jane Doe" {
		t.Fatalf("unexpected candidate: %+v (%v)", got, err)
	}
	if _, err := reg.Get("y"); !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFieldLabel(t *testing.T) {
	if got := fieldLabel("email"); got != "Email" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := fieldLabel(""); got != "You" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), app+" version: ") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
