package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/ai"
	"github.com/spigell/interview-trainer/internal/ai/gemini"
	"github.com/spigell/interview-trainer/internal/ai/inference"
	"github.com/spigell/interview-trainer/internal/candidates"
	"github.com/spigell/interview-trainer/internal/interview"
	"github.com/spigell/interview-trainer/internal/logger"
	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/questions"
	"github.com/spigell/interview-trainer/internal/secrets"
	"github.com/spigell/interview-trainer/internal/storage"
)

const (
	providerKindGemini    = "gemini"
	providerKindInference = "inference"
)

// env is what every command that touches persisted state starts from.
type env struct {
	config     *Config
	logger     *zap.Logger
	store      storage.Store
	candidates *candidates.Registry
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing storage", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// setup builds the logger, config, store and registry. Bootstrap failures are fatal.
func setup(ctx context.Context) *env {
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := openStore(ctx, config.Storage, config.Storage.Migrate, l)
	if err != nil {
		l.Fatal("opening storage", zap.Error(err),
			zap.String("hint", "check storage.driver and storage.database-url-file in the configuration file"),
		)
	}

	return &env{
		config:     config,
		logger:     l,
		store:      store,
		candidates: candidates.Load(ctx, store, l),
	}
}

func (e *env) machine(ctx context.Context) *interview.Machine {
	return interview.New(ctx, interview.NewStoreRepository(e.store), e.logger)
}

func openStore(ctx context.Context, cfg *StorageConfig, migrate bool, l *zap.Logger) (storage.Store, error) {
	sc := storage.Config{
		Driver:  cfg.Driver,
		Dir:     cfg.Dir,
		Migrate: migrate,
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Driver), storage.DriverPostgres) {
		url, err := databaseURL(cfg)
		if err != nil {
			return nil, err
		}
		sc.DatabaseURL = url
	}

	return storage.New(ctx, sc, l)
}

func databaseURL(cfg *StorageConfig) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "database url",
		File:  cfg.DatabaseURLFile,
		Env:   "DATABASE_URL",
		Value: cfg.DatabaseURL,
	})
}

// newGenerator builds the provider chain. Providers that cannot be configured
// are skipped with a warning; an empty chain means local prompts only.
func newGenerator(ctx context.Context, cfg *AIConfig, l *zap.Logger) *ai.Chain {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	var providers []ai.Provider
	for _, p := range cfg.Providers {
		if p == nil {
			continue
		}
		provider, err := newProvider(ctx, p, l)
		if err != nil {
			l.Warn("skipping text generation provider", zap.String("name", p.Name), zap.Error(err))
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		l.Warn("no text generation providers configured; using local prompts")
		return nil
	}

	return ai.NewChain(l, cfg.MaxLogLength, providers...)
}

func newProvider(ctx context.Context, p *ProviderConfig, l *zap.Logger) (ai.Provider, error) {
	kind := strings.ToLower(strings.TrimSpace(p.Kind))
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = kind
	}

	switch kind {
	case providerKindGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  name + " api key",
			File:  p.APIKeyFile,
			Env:   envOr(p.APIKeyEnv, "GEMINI_API_KEY"),
			Value: p.APIKey,
		})
		if err != nil {
			return ai.Provider{}, err
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, p.Model, l)
		if err != nil {
			return ai.Provider{}, err
		}
		return ai.Provider{Name: name, Model: generator.Model(), Generator: generator}, nil

	case providerKindInference:
		if strings.TrimSpace(p.URL) == "" {
			return ai.Provider{}, fmt.Errorf("url is required for inference provider %s", name)
		}
		token, err := secrets.Load(secrets.Source{
			Name:  name + " api token",
			File:  p.APIKeyFile,
			Env:   envOr(p.APIKeyEnv, "HF_API_TOKEN"),
			Value: p.APIKey,
		})
		if err != nil {
			return ai.Provider{}, err
		}
		return ai.Provider{Name: name, Model: p.URL, Generator: inference.New(p.URL, token, l)}, nil
	}

	return ai.Provider{}, fmt.Errorf("unsupported provider kind: %q", p.Kind)
}

func envOr(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// drawQuestions picks the interview questions from the configured bank.
func drawQuestions(cfg *InterviewConfig, l *zap.Logger) ([]model.Question, error) {
	var (
		bank *questions.Bank
		err  error
	)
	if strings.TrimSpace(cfg.BankFile) != "" {
		bank, err = questions.Load(cfg.BankFile)
		if err == nil {
			l.Debug("using question bank file", zap.String("path", cfg.BankFile), zap.Int("questions", len(bank.Questions)))
		}
	} else {
		bank, err = questions.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}

	counts := questions.Counts{
		model.DifficultyEasy:   cfg.Easy,
		model.DifficultyMedium: cfg.Medium,
		model.DifficultyHard:   cfg.Hard,
	}
	if counts.Total() == 0 {
		counts = questions.DefaultCounts()
	}

	return questions.Select(bank, counts, nil)
}

// redacted hides inline secrets before the config is logged.
func redacted(c *Config) *Config {
	if c == nil {
		return nil
	}
	out := *c
	if c.Storage != nil {
		s := *c.Storage
		if s.DatabaseURL != "" {
			s.DatabaseURL = "***"
		}
		out.Storage = &s
	}
	if c.AI != nil {
		a := *c.AI
		a.Providers = make([]*ProviderConfig, 0, len(c.AI.Providers))
		for _, p := range c.AI.Providers {
			if p == nil {
				continue
			}
			cp := *p
			if cp.APIKey != "" {
				cp.APIKey = "***"
			}
			a.Providers = append(a.Providers, &cp)
		}
		out.AI = &a
	}
	return &out
}
