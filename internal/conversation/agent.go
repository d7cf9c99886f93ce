package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/ai"
	"github.com/spigell/interview-trainer/internal/logger"
)

const (
	defaultTimeout = 8 * time.Second
	historyWindow  = 4

	messageReady      = "Great! I have all the information I need from your resume. Ready to start the interview?"
	messageWelcome    = "Hello! I'm here to help you complete your profile before the interview."
	messageAfterReady = "Perfect! Ready to start your interview?"
	notProvided       = "Not provided"
)

var fieldPrompts = map[Field]string{
	FieldName:  "What's your full name?",
	FieldEmail: "What's your email address?",
	FieldPhone: "What's your phone number?",
}

// FieldPrompt is the local question for a field.
func FieldPrompt(f Field) string {
	if p, ok := fieldPrompts[f]; ok {
		return p
	}
	return fmt.Sprintf("Please provide your %s:", f)
}

// Reply is what the agent says back after a turn.
type Reply struct {
	Message  string
	State    State
	Accepted bool
	// Generated is true when Message came from the text generator.
	Generated bool
}

// Complete reports whether every required field is collected.
func (r Reply) Complete() bool {
	return r.State.Stage == StageComplete
}

type turn struct {
	Role    string
	Content string
}

// Agent drives the field collection dialogue. Field parsing never depends on
// the generator; the generator only phrases replies to unrecognised input.
type Agent struct {
	generator ai.Generator
	timeout   time.Duration
	maxLen    int
	logger    *zap.Logger

	state   State
	history []turn
}

type Option func(*Agent)

// WithGenerator enables generated replies bounded by timeout.
func WithGenerator(g ai.Generator, timeout time.Duration) Option {
	return func(a *Agent) {
		a.generator = g
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithMaxLength caps generated replies.
func WithMaxLength(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxLen = n
		}
	}
}

func NewAgent(log *zap.Logger, opts ...Option) *Agent {
	a := &Agent{
		timeout: defaultTimeout,
		maxLen:  ai.DefaultMaxLength,
		logger:  logger.WithFields(log, zap.String("component", "conversation")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) State() State {
	return a.state
}

// Start seeds the dialogue with what the resume parser found.
func (a *Agent) Start(rec Record) Reply {
	a.history = nil
	a.state = Init(rec)

	var msg string
	if a.state.Stage == StageComplete {
		msg = messageReady
	} else {
		msg = missingFieldsMessage(a.state.Missing())
	}

	a.remember("assistant", msg)
	return Reply{Message: msg, State: a.state}
}

// Handle processes one user message.
func (a *Agent) Handle(ctx context.Context, message string) Reply {
	message = strings.TrimSpace(message)
	prev := a.state

	var accepted bool
	a.state, accepted = Reduce(a.state, message)
	a.remember("user", message)

	reply := Reply{State: a.state, Accepted: accepted}
	switch {
	case accepted && a.state.Stage == StageComplete:
		reply.Message = confirmMessage(a.state.Record)
	case accepted:
		reply.Message = FieldPrompt(a.state.Field)
	case a.state.Stage == StageCollecting:
		reply.Message, reply.Generated = a.generate(ctx, message)
	case prev.Stage == StageWelcome:
		reply.Message = messageWelcome
	default:
		reply.Message = messageAfterReady
	}

	a.remember("assistant", reply.Message)
	return reply
}

// generate asks the generator for a reply and falls back to the local field prompt.
func (a *Agent) generate(ctx context.Context, message string) (string, bool) {
	local := FieldPrompt(a.state.Field)
	if a.generator == nil {
		return local, false
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.generator.GenerateContent(ctx, a.buildPrompt(message))
	if err != nil {
		a.logger.Warn("generated reply unavailable, using local prompt",
			zap.String("field", string(a.state.Field)),
			zap.Error(err),
		)
		return local, false
	}

	cleaned := ai.CleanResponse(raw, a.maxLen)
	if cleaned == ai.DefaultReply {
		return local, false
	}
	return cleaned, true
}

func (a *Agent) buildPrompt(message string) string {
	var b strings.Builder
	b.WriteString("You are a friendly recruitment assistant. Keep responses short and helpful.")

	if missing := a.state.Missing(); len(missing) > 0 {
		data, _ := json.Marshal(a.state.Record)
		fmt.Fprintf(&b, " Collecting: %s. Current data: %s.", joinFields(missing), data)
	}

	// the latest user message is appended separately below
	recent := a.history
	if n := len(recent); n > 0 && recent[n-1].Role == "user" {
		recent = recent[:n-1]
	}
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	if len(recent) > 0 {
		parts := make([]string, len(recent))
		for i, t := range recent {
			parts[i] = t.Role + ": " + t.Content
		}
		fmt.Fprintf(&b, " Recent conversation: %s", strings.Join(parts, " | "))
	}

	fmt.Fprintf(&b, "\nUser: %s\nAssistant:", message)
	return b.String()
}

func (a *Agent) remember(role, content string) {
	a.history = append(a.history, turn{Role: role, Content: content})
	if len(a.history) > 2*historyWindow {
		a.history = a.history[len(a.history)-2*historyWindow:]
	}
}

func missingFieldsMessage(missing []Field) string {
	noun := "details"
	if len(missing) == 1 {
		noun = "detail"
	}
	return fmt.Sprintf("I found your resume but I need %d more %s: %s. Let's start with your %s.",
		len(missing), noun, joinFields(missing), missing[0])
}

func confirmMessage(r Record) string {
	return fmt.Sprintf("Perfect! I have all your information. Let me confirm:\n• Name: %s\n• Email: %s\n• Phone: %s\n\nAre you ready to start your interview?",
		orNotProvided(r.Name), orNotProvided(r.Email), orNotProvided(r.Phone))
}

func orNotProvided(v string) string {
	if strings.TrimSpace(v) == "" {
		return notProvided
	}
	return v
}

func joinFields(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
