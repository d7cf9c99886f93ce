package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/candidates"
	"github.com/spigell/interview-trainer/internal/interview"
	"github.com/spigell/interview-trainer/internal/logger"
	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/summary"
	"github.com/spigell/interview-trainer/internal/utils"
)

const (
	PromptResume  = "Resume where I left off"
	PromptRestart = "Start over"
	PromptYes     = "Yes"
	PromptNo      = "No"

	// lateExpiryWait bounds how long a losing manual submission waits for the
	// countdown's outcome to arrive.
	lateExpiryWait = time.Second
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a timed interview for the current candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().String("bank-file", "", "YAML question bank to draw from instead of the built-in one")
	interviewCmd.Flags().Int("easy", 2, "number of easy questions")
	interviewCmd.Flags().Int("medium", 2, "number of medium questions")
	interviewCmd.Flags().Int("hard", 2, "number of hard questions")

	viper.BindPFlag("interview.bank-file", interviewCmd.Flags().Lookup("bank-file"))
	viper.BindPFlag("interview.easy", interviewCmd.Flags().Lookup("easy"))
	viper.BindPFlag("interview.medium", interviewCmd.Flags().Lookup("medium"))
	viper.BindPFlag("interview.hard", interviewCmd.Flags().Lookup("hard"))
}

func runInterview(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	e := setup(ctx)
	defer e.Close()

	machine := e.machine(ctx)

	if err := decideResume(ctx, machine); err != nil {
		exitOnPrompt(e.logger, err)
		return
	}

	switch s := machine.Session(); s.Phase {
	case interview.PhaseInProgress:
		e.logger.Info("continuing interview",
			append(logger.CandidateFields(candidateID(s.Candidate), candidateName(s.Candidate), s.ID),
				zap.Int("answered", len(s.Answers)),
				zap.Int("total", len(s.Questions)))...,
		)
	case interview.PhaseCompleted:
		printSummary(*s.Summary, s.Candidate)
		again, err := confirm("Start a new interview for this candidate?")
		if err != nil || !again {
			exitOnPrompt(e.logger, err)
			return
		}
		machine.Restart(ctx)
		fallthrough
	default:
		if err := startInterview(ctx, e, machine); err != nil {
			e.logger.Fatal("starting interview", zap.Error(err))
		}
	}

	out, err := askQuestions(ctx, machine)
	if err != nil {
		exitOnPrompt(e.logger, err)
		return
	}

	if out.Candidate != nil {
		if err := recordResult(ctx, e.candidates, *out.Candidate); err != nil {
			// the session snapshot still holds the result
			e.logger.Error("saving interview result", zap.Error(err))
		}
	}
	printSummary(*out.Summary, out.Candidate)
}

// decideResume offers resume or restart when the previous run was interrupted.
func decideResume(ctx context.Context, machine *interview.Machine) error {
	if !machine.DetectInterruption() {
		return nil
	}

	p := machine.Progress()
	prompt := promptui.Select{
		Label: fmt.Sprintf("Welcome back! You answered %d of %d questions", p.Answered, p.Total),
		Items: []string{PromptResume, PromptRestart},
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return err
	}

	if choice == PromptRestart {
		machine.Restart(ctx)
		return nil
	}
	machine.Resume(ctx)
	return nil
}

func startInterview(ctx context.Context, e *env, machine *interview.Machine) error {
	candidate, ok := e.candidates.Current()
	if !ok {
		if s := machine.Session(); s.Candidate != nil {
			candidate, ok = *s.Candidate, true
		}
	}
	if !ok {
		return fmt.Errorf("%w: run `%s upload <resume>` first", interview.ErrNoCandidate, app)
	}

	qs, err := drawQuestions(e.config.Interview, e.logger)
	if err != nil {
		return err
	}

	if err := machine.Start(ctx, &candidate, qs); err != nil {
		return err
	}

	if s := machine.Session(); s.Candidate != nil {
		if err := recordResult(ctx, e.candidates, *s.Candidate); err != nil {
			e.logger.Warn("updating candidate status", zap.Error(err))
		}
	}

	fmt.Printf("\nHello %s! You will get %d questions. Each one has its own time limit.\n", candidate.Name, len(qs))
	return nil
}

// askQuestions loops until the machine reports completion.
func askQuestions(ctx context.Context, machine *interview.Machine) (interview.Outcome, error) {
	for {
		q, tok, ok := machine.Current()
		if !ok {
			s := machine.Session()
			if s.Phase == interview.PhaseCompleted && s.Summary != nil {
				return interview.Outcome{Completed: true, Summary: s.Summary, Candidate: s.Candidate}, nil
			}
			return interview.Outcome{}, errors.New("no question to answer")
		}

		p := machine.Progress()
		fmt.Printf("\nQuestion %d of %d [%s, %s, %ds]\n%s\n", tok.Index+1, p.Total, q.Difficulty, q.Category, q.TimeLimit, q.Text)

		out, err := askWithTimer(ctx, machine, q, tok)
		if err != nil {
			return interview.Outcome{}, err
		}

		if out.Accepted {
			fmt.Printf("Score: %d/10. %s\n", out.Answer.Score, out.Answer.Feedback)
		}
		if out.Completed {
			return out, nil
		}
	}
}

// askWithTimer races the countdown against the answer prompt. Whichever
// submits first is recorded; the other is dropped by the machine.
func askWithTimer(ctx context.Context, machine *interview.Machine, q model.Question, tok interview.Token) (interview.Outcome, error) {
	qctx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan interview.Outcome, 1)
	go func() {
		if err := utils.WaitFor(qctx, time.Duration(q.TimeLimit)*time.Second); err != nil {
			return
		}
		out := machine.Expire(ctx, tok)
		if out.Accepted {
			fmt.Fprintln(os.Stderr, "\nTime is up. Press Enter to continue.")
		}
		expired <- out
	}()

	started := time.Now()
	prompt := promptui.Prompt{Label: "Answer"}
	text, err := prompt.Run()
	if err != nil {
		return interview.Outcome{}, err
	}

	out := machine.Submit(ctx, tok, strings.TrimSpace(text), time.Since(started).Seconds())
	if out.Accepted {
		return out, nil
	}

	select {
	case late := <-expired:
		fmt.Println("Your answer arrived after the time limit and was not recorded.")
		return late, nil
	case <-time.After(lateExpiryWait):
		return interview.Outcome{}, nil
	}
}

// recordResult writes the candidate back to the registry, adding it when the
// registry lost track of it.
func recordResult(ctx context.Context, reg *candidates.Registry, c model.Candidate) error {
	err := reg.Update(ctx, c)
	if errors.Is(err, candidates.ErrNotFound) {
		return reg.Add(ctx, c)
	}
	return err
}

func printSummary(s summary.Summary, c *model.Candidate) {
	name := candidateName(c)
	if name == "" {
		name = "Candidate"
	}

	fmt.Printf("\n%s: %.1f/10 (%s)\n", name, s.FinalScore, s.PerformanceLevel)
	fmt.Println(s.Narrative)
	fmt.Printf("Strengths: %s\n", strings.Join(s.Strengths, ", "))
	fmt.Printf("Improvements: %s\n", strings.Join(s.Improvements, ", "))
	for _, d := range model.Difficulties {
		if b, ok := s.ByDifficulty[d]; ok {
			fmt.Printf("  %-6s %d answered, average %.1f\n", d, b.Count, b.Average)
		}
	}
}

func confirm(label string) (bool, error) {
	prompt := promptui.Select{Label: label, Items: []string{PromptYes, PromptNo}}
	_, choice, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return choice == PromptYes, nil
}

// exitOnPrompt treats Ctrl+C and Ctrl+D as a normal exit; progress is already saved.
func exitOnPrompt(l *zap.Logger, err error) {
	switch {
	case err == nil:
		l.Info("exiting", zap.String("reason", "got no from prompt"))
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		l.Info("exiting", zap.String("reason", "interrupted; progress is saved"))
	default:
		l.Fatal("exiting", zap.Error(err))
	}
}

func candidateID(c *model.Candidate) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func candidateName(c *model.Candidate) string {
	if c == nil {
		return ""
	}
	return c.Name
}
