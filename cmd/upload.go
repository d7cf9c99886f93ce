package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/conversation"
	"github.com/spigell/interview-trainer/internal/model"
	"github.com/spigell/interview-trainer/internal/resume"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <resume.pdf|resume.docx>",
	Short: "Register a candidate from a resume and collect any missing contact details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		upload(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func upload(ctx context.Context, path string) {
	if ctx == nil {
		ctx = context.Background()
	}

	e := setup(ctx)
	defer e.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Fatal("reading resume", zap.String("path", path), zap.Error(err))
	}

	fileName := filepath.Base(path)
	mimeType := resume.DetectMimeType(fileName, data)
	parsed := resume.Parse(ctx, data, mimeType, fileName, e.logger)

	e.logger.Info("resume parsed",
		zap.String("file", fileName),
		zap.String("mime_type", mimeType),
		zap.String("note", parsed.Note),
		zap.Strings("skills", parsed.Skills),
	)

	opts := []conversation.Option{conversation.WithMaxLength(e.config.AI.MaxResponseLength)}
	if chain := newGenerator(ctx, e.config.AI, e.logger); chain != nil {
		opts = append(opts, conversation.WithGenerator(chain, e.config.AI.Timeout))
	}
	agent := conversation.NewAgent(e.logger, opts...)

	if parsed.NameGuessed && parsed.Name != resume.DefaultName {
		fmt.Printf("No name found in the document. Suggested from the file name: %s\n", parsed.Name)
	}

	record, err := collectMissing(ctx, agent, conversation.FromResume(parsed.Fields))
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			e.logger.Info("exiting", zap.String("reason", "upload cancelled"))
			return
		}
		e.logger.Fatal("collecting candidate details", zap.Error(err))
	}

	now := time.Now()
	candidate := model.Candidate{
		ID:         uuid.NewString(),
		Name:       record.Name,
		Email:      record.Email,
		Phone:      record.Phone,
		Skills:     parsed.Skills,
		ResumeFile: fileName,
		Status:     model.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := e.candidates.Add(ctx, candidate); err != nil {
		e.logger.Fatal("saving candidate", zap.Error(err))
	}
	if err := e.candidates.SetCurrent(ctx, candidate.ID); err != nil {
		e.logger.Fatal("selecting candidate", zap.Error(err))
	}

	e.machine(ctx).Prepare(ctx, candidate)

	fmt.Printf("\nCandidate %s registered (id %s).\nRun `%s interview` to start.\n", candidate.Name, candidate.ID, app)
}

// collectMissing runs the dialogue until every required field is known.
func collectMissing(ctx context.Context, agent *conversation.Agent, rec conversation.Record) (conversation.Record, error) {
	reply := agent.Start(rec)
	fmt.Println(reply.Message)

	for !reply.Complete() {
		prompt := promptui.Prompt{
			Label: fieldLabel(reply.State.Field),
		}
		input, err := prompt.Run()
		if err != nil {
			return conversation.Record{}, err
		}

		reply = agent.Handle(ctx, input)
		fmt.Println(reply.Message)
	}

	return reply.State.Record, nil
}

func fieldLabel(f conversation.Field) string {
	if f == "" {
		return "You"
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}
