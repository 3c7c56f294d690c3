package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/pkg/flow"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer the survey interactively in the terminal",
	Long: `Walks through the survey step by step. Answers are saved after every
question; press Ctrl+C to stop and run again later to resume.`,
	RunE: runSurvey,
}

func init() {
	runCmd.Flags().StringVar(&runOutput, "output", "", "also write the submission as JSON to this file")
}

func runSurvey(cmd *cobra.Command, _ []string) error {
	var senders flow.Chain
	if runOutput != "" {
		senders = append(senders, fileSender(runOutput))
	}
	senders = append(senders, flow.LogSender{Logger: logger.Named("submission")})

	_, ctrl, _, err := openSession(senders)
	if err != nil {
		return err
	}

	session := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
		tui.WithLogger(logger.Named("tui")),
	)
	err = session.Run(commandContext(cmd), ctrl)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Stopped. Your answers are saved; run again to continue.")
		return nil
	}
	return err
}

// fileSender writes the submission as JSON to path. The file is only created
// once a submission is sent.
func fileSender(path string) flow.Sender {
	return flow.SenderFunc(func(ctx context.Context, submission flow.Submission) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		if err := (flow.JSONSender{W: f}).Send(ctx, submission); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}
