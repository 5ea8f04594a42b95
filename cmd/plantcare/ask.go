package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/chat"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask the plant care assistant a question",
		Long: `Send one question to the plant care assistant and print its care guide.

Examples:
  plantcare ask "How often should I water a snake plant?"
  plantcare ask my fern has brown tips`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session := chat.NewSession(newGateway(a.cfg, a.logger), a.logger)

			stop := startSpinner(cmd.ErrOrStderr(), "Thinking...")
			ex, err := session.SendUserText(cmd.Context(), a.cfg.Credential(), strings.Join(args, " "))
			stop()
			if err != nil {
				return err
			}

			printSegments(out, ex.Reply.Text)
			if ex.Err != nil {
				color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), ai.UserMessage(ai.CapabilityChat, ex.Err))
				return ex.Err
			}
			return nil
		},
	}
}
