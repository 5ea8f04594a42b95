package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/photostore"
	"github.com/vbonduro/plantcare/internal/render"
)

func newDiagnoseCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "diagnose IMAGE",
		Short: "Diagnose plant disease from a leaf photo",
		Long: `Send a leaf photo to the vision model and print its diagnosis.

Examples:
  plantcare diagnose leaf.jpg
  plantcare diagnose leaf.png -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(outputFormat); err != nil {
				return err
			}
			imageData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			mimeType := http.DetectContentType(imageData)
			if !strings.HasPrefix(mimeType, "image/") {
				mimeType = photostore.MIMEForKey(args[0])
			}

			stop := startSpinner(cmd.ErrOrStderr(), "Analyzing...")
			raw, err := newGateway(a.cfg, a.logger).Invoke(cmd.Context(), ai.Request{
				Capability: ai.CapabilityVision,
				Credential: a.cfg.Credential(),
				Prompt:     ai.PromptFor(ai.CapabilityVision, ""),
				Image:      &ai.Image{Data: imageData, MIMEType: mimeType},
			})
			stop()
			if err != nil {
				color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), ai.UserMessage(ai.CapabilityVision, err))
				return err
			}

			result, err := render.ParseDiagnosis(raw)
			if err != nil {
				a.logger.Warn("vision response could not be parsed", "error", err, "raw_response", raw)
				color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), ai.UserMessage(ai.CapabilityVision, err))
				return err
			}

			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, outputFormat, result); done {
				return err
			}
			printDiagnosis(out, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", formatHuman, "Output format (human, json, yaml)")
	return cmd
}
