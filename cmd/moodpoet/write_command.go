package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/logger"
)

func newWriteCommand(ctx *commandContext) *cobra.Command {
	var mood, poet, provider string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Print one poem for a mood",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			preferred, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}

			log := logger.NewWithWriter(cfg.Logger, cmd.ErrOrStderr())
			gen := initGenerator(cfg, log)

			result := gen.Generate(cmd.Context(), domain.PoemRequest{
				Mood:      mood,
				Poet:      poet,
				Preferred: preferred,
			})
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			log.Info("poem written", "poet", result.Poet, "source", result.Source, "attempts", len(result.Attempts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&mood, "mood", "m", "", "Your current mood (random when empty)")
	cmd.Flags().StringVarP(&poet, "poet", "p", "", "Poet persona (random when empty or unknown)")
	cmd.Flags().StringVar(&provider, "provider", "", "Try this provider first: azure_openai, openai or huggingface")
	return cmd
}
