package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"moodpoet/internal/adapter/llm"
	"moodpoet/internal/domain"
	"moodpoet/internal/infra/logger"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show which LLM providers are configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cfg.Logger, cmd.ErrOrStderr())

			infos := make([]domain.ProviderInfo, 0, len(domain.ProviderOrder))
			for _, p := range llm.NewProviders(cfg.Providers, log) {
				infos = append(infos, p.Describe())
			}
			preferred, _ := domain.ParseProvider(cfg.Providers.Preferred)

			fmt.Fprintln(cmd.OutOrStdout(), renderProviders(infos, preferred))
			return nil
		},
	}
}

func renderProviders(infos []domain.ProviderInfo, preferred domain.ProviderID) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Provider", "Configured", "Model", "Endpoint", "Timeout", "Preferred"})

	for _, info := range infos {
		model := info.Model
		if model == "" {
			model = info.Deployment
		}
		configured := "no"
		if info.Configured {
			configured = "yes"
		}
		mark := ""
		if info.Name == preferred {
			mark = "*"
		}
		tw.AppendRow(table.Row{info.Name, configured, model, info.Endpoint, info.Timeout, mark})
	}
	return tw.Render()
}
