package main

import (
	"log/slog"

	"moodpoet/internal/adapter/backup"
	"moodpoet/internal/adapter/llm"
	"moodpoet/internal/domain"
	"moodpoet/internal/infra/config"
	"moodpoet/internal/infra/random"
	"moodpoet/internal/usecase/poem"
)

// initGenerator wires the providers, the backup store and the observers
// into a generator.
func initGenerator(cfg *config.Config, log *slog.Logger, observers ...poem.Observer) *poem.Generator {
	rng := random.New(cfg.Seed)

	// Validate has already rejected unknown names.
	preferred, _ := domain.ParseProvider(cfg.Providers.Preferred)

	for _, problem := range cfg.Providers.Incomplete() {
		log.Warn("llm provider left unconfigured", "problem", problem)
	}

	providers := llm.NewProviders(cfg.Providers, log)
	for _, p := range providers {
		info := p.Describe()
		log.Debug("llm provider registered", "provider", info.Name, "configured", info.Configured, "timeout", info.Timeout)
	}

	return poem.NewGenerator(poem.GeneratorDeps{
		Providers:    providers,
		Backup:       backup.New(rng),
		Rand:         rng,
		Logger:       log,
		Options:      cfg.Generation.Options(),
		DefaultMoods: cfg.Generation.DefaultMoods,
		Preferred:    preferred,
		Observers:    observers,
	})
}
