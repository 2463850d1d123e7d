package main

import (
	"log"
	"log/slog"

	"github.com/radlens/radlens/internal/analyzer"
	"github.com/radlens/radlens/internal/config"
	"github.com/radlens/radlens/internal/llm"
	"github.com/radlens/radlens/internal/search"
	"github.com/radlens/radlens/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	provider, err := llm.New(&cfg.Model)
	if err != nil {
		log.Fatalf("failed to create model provider: %v", err)
	}

	searcher := search.NewDuckDuckGo(&cfg.Search)

	pipeline := analyzer.New(provider, searcher, search.DiagnosisTerms{}, cfg)

	srv := server.New(*cfg, pipeline)
	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"provider", provider.Name(),
		"model", cfg.Model.Model,
	)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
