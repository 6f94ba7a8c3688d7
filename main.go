package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dingobingo/assets"
	"github.com/robalobadob/dingobingo/internal/ai"
	"github.com/robalobadob/dingobingo/internal/config"
	"github.com/robalobadob/dingobingo/internal/database"
	"github.com/robalobadob/dingobingo/internal/httpserver"
	"github.com/robalobadob/dingobingo/internal/phrases"
	"github.com/robalobadob/dingobingo/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	defaults, err := phrases.Load(cfg.PhrasesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.PhrasesFile).Msg("failed to load phrases")
	}

	db, err := database.OpenMigrated(cfg.DBPath, assets.Migrations())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	opts := httpserver.Options{Config: cfg, Phrases: defaults}
	if client := ai.New(cfg.GeminiAPIKey, cfg.GeminiModel); client.Configured() {
		opts.AI = client
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; AI phrase routes disabled")
	}

	srv := httpserver.New(store.NewMemoryStore(), db, opts)
	log.Info().Str("port", cfg.Port).Int("phrases", len(defaults)).Msg("starting bingo server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
