package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matchpairs/go-server/internal/httpserver"
	"github.com/matchpairs/go-server/internal/images"
	"github.com/matchpairs/go-server/internal/store"
	"github.com/matchpairs/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	cfg := httpserver.Config{
		DefaultPairs: getEnvInt("DEFAULT_PAIRS", 10),
		RevealWindow: time.Duration(getEnvInt("REVEAL_WINDOW_MS", 800)) * time.Millisecond,
	}

	mem := store.NewMemoryStore()
	img := images.NewRandomAPI(os.Getenv("IMAGE_API_URL"))
	wrd := words.NewRandomAPI(os.Getenv("WORD_API_URL"))

	srv := httpserver.New(mem, db, img, wrd, cfg)
	port := getEnv("PORT", "5180")
	log.Info().Str("port", port).Int("defaultPairs", cfg.DefaultPairs).Msg("starting matchpairs server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
