package utils

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Addr           string
	LetterboxdBase string
	ScrapeTimeout  time.Duration
	ScrapeInterval time.Duration
	MaxPages       int
	BatchSize      int
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		Addr:           ":8080",
		LetterboxdBase: "https://letterboxd.com",
		ScrapeTimeout:  30 * time.Second,
		ScrapeInterval: 500 * time.Millisecond,
		MaxPages:       20,
		BatchSize:      10,
	}

	if v := os.Getenv("WATCHMATCH_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("WATCHMATCH_LETTERBOXD_BASE"); v != "" {
		cfg.LetterboxdBase = v
	}
	if n := envInt("WATCHMATCH_SCRAPE_TIMEOUT_SECS"); n > 0 {
		cfg.ScrapeTimeout = time.Duration(n) * time.Second
	}
	if n := envInt("WATCHMATCH_SCRAPE_INTERVAL_MS"); n > 0 {
		cfg.ScrapeInterval = time.Duration(n) * time.Millisecond
	}
	if n := envInt("WATCHMATCH_MAX_PAGES"); n > 0 {
		cfg.MaxPages = n
	}
	if n := envInt("WATCHMATCH_BATCH_SIZE"); n > 0 {
		cfg.BatchSize = n
	}
	return cfg
}

type SyncConfig struct {
	TMDBBase string
	TMDBKey  string
	Pages    int
}

func LoadSyncConfig() SyncConfig {
	cfg := SyncConfig{
		TMDBBase: "https://api.themoviedb.org/3",
		Pages:    5,
	}
	if v := os.Getenv("WATCHMATCH_TMDB_BASE"); v != "" {
		cfg.TMDBBase = v
	}
	cfg.TMDBKey = os.Getenv("WATCHMATCH_TMDB_KEY")
	if n := envInt("WATCHMATCH_TMDB_PAGES"); n > 0 {
		cfg.Pages = n
	}
	return cfg
}

// envInt returns 0 when unset or unparsable; callers keep their default.
func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
