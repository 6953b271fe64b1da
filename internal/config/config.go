package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"taskboard/internal/model"
)

// Config keeps runtime settings for the board.
type Config struct {
	TelegramToken       string
	DatabaseURL         string
	ReportTime          string // HH:MM, local time
	UpcomingHorizonDays int
}

// Load reads configuration from the environment (and an optional .env
// file) with sane defaults.
func Load() (Config, error) {
	// A missing .env file is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:       strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReportTime:          strings.TrimSpace(os.Getenv("REPORT_TIME")),
		UpcomingHorizonDays: parseDays(strings.TrimSpace(os.Getenv("UPCOMING_HORIZON_DAYS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskboard.db"
	}
	if cfg.ReportTime == "" {
		cfg.ReportTime = "08:00"
	}
	if cfg.UpcomingHorizonDays == 0 {
		cfg.UpcomingHorizonDays = model.DefaultHorizonDays
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseDays(raw string) int {
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0
	}
	return days
}
