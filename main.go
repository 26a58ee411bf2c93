package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/devtrack/taskboard/internal/cli"
)

const (
	defaultAPIBaseURL  = "http://localhost:8880/api/v1"
	defaultHTTPTimeout = 10 * time.Second
)

func main() {
	// A .env file is a convenience, not a requirement.
	_ = godotenv.Load()

	logger := log.New(os.Stderr, "taskboard: ", log.LstdFlags)

	cfg := cli.Config{
		APIBaseURL:  defaultAPIBaseURL,
		StateDBPath: defaultStateDBPath(),
		HTTPTimeout: defaultHTTPTimeout,
	}
	if v := os.Getenv("DASHBOARD_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("DASHBOARD_STATE_DB"); v != "" {
		cfg.StateDBPath = v
	}
	if v := os.Getenv("DASHBOARD_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid DASHBOARD_HTTP_TIMEOUT %q: %v", v, err)
		}
		cfg.HTTPTimeout = d
	}

	if err := cli.Execute(cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

func defaultStateDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./taskboard.db"
	}
	return filepath.Join(home, ".taskboard.db")
}
