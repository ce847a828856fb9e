package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/logging"
	"github.com/abelbrown/signgen/internal/store"
)

// loadEnv reads .env and sends diagnostics to stderr.
func loadEnv() {
	_ = godotenv.Load()
	level := os.Getenv("SIGNGEN_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logging.SetOutput(os.Stderr, level)
}

// dataDir returns $SIGNGEN_HOME or ~/.signgen, creating it if needed.
func dataDir() string {
	dir := os.Getenv("SIGNGEN_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fatalf("failed to get home directory: %v", err)
		}
		dir = filepath.Join(home, ".signgen")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fatalf("failed to create data directory: %v", err)
	}
	return dir
}

// openDB opens the store or exits.
func openDB() *store.Store {
	st, err := store.Open(filepath.Join(dataDir(), "signgen.db"))
	if err != nil {
		fatalf("failed to open database: %v", err)
	}
	return st
}

// loadConfig opens the configuration store over st.
func loadConfig(st *store.Store) (*config.Store, config.Config) {
	cs := config.NewStore(st)
	return cs, cs.Load()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sgctl: "+format+"\n", args...)
	os.Exit(1)
}
