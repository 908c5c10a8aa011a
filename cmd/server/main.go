package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mjaus29/survey/internal/api"
	dbstore "github.com/mjaus29/survey/internal/db"
	"github.com/mjaus29/survey/internal/middleware"
	"github.com/mjaus29/survey/internal/utils"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	addr := utils.SafeEnv("SURVEY_ADDR", ":8080")
	surveyID := utils.SafeEnv("SURVEY_ACTIVE_ID", "1")

	store, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	if err := api.SeedDefaultCatalog(store, surveyID); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	mux := http.NewServeMux()
	api.NewRouter(store, surveyID).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "Survey API"})
	})

	handler := middleware.NoStore(middleware.SecureHeaders(mux))

	log.Printf("survey server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore selects sqlite when SURVEY_DB_PATH is set, otherwise the
// in-memory store. The sqlite schema is migrated on every start.
func openStore() (api.Store, error) {
	path := os.Getenv("SURVEY_DB_PATH")
	if path == "" {
		log.Printf("SURVEY_DB_PATH not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + filepath.ToSlash(path) + "?cache=shared&_busy_timeout=5000"
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := dbstore.RunMigrations(sqliteDB, os.Getenv("SURVEY_MIGRATIONS_DIR")); err != nil {
		return nil, err
	}
	return dbstore.NewStore(sqliteDB)
}
