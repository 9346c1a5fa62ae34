package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"truco-game/internal/config"
	"truco-game/internal/database"

	log "github.com/sirupsen/logrus"
)

// ResultReader is the read side of the results store.
type ResultReader interface {
	GetAll() ([]database.GameResult, error)
	GetByPlayer(playerName string) ([]database.GameResult, error)
}

// HandleRoutes registers the REST endpoints on mux.
func HandleRoutes(mux *http.ServeMux, db ResultReader) {
	mux.HandleFunc("GET /api/results/player/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetResultsByPlayerHandler(db, w, r)
	})
	mux.HandleFunc("GET /api/results", func(w http.ResponseWriter, r *http.Request) {
		GetResultsHandler(db, w, r)
	})
	mux.HandleFunc("GET /api/presets", GetPresetsHandler)

	log.Info("Registered routes: /api/results, /api/results/player/{name}, /api/presets")
}

func GetResultsByPlayerHandler(db ResultReader, w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByPlayer(player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No results found for player", http.StatusNotFound)
			return
		}
		log.Errorf("Failed to fetch results for %s: %v", player, err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

func GetResultsHandler(db ResultReader, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		log.Errorf("Failed to fetch results: %v", err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []database.GameResult{}
	}
	writeJSON(w, results)
}

func GetPresetsHandler(w http.ResponseWriter, r *http.Request) {
	presets := make(map[string]config.GameConfig)
	for _, name := range config.PresetNames() {
		presets[name] = config.ResolvePreset(name)
	}
	writeJSON(w, presets)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Failed to encode response: %v", err)
	}
}
