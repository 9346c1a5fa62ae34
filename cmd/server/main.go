package main

import (
	"net/http"

	"truco-game/internal/config"
	"truco-game/internal/database"
	"truco-game/internal/server"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadServerConfig(".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.Infof("Starting Truco server (preset %s, round delay %s)...", cfg.DefaultPreset, cfg.RoundDelay)

	db, err := database.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Could not open results database: %v", err)
	}
	defer db.Close()

	hub := server.NewHub(db, cfg.DefaultPreset, cfg.RoundDelay)
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})
	server.HandleRoutes(mux, db)

	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}
