package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"truco-game/internal/shared"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		res := ValidateGameConfig(ResolvePreset(name))
		assert.True(t, res.IsValid, "preset %s: %v", name, res.Errors)
		assert.NoError(t, res.Err())
	}
}

func TestResolveUnknownPresetFallsBack(t *testing.T) {
	assert.Equal(t, ResolvePreset(DefaultPreset), ResolvePreset("no-such-preset"))
	assert.True(t, ResolvePreset("team").UseTeams)
}

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    GameConfig
		errors int
	}{
		{"valid", GameConfig{MinPlayers: 2, MaxPlayers: 2, MaxScore: 15, HandSize: 3, DeckType: shared.Spanish}, 0},
		{"min zero", GameConfig{MinPlayers: 0, MaxPlayers: 2, MaxScore: 15, HandSize: 3, DeckType: shared.Spanish}, 1},
		{"max below min", GameConfig{MinPlayers: 3, MaxPlayers: 2, MaxScore: 15, HandSize: 3, DeckType: shared.Spanish}, 1},
		{"no score", GameConfig{MinPlayers: 2, MaxPlayers: 2, MaxScore: 0, HandSize: 3, DeckType: shared.Spanish}, 1},
		{"no hand", GameConfig{MinPlayers: 2, MaxPlayers: 2, MaxScore: 15, HandSize: 0, DeckType: shared.Spanish}, 1},
		{"odd teams", GameConfig{MinPlayers: 3, MaxPlayers: 3, MaxScore: 15, HandSize: 3, UseTeams: true, DeckType: shared.Spanish}, 1},
		{"too many cards", GameConfig{MinPlayers: 2, MaxPlayers: 8, MaxScore: 15, HandSize: 6, DeckType: shared.French}, 1},
		{"french deck holds 40 cards", GameConfig{MinPlayers: 2, MaxPlayers: 4, MaxScore: 15, HandSize: 11, DeckType: shared.French}, 1},
		{"unknown deck", GameConfig{MinPlayers: 2, MaxPlayers: 2, MaxScore: 15, HandSize: 3, DeckType: "tarot"}, 1},
		{"everything wrong", GameConfig{MinPlayers: 0, MaxPlayers: -1, MaxScore: 0, HandSize: 0, DeckType: "tarot"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateGameConfig(tt.cfg)
			assert.Len(t, res.Errors, tt.errors, res.Errors)
			assert.Equal(t, tt.errors == 0, res.IsValid)
		})
	}
}

func TestCreateCustomConfig(t *testing.T) {
	two, score := 2, 30
	french := shared.French
	cfg := CreateCustomConfig(Overrides{MaxPlayers: &two, MaxScore: &score, DeckType: &french})

	def := ResolvePreset(DefaultPreset)
	assert.Equal(t, 2, cfg.MaxPlayers)
	assert.Equal(t, 30, cfg.MaxScore)
	assert.Equal(t, shared.French, cfg.DeckType)
	assert.Equal(t, def.MinPlayers, cfg.MinPlayers)
	assert.Equal(t, def.HandSize, cfg.HandSize)
	assert.Equal(t, def, CreateCustomConfig(Overrides{}))
}

func TestLoadServerConfig(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "DEFAULT_PRESET", "ROUND_DELAY_MS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9000\nROUND_DELAY_MS=250\nLOG_LEVEL=debug\n"), 0o600))

	// godotenv does not override variables that are already set, even if empty.
	for _, k := range []string{"PORT", "ROUND_DELAY_MS", "LOG_LEVEL"} {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ROUND_DELAY_MS")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := LoadServerConfig(envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.RoundDelay)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
}

func TestLoadServerConfigRejectsDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := LoadServerConfig()
	assert.Error(t, err)
}
