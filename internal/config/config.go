package config

import (
	"fmt"
	"sort"

	"truco-game/internal/shared"
)

// GameConfig is the immutable rule set an engine is built with.
type GameConfig struct {
	MaxPlayers int             `json:"max_players"`
	MinPlayers int             `json:"min_players"`
	MaxScore   int             `json:"max_score"`
	UseTeams   bool            `json:"use_teams"`
	DeckType   shared.DeckType `json:"deck_type"`
	HandSize   int             `json:"hand_size"`
}

// DefaultPreset is the name unknown presets resolve to.
const DefaultPreset = "default"

var presets = map[string]GameConfig{
	"default": {
		MaxPlayers: 4,
		MinPlayers: 2,
		MaxScore:   15,
		DeckType:   shared.Spanish,
		HandSize:   3,
	},
	"quick": {
		MaxPlayers: 2,
		MinPlayers: 2,
		MaxScore:   5,
		DeckType:   shared.Spanish,
		HandSize:   3,
	},
	"team": {
		MaxPlayers: 4,
		MinPlayers: 4,
		MaxScore:   15,
		UseTeams:   true,
		DeckType:   shared.Spanish,
		HandSize:   3,
	},
	"extended": {
		MaxPlayers: 6,
		MinPlayers: 2,
		MaxScore:   30,
		DeckType:   shared.Spanish,
		HandSize:   3,
	},
	"poker": {
		MaxPlayers: 8,
		MinPlayers: 2,
		MaxScore:   20,
		DeckType:   shared.French,
		HandSize:   5,
	},
	// Both deck types hold 40 cards, so four hands of ten use all of it.
	"bridge": {
		MaxPlayers: 4,
		MinPlayers: 4,
		MaxScore:   30,
		UseTeams:   true,
		DeckType:   shared.French,
		HandSize:   10,
	},
}

// ResolvePreset returns the named preset, or the default preset for unknown names.
func ResolvePreset(name string) GameConfig {
	if cfg, ok := presets[name]; ok {
		return cfg
	}
	return presets[DefaultPreset]
}

// PresetNames lists every preset name in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationResult collects every problem found in a GameConfig.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateGameConfig checks a config without failing fast.
func ValidateGameConfig(cfg GameConfig) ValidationResult {
	var errs []string
	if cfg.MinPlayers < 1 {
		errs = append(errs, "minPlayers must be at least 1")
	}
	if cfg.MaxPlayers < cfg.MinPlayers {
		errs = append(errs, "maxPlayers must be greater than or equal to minPlayers")
	}
	if cfg.MaxScore <= 0 {
		errs = append(errs, "maxScore must be greater than 0")
	}
	if cfg.HandSize <= 0 {
		errs = append(errs, "handSize must be greater than 0")
	}
	if cfg.UseTeams && cfg.MaxPlayers%2 != 0 {
		errs = append(errs, "maxPlayers must be even when teams are enabled")
	}
	if !shared.KnownDeckType(cfg.DeckType) {
		errs = append(errs, fmt.Sprintf("unknown deck type '%s'", cfg.DeckType))
	} else if needed, size := cfg.HandSize*cfg.MaxPlayers, shared.DeckSize(cfg.DeckType); needed > size {
		errs = append(errs, fmt.Sprintf("not enough cards: %d needed, %s deck has %d", needed, cfg.DeckType, size))
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Err folds the validation errors into a single error, or nil when valid.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return fmt.Errorf("invalid game config: %v", r.Errors)
}

// Overrides holds the fields a caller wants to change on the default preset.
type Overrides struct {
	MaxPlayers *int
	MinPlayers *int
	MaxScore   *int
	UseTeams   *bool
	DeckType   *shared.DeckType
	HandSize   *int
}

// CreateCustomConfig lays overrides over the default preset.
func CreateCustomConfig(o Overrides) GameConfig {
	cfg := presets[DefaultPreset]
	if o.MaxPlayers != nil {
		cfg.MaxPlayers = *o.MaxPlayers
	}
	if o.MinPlayers != nil {
		cfg.MinPlayers = *o.MinPlayers
	}
	if o.MaxScore != nil {
		cfg.MaxScore = *o.MaxScore
	}
	if o.UseTeams != nil {
		cfg.UseTeams = *o.UseTeams
	}
	if o.DeckType != nil {
		cfg.DeckType = *o.DeckType
	}
	if o.HandSize != nil {
		cfg.HandSize = *o.HandSize
	}
	return cfg
}
