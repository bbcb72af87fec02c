/*
Package config manages TOML config for the conversion engine.

InitConfig handles automatic config file creation and loading with fallback to defaults.
LoadConfig and SaveConfig provide direct fs access for runtime changes.
Update allows targeted parameter changes with persistence.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire engine configuration.
type Config struct {
	Costs      CostsConfig      `toml:"costs"`
	History    HistoryConfig    `toml:"history"`
	Candidates CandidateConfig  `toml:"candidates"`
	Session    SessionConfig    `toml:"session"`
}

// CostsConfig tunes the cost function and reranker.
type CostsConfig struct {
	SegmentPenalty       int64 `toml:"segment_penalty"`
	UnknownWordCost      int64 `toml:"unknown_word_cost"`
	StructureCostFilter  int64 `toml:"structure_cost_filter"`
	LengthVarianceWeight int64 `toml:"length_variance_weight"`
	// LatinPenalty is added to surfaces containing Latin/ASCII characters.
	LatinPenalty int64 `toml:"latin_penalty"`
	// MixedScriptBonus (subtracted) rewards kanji+kana surfaces, e.g. 通っ.
	MixedScriptBonus int64 `toml:"mixed_script_bonus"`
	// PureKanjiBonus (subtracted) rewards all-kanji surfaces, e.g. 方.
	PureKanjiBonus int64 `toml:"pure_kanji_bonus"`
	// KatakanaPenalty is added to all-katakana surfaces.
	KatakanaPenalty int64 `toml:"katakana_penalty"`
}

// HistoryConfig tunes the user history store.
type HistoryConfig struct {
	HalfLifeHours     float64 `toml:"half_life_hours"`
	UnigramBoostK     int64   `toml:"unigram_boost_k"`
	BigramBoostK      int64   `toml:"bigram_boost_k"`
	MaxUnigramEntries int     `toml:"max_unigram_entries"`
	MaxBigramEntries  int     `toml:"max_bigram_entries"`
	CompactThreshold  int     `toml:"compact_threshold"`
}

// CandidateConfig tunes candidate generation strategies.
type CandidateConfig struct {
	MaxResults    int `toml:"max_results"`
	MaxChainSteps int `toml:"max_chain_steps"`
	ScanLimit     int `toml:"scan_limit"`
	NBest         int `toml:"nbest"`
}

// SessionConfig tunes the session state machine.
type SessionConfig struct {
	AutoCommitStabilityThreshold uint32 `toml:"auto_commit_stability_threshold"`
	AutoCommitMinSegments        int    `toml:"auto_commit_min_segments"`
	GhostDebounceMillis          int    `toml:"ghost_debounce_millis"`
	ProgrammerModeBoundarySpace  bool   `toml:"programmer_mode_boundary_space"`
}

// DefaultConfig returns a Config with the engine's default tuning values.
func DefaultConfig() *Config {
	return &Config{
		Costs: CostsConfig{
			SegmentPenalty:       3000,
			UnknownWordCost:      10000,
			StructureCostFilter:  2000,
			LengthVarianceWeight: 240,
			LatinPenalty:         8000,
			MixedScriptBonus:     600,
			PureKanjiBonus:       300,
			KatakanaPenalty:      400,
		},
		History: HistoryConfig{
			HalfLifeHours:     168,
			UnigramBoostK:     400,
			BigramBoostK:      300,
			MaxUnigramEntries: 20000,
			MaxBigramEntries:  20000,
			CompactThreshold:  1000,
		},
		Candidates: CandidateConfig{
			MaxResults:    9,
			MaxChainSteps: 4,
			ScanLimit:     256,
			NBest:         10,
		},
		Session: SessionConfig{
			AutoCommitStabilityThreshold: 3,
			AutoCommitMinSegments:        4,
			GhostDebounceMillis:          150,
			ProgrammerModeBoundarySpace:  false,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: ( %s )", configPath)
		return cfg, nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Errorf("Failed to decode config file: %v", err)
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(cfg *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("Failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(cfg)
}

// Update changes history/candidate tuning values and persists them.
func (c *Config) Update(configPath string, maxResults, maxChainSteps *int, halfLifeHours *float64) error {
	if maxResults != nil {
		c.Candidates.MaxResults = *maxResults
	}
	if maxChainSteps != nil {
		c.Candidates.MaxChainSteps = *maxChainSteps
	}
	if halfLifeHours != nil {
		c.History.HalfLifeHours = *halfLifeHours
	}
	return SaveConfig(c, configPath)
}
