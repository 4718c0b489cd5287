package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	SeedFile string `json:"seed_file"`
	Battle   *struct {
		HandSize          *int     `json:"hand_size"`
		AIDelayMS         *int     `json:"ai_delay_ms"`
		ComboAIDelayMS    *int     `json:"combo_ai_delay_ms"`
		SpecialChance     *float64 `json:"special_chance"`
		PowerCardRatio    *float64 `json:"power_card_ratio"`
		SessionTTLSeconds *int     `json:"session_ttl_seconds"`
	} `json:"battle"`
	// Optional base URL of a remote warmup scoring service. When empty the
	// calculation runs in-process.
	ScoringURL string `json:"scoring_url"`
}

// BattleConfig tunes deck generation, pacing and session lifetime.
type BattleConfig struct {
	HandSize       int
	AIDelay        time.Duration
	ComboAIDelay   time.Duration
	SpecialChance  float64
	PowerCardRatio float64
	SessionTTL     time.Duration
}

// LoadedConfig contains the server address, seed file location and battle
// tuning.
type LoadedConfig struct {
	ServerAddress string
	SeedFile      string
	ScoringURL    string
	Battle        BattleConfig
}

// Default returns the configuration used when no file is present.
func Default() *LoadedConfig {
	return &LoadedConfig{
		ServerAddress: ":8080",
		SeedFile:      "./decks.yaml",
		Battle: BattleConfig{
			HandSize:       3,
			AIDelay:        1500 * time.Millisecond,
			ComboAIDelay:   2000 * time.Millisecond,
			SpecialChance:  0.15,
			PowerCardRatio: 0.10,
			SessionTTL:     30 * time.Minute,
		},
	}
}

// LoadConfig reads the configuration file at path. A missing file yields
// the defaults; any value present in the file overrides its default.
func LoadConfig(path string) (*LoadedConfig, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if rc.Server != nil && strings.TrimSpace(rc.Server.Address) != "" {
		cfg.ServerAddress = strings.TrimSpace(rc.Server.Address)
	}
	if s := strings.TrimSpace(rc.SeedFile); s != "" {
		cfg.SeedFile = s
	}
	cfg.ScoringURL = strings.TrimRight(strings.TrimSpace(rc.ScoringURL), "/")

	if b := rc.Battle; b != nil {
		if b.HandSize != nil {
			cfg.Battle.HandSize = *b.HandSize
		}
		if b.AIDelayMS != nil {
			cfg.Battle.AIDelay = time.Duration(*b.AIDelayMS) * time.Millisecond
		}
		if b.ComboAIDelayMS != nil {
			cfg.Battle.ComboAIDelay = time.Duration(*b.ComboAIDelayMS) * time.Millisecond
		}
		if b.SpecialChance != nil {
			cfg.Battle.SpecialChance = *b.SpecialChance
		}
		if b.PowerCardRatio != nil {
			cfg.Battle.PowerCardRatio = *b.PowerCardRatio
		}
		if b.SessionTTLSeconds != nil {
			cfg.Battle.SessionTTL = time.Duration(*b.SessionTTLSeconds) * time.Second
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *LoadedConfig) validate() error {
	b := c.Battle
	switch {
	case b.HandSize < 1:
		return fmt.Errorf("battle.hand_size must be at least 1 (got %d)", b.HandSize)
	case b.AIDelay < 0 || b.ComboAIDelay < 0:
		return errors.New("battle delays must not be negative")
	case b.SpecialChance < 0 || b.SpecialChance > 1:
		return fmt.Errorf("battle.special_chance must be within [0,1] (got %v)", b.SpecialChance)
	case b.PowerCardRatio < 0 || b.PowerCardRatio > 1:
		return fmt.Errorf("battle.power_card_ratio must be within [0,1] (got %v)", b.PowerCardRatio)
	case b.SessionTTL <= 0:
		return errors.New("battle.session_ttl_seconds must be positive")
	}
	if c.ScoringURL != "" && !strings.HasPrefix(c.ScoringURL, "http://") && !strings.HasPrefix(c.ScoringURL, "https://") {
		return fmt.Errorf("scoring_url must be an http(s) URL (got %q)", c.ScoringURL)
	}
	return nil
}
