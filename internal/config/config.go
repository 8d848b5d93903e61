// Package config holds relink configuration: defaults in code, overrides
// from RELINK_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
)

// Config holds all relink configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Engine   EngineConfig   `koanf:"engine"`
}

type ServerConfig struct {
	Bind string `koanf:"bind"`
	Port int    `koanf:"port"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// EngineConfig is the serializable shape of the scoring engine defaults.
// Per-request parameters (query, budget overrides) layer on top of these.
type EngineConfig struct {
	MaxTokens        int     `koanf:"max_tokens"`
	TopK             int     `koanf:"top_k"`
	WeightRelevance  float64 `koanf:"weight_relevance"`
	WeightImportance float64 `koanf:"weight_importance"`
	WeightType       float64 `koanf:"weight_type"`

	DecayCurve     string  `koanf:"decay_curve"` // linear, exponential, step
	DecayHorizon   int     `koanf:"decay_horizon_seconds"`
	DecayHalfLife  int     `koanf:"decay_half_life_seconds"`
	DecayThreshold int     `koanf:"decay_threshold_seconds"`
	DecayFloor     float64 `koanf:"decay_floor"`

	SummaryWords  int    `koanf:"summary_words"`
	TokenCounter  string `koanf:"token_counter"` // estimate or tiktoken
	TiktokenModel string `koanf:"tiktoken_model"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37710,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Engine: EngineConfig{
			MaxTokens:        2000,
			TopK:             0,
			WeightRelevance:  1.0 / 3,
			WeightImportance: 1.0 / 3,
			WeightType:       1.0 / 3,
			DecayCurve:       "exponential",
			DecayHalfLife:    int((24 * time.Hour).Seconds()),
			DecayFloor:       0.1,
			SummaryWords:     120,
			TokenCounter:     "estimate",
			TiktokenModel:    "gpt-4o",
		},
	}
}

// Load returns the defaults overlaid with RELINK_* environment variables,
// e.g. RELINK_ENGINE_MAX_TOKENS=4000 or RELINK_SERVER_PORT=9000.
func Load() (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(env.Provider("RELINK_", ".", func(s string) string {
		// RELINK_ENGINE_MAX_TOKENS -> engine.max_tokens; koanf's dotted
		// keys only nest one level here, so split on the first underscore
		// after the section name.
		s = strings.ToLower(strings.TrimPrefix(s, "RELINK_"))
		if i := strings.IndexByte(s, '_'); i >= 0 {
			return s[:i] + "." + s[i+1:]
		}
		return s
	}), nil); err != nil {
		return cfg, fmt.Errorf("load env config: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Curve builds the configured decay curve. Parameter validation belongs to
// scoring.Config.Validate; this only rejects unknown curve names.
func (e EngineConfig) Curve() (scoring.Curve, error) {
	switch e.DecayCurve {
	case "linear":
		return scoring.Linear{Horizon: time.Duration(e.DecayHorizon) * time.Second}, nil
	case "exponential":
		return scoring.Exponential{HalfLife: time.Duration(e.DecayHalfLife) * time.Second}, nil
	case "step":
		return scoring.Step{
			Threshold: time.Duration(e.DecayThreshold) * time.Second,
			Floor:     e.DecayFloor,
		}, nil
	default:
		return nil, fmt.Errorf("unknown decay curve %q", e.DecayCurve)
	}
}

// ScoringConfig translates the engine defaults into a scoring.Config. The
// result still goes through scoring's own validation on every call.
func (e EngineConfig) ScoringConfig() (scoring.Config, error) {
	curve, err := e.Curve()
	if err != nil {
		return scoring.Config{}, err
	}
	return scoring.Config{
		MaxTokens:    e.MaxTokens,
		TopK:         e.TopK,
		WRelevance:   e.WeightRelevance,
		WImportance:  e.WeightImportance,
		WType:        e.WeightType,
		Curve:        curve,
		SummaryWords: e.SummaryWords,
	}, nil
}
