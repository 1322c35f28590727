package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WeekDays are the recognized schedule keys, ordered to match
// time.Weekday: domingo=Sunday through sabado=Saturday.
var WeekDays = []string{"domingo", "segunda", "terca", "quarta", "quinta", "sexta", "sabado"}

// DaySetting configures one weekday of the group's recurring schedule.
// Unselected days are ignored regardless of their time value.
type DaySetting struct {
	Selected bool   `yaml:"selected"`
	Time     string `yaml:"time"` // 24-hour "HH:MM"
}

// Player is one roster entry. Rating is 1..5; out-of-range or missing
// ratings are treated as 1 by the sorter rather than rejected here.
type Player struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Rating      int    `yaml:"rating"`
	Confirmed   bool   `yaml:"confirmed"`
	BroughtGear bool   `yaml:"brought_gear"`
}

type Group struct {
	Name string `yaml:"name"`
}

type Rules struct {
	PlayersPerTeam int `yaml:"players_per_team"`
}

type Guidelines struct {
	MaxRatingSpread int `yaml:"max_rating_spread"`
}

type Config struct {
	Group      Group                 `yaml:"group"`
	Schedule   map[string]DaySetting `yaml:"schedule"`
	Draft      string                `yaml:"draft"`
	Rules      Rules                 `yaml:"rules"`
	Guidelines Guidelines            `yaml:"guidelines"`
	Players    []Player              `yaml:"players"`
}

// ConfirmedPlayers returns the roster entries marked as attending.
func (c *Config) ConfirmedPlayers() []Player {
	var players []Player
	for _, p := range c.Players {
		if p.Confirmed {
			players = append(players, p)
		}
	}
	return players
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Draft == "" {
		cfg.Draft = "snake"
	}
	if cfg.Guidelines.MaxRatingSpread == 0 {
		cfg.Guidelines.MaxRatingSpread = 2
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.Rules.PlayersPerTeam < 1 {
		return fmt.Errorf("rules.players_per_team must be at least 1, got %d", c.Rules.PlayersPerTeam)
	}

	known := make(map[string]bool, len(WeekDays))
	for _, d := range WeekDays {
		known[d] = true
	}
	for day := range c.Schedule {
		if !known[day] {
			return fmt.Errorf("unknown schedule day %q (expected one of domingo..sabado)", day)
		}
	}

	// A malformed day time is tolerated downstream (the day is skipped),
	// but a duplicate or empty player id would corrupt team output silently.
	seen := make(map[string]bool)
	for _, p := range c.Players {
		if p.ID == "" {
			return fmt.Errorf("player %q has no id", p.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}
