package corona

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the game balance. Zero values are not usable; start from
// DefaultConfig.
type Config struct {
	// Close-contact cooldowns (hug, brain).
	AliveTouchCooldown time.Duration `yaml:"alive_touch_cooldown"`
	DeadTouchCooldown  time.Duration `yaml:"dead_touch_cooldown"`

	// Ambient worsening range when no explicit delta is given.
	InfectMin int `yaml:"infect_min"`
	InfectMax int `yaml:"infect_max"`

	// Revival through brain eating.
	ReviveBrains  int64 `yaml:"revive_brains"`
	RevivePercent int   `yaml:"revive_percent"`

	// RNG seed (0 => time-based)
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the balance the event shipped with.
func DefaultConfig() Config {
	return Config{
		AliveTouchCooldown: 3 * time.Hour,
		DeadTouchCooldown:  time.Hour,
		InfectMin:          1,
		InfectMax:          8,
		ReviveBrains:       35,
		RevivePercent:      75,
	}
}

func (c Config) validate() error {
	if c.AliveTouchCooldown < 0 || c.DeadTouchCooldown < 0 {
		return InvalidConfigError("cooldowns must be >= 0")
	}
	if c.InfectMin <= 0 || c.InfectMax < c.InfectMin {
		return InvalidConfigError(fmt.Sprintf("invalid infect range: %d..%d", c.InfectMin, c.InfectMax))
	}
	if c.ReviveBrains <= 0 {
		return InvalidConfigError("ReviveBrains must be > 0")
	}
	if c.RevivePercent < 0 || c.RevivePercent > 100 {
		return InvalidConfigError("RevivePercent must be within 0..100")
	}
	return nil
}

// LoadConfigFile overlays the YAML balance file at path on top of the
// defaults. Keys missing from the file keep their default value.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decode balance file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
