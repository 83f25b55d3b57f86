package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/voidfield/voidfield/internal/zone"
)

type Config struct {
	Zone    ZoneConfig    `toml:"zone"`
	Stream  StreamConfig  `toml:"stream"`
	Loop    LoopConfig    `toml:"loop"`
	Ship    ShipConfig    `toml:"ship"`
	Data    DataConfig    `toml:"data"`
	Logging LoggingConfig `toml:"logging"`
}

type ZoneConfig struct {
	HalfSize float64 `toml:"half_size"` // half the side of a zone square, world units
}

type StreamConfig struct {
	DespawnDistance float64 `toml:"despawn_distance"` // zone centre → player, triggers bulk despawn
	FarDistance     float64 `toml:"far_distance"`     // object → player, triggers single eviction
	ClearRadius     float64 `toml:"clear_radius"`     // kept free of rocks around the origin at startup
	DriftSeed       uint64  `toml:"drift_seed"`       // seeds spawn velocities
}

type LoopConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	StatsEvery int           `toml:"stats_every"` // ticks between stat log lines, 0 = never
	Duration   time.Duration `toml:"duration"`    // stop after this long, 0 = until signalled
}

// ShipConfig drives the headless autopilot that stands in for player input.
type ShipConfig struct {
	Speed     float64       `toml:"speed"`      // units per second
	TurnEvery time.Duration `toml:"turn_every"` // heading change interval
	Seed      uint64        `toml:"seed"`
}

type DataConfig struct {
	RockTable string `toml:"rock_table"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the stock configuration. Distances scale with the zone
// half-size: despawn at 5h, far eviction at 8h.
func Defaults() *Config {
	const half = 300.0
	return &Config{
		Zone: ZoneConfig{HalfSize: half},
		Stream: StreamConfig{
			DespawnDistance: 5 * half,
			FarDistance:     8 * half,
			ClearRadius:     30,
			DriftSeed:       1,
		},
		Loop: LoopConfig{
			TickRate:   50 * time.Millisecond,
			StatsEvery: 100,
		},
		Ship: ShipConfig{
			Speed:     400,
			TurnEvery: 4 * time.Second,
			Seed:      7,
		},
		Data: DataConfig{
			RockTable: "data/yaml/rock_table.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SpawnReach is the farthest a zone in the 3x3 spawn neighbourhood can be from
// the player, measured centre to player.
func (c *Config) SpawnReach() float64 {
	return zone.NewGrid(c.Zone.HalfSize).Reach()
}

// Validate rejects settings that would make streaming ill-defined. The despawn
// distance must clear SpawnReach or a zone could be spawned and despawned from
// the same position.
func (c *Config) Validate() error {
	var errs []error
	h := c.Zone.HalfSize
	if !(h > 0) || math.IsInf(h, 1) {
		errs = append(errs, fmt.Errorf("zone.half_size %v must be positive", h))
	}
	// Written as positive assertions so NaN fails every check.
	if reach := c.SpawnReach(); !(c.Stream.DespawnDistance > reach) || math.IsInf(c.Stream.DespawnDistance, 0) {
		errs = append(errs, fmt.Errorf("stream.despawn_distance %v must exceed spawn reach %.1f", c.Stream.DespawnDistance, reach))
	}
	if !(c.Stream.FarDistance >= c.Stream.DespawnDistance) || math.IsInf(c.Stream.FarDistance, 0) {
		errs = append(errs, fmt.Errorf("stream.far_distance %v is below despawn_distance %v", c.Stream.FarDistance, c.Stream.DespawnDistance))
	}
	if !(c.Stream.ClearRadius >= 0 && c.Stream.ClearRadius < h) {
		errs = append(errs, fmt.Errorf("stream.clear_radius %v must be in [0, half_size)", c.Stream.ClearRadius))
	}
	if c.Loop.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("loop.tick_rate %v must be positive", c.Loop.TickRate))
	}
	if c.Loop.StatsEvery < 0 || c.Loop.Duration < 0 {
		errs = append(errs, errors.New("loop.stats_every and loop.duration must not be negative"))
	}
	if !(c.Ship.Speed >= 0) || math.IsInf(c.Ship.Speed, 0) || c.Ship.TurnEvery <= 0 {
		errs = append(errs, errors.New("ship.speed must be finite and not negative and ship.turn_every must be positive"))
	}
	return errors.Join(errs...)
}
