package data

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voidfield/voidfield/internal/archetype"
)

// CountRange bounds the number of rocks a zone is seeded with: [Min, Max).
type CountRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// SizeDist is the binomial the rock bulk is drawn from; bulk = (draw+1)^2.
type SizeDist struct {
	Trials      int     `yaml:"trials"`
	Probability float64 `yaml:"probability"`
}

// MaterialWeight is one entry of the material categorical distribution.
type MaterialWeight struct {
	Material archetype.Material `yaml:"material"`
	Weight   float64            `yaml:"weight"`
}

// Catalog holds the tunables of procedural population. Changing any field
// changes every zone's population, so the file is effectively part of the
// world seed.
type Catalog struct {
	Salt      uint64           `yaml:"salt"`
	Count     CountRange       `yaml:"count"`
	Size      SizeDist         `yaml:"size"`
	Materials []MaterialWeight `yaml:"materials"`
	Grid      int              `yaml:"grid"`      // spawn points per zone side
	MaxSpeed  float64          `yaml:"max_speed"` // drift speed upper bound
}

// DefaultCatalog returns the built-in rock table.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Count: CountRange{Min: 10, Max: 100},
		Size:  SizeDist{Trials: 15, Probability: 0.1},
		Materials: []MaterialWeight{
			{Material: archetype.Ice, Weight: 300},
			{Material: archetype.Metal, Weight: 100},
			{Material: archetype.Stone, Weight: 600},
		},
		Grid:     15,
		MaxSpeed: 5,
	}
}

// LoadCatalog reads a rock table from YAML. Fields absent from the file keep
// their default values.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rock table: %w", err)
	}
	c := DefaultCatalog()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse rock table: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("rock table %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects parameters the generator cannot draw from.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Count.Min < 0 {
		errs = append(errs, fmt.Errorf("count.min %d is negative", c.Count.Min))
	}
	if c.Count.Max <= c.Count.Min {
		errs = append(errs, fmt.Errorf("count range [%d,%d) is empty", c.Count.Min, c.Count.Max))
	}
	if c.Size.Trials < 1 {
		errs = append(errs, fmt.Errorf("size.trials %d must be at least 1", c.Size.Trials))
	}
	if !(c.Size.Probability >= 0 && c.Size.Probability <= 1) {
		errs = append(errs, fmt.Errorf("size.probability %v outside [0,1]", c.Size.Probability))
	}
	if len(c.Materials) == 0 {
		errs = append(errs, errors.New("no materials"))
	}
	total := 0.0
	for _, m := range c.Materials {
		if !(m.Weight >= 0) || math.IsInf(m.Weight, 0) {
			errs = append(errs, fmt.Errorf("material %s weight %v must be finite and not negative", m.Material, m.Weight))
			continue
		}
		total += m.Weight
	}
	if len(c.Materials) > 0 && !(total > 0) {
		errs = append(errs, errors.New("material weights sum to zero"))
	}
	if c.Grid < 1 {
		errs = append(errs, fmt.Errorf("grid %d must be at least 1", c.Grid))
	}
	if !(c.MaxSpeed >= 0) || math.IsInf(c.MaxSpeed, 0) {
		errs = append(errs, fmt.Errorf("max_speed %v must be finite and not negative", c.MaxSpeed))
	}
	return errors.Join(errs...)
}

// Weights returns material weights in catalog order.
func (c *Catalog) Weights() []float64 {
	w := make([]float64, len(c.Materials))
	for i, m := range c.Materials {
		w[i] = m.Weight
	}
	return w
}
