package hydrogrid

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/viant/afs"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/allocator"
	"github.com/viant/hydrogrid/service/simulator"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the grid configuration. Fields
// left out of a YAML document keep their DefaultConfig values.
type Config struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Rain       RainConfig       `json:"rain" yaml:"rain"`
	Units      []model.UnitType `json:"units" yaml:"units"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Allocator  AllocatorConfig  `json:"allocator" yaml:"allocator"`
	Report     ReportConfig     `json:"report" yaml:"report"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
	Tracing    TracingConfig    `json:"tracing" yaml:"tracing"`
}

type GenerationConfig struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type RainConfig struct {
	Probabilities []float64         `json:"probabilities" yaml:"probabilities"`
	Events        []model.RainEvent `json:"events" yaml:"events"`
}

type SimulationConfig struct {
	Tick        time.Duration `json:"tick" yaml:"tick"`
	Consumption float64       `json:"consumption" yaml:"consumption"`
	// Seed of 0 picks a time based seed.
	Seed uint64 `json:"seed" yaml:"seed"`
}

type AllocatorConfig struct {
	Retries int `json:"retries" yaml:"retries"`
	// RetryDelay of 0 waits one tick.
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay"`
}

type ReportConfig struct {
	// URL is an afs location for the final report, %s expands to the run ID.
	URL     string `json:"url" yaml:"url"`
	Verbose bool   `json:"verbose" yaml:"verbose"`
}

type MetricsConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type TracingConfig struct {
	File string `json:"file" yaml:"file"`
}

// DefaultConfig returns a runnable configuration: a 7/4/4 H1/H2/H3
// inventory, 0.5/0.3/0.2 rain odds and a [100,150] generation band.
func DefaultConfig() *Config {
	types := model.DefaultUnitTypes()
	for i, count := range []int{7, 4, 4} {
		types[i].Count = count
	}
	allocatorConfig := allocator.DefaultConfig()
	simulatorConfig := simulator.DefaultConfig()
	return &Config{
		Generation: GenerationConfig{Min: allocatorConfig.MinGeneration, Max: allocatorConfig.MaxGeneration},
		Rain: RainConfig{
			Probabilities: []float64{0.5, 0.3, 0.2},
			Events:        model.DefaultRainEvents(),
		},
		Units: types,
		Simulation: SimulationConfig{
			Tick:        simulatorConfig.Tick,
			Consumption: simulatorConfig.Consumption,
		},
		Allocator: AllocatorConfig{Retries: allocatorConfig.Retries},
	}
}

// LoadConfig decodes the YAML document at location (any afs URL or local
// path) on top of DefaultConfig and validates the result. A units list
// replaces the inventory; each entry starts from the default type of the same
// kind.
func LoadConfig(ctx context.Context, location string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", location, err)
	}
	ret := DefaultConfig()
	templates := slices.Clone(ret.Units)
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", location, err)
	}
	overlay := &unitsOverlay{}
	if err = yaml.Unmarshal(data, overlay); err != nil {
		return nil, fmt.Errorf("failed to decode units of %s: %w", location, err)
	}
	if overlay.Units != nil {
		ret.Units = mergeUnitTypes(templates, overlay.Units)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// unitsOverlay captures which unit type fields a document sets, so a partial
// entry such as {kind: H1, count: 8} keeps the rest of the H1 template.
type unitsOverlay struct {
	Units []unitTypeOverlay `yaml:"units"`
}

type unitTypeOverlay struct {
	Kind          string   `yaml:"kind"`
	Capacity      *float64 `yaml:"capacity"`
	MinWaterLevel *float64 `yaml:"min"`
	MaxWaterLevel *float64 `yaml:"max"`
	Count         *int     `yaml:"count"`
}

// mergeUnitTypes builds the listed unit types, each on top of the template of
// the same kind when there is one.
func mergeUnitTypes(templates []model.UnitType, overlays []unitTypeOverlay) []model.UnitType {
	ret := make([]model.UnitType, 0, len(overlays))
	for _, overlay := range overlays {
		aType := model.UnitType{Kind: overlay.Kind}
		if idx := slices.IndexFunc(templates, func(t model.UnitType) bool { return t.Kind == overlay.Kind }); idx != -1 {
			aType = templates[idx]
		}
		if overlay.Capacity != nil {
			aType.Capacity = *overlay.Capacity
		}
		if overlay.MinWaterLevel != nil {
			aType.MinWaterLevel = *overlay.MinWaterLevel
		}
		if overlay.MaxWaterLevel != nil {
			aType.MaxWaterLevel = *overlay.MaxWaterLevel
		}
		if overlay.Count != nil {
			aType.Count = *overlay.Count
		}
		ret = append(ret, aType)
	}
	return ret
}

// SetCounts assigns per type unit counts in Units order.
func (c *Config) SetCounts(counts ...int) error {
	if len(counts) != len(c.Units) {
		return fmt.Errorf("%w: expected %d counts, got %d", ErrInvalidCount, len(c.Units), len(counts))
	}
	for i, count := range counts {
		c.Units[i].Count = count
	}
	return nil
}

// Weather builds the rain model.
func (c *Config) Weather() (*model.Weather, error) {
	ret, err := model.NewWeather(c.Rain.Events, c.Rain.Probabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProbability, err)
	}
	return ret, nil
}

// AllocatorConfig returns the allocator settings; a zero retry delay becomes one tick.
func (c *Config) AllocatorConfig() allocator.Config {
	ret := allocator.Config{
		MinGeneration: c.Generation.Min,
		MaxGeneration: c.Generation.Max,
		Retries:       c.Allocator.Retries,
		RetryDelay:    c.Allocator.RetryDelay,
	}
	if ret.RetryDelay <= 0 {
		ret.RetryDelay = c.Simulation.Tick
	}
	return ret
}

func (c *Config) SimulatorConfig() simulator.Config {
	return simulator.Config{
		Tick:        c.Simulation.Tick,
		Consumption: c.Simulation.Consumption,
		Seed:        c.Simulation.Seed,
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Generation.Min <= 0 || c.Generation.Max < c.Generation.Min {
		errs = append(errs, fmt.Errorf("%w: [%v,%v]", ErrInvalidGeneration, c.Generation.Min, c.Generation.Max))
	}
	if _, err := c.Weather(); err != nil {
		errs = append(errs, err)
	}
	units := 0
	for _, aType := range c.Units {
		if aType.Count < 0 {
			errs = append(errs, fmt.Errorf("%w: %s count %d", ErrInvalidCount, aType.Kind, aType.Count))
		}
		if aType.Capacity <= 0 || aType.MinWaterLevel >= aType.MaxWaterLevel {
			errs = append(errs, fmt.Errorf("%w: %s capacity %v band [%v,%v]", ErrInvalidBand, aType.Kind, aType.Capacity, aType.MinWaterLevel, aType.MaxWaterLevel))
		}
		units += max(aType.Count, 0)
	}
	if units == 0 {
		errs = append(errs, fmt.Errorf("%w: no units configured", ErrInvalidCount))
	} else if capacity := model.TotalCapacity(c.Units); capacity < c.Generation.Min {
		errs = append(errs, fmt.Errorf("%w: %v available, %v required", ErrInsufficientCapacity, capacity, c.Generation.Min))
	}
	if c.Simulation.Tick <= 0 || c.Simulation.Consumption < 0 || c.Allocator.Retries < 0 {
		errs = append(errs, fmt.Errorf("%w: tick %v, consumption %v, retries %d", ErrInvalidSimulation, c.Simulation.Tick, c.Simulation.Consumption, c.Allocator.Retries))
	}
	return errors.Join(errs...)
}
