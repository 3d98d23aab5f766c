package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/registry"
	"gonum.org/v1/gonum/stat/distuv"
)

// seedStride spreads per-unit random streams apart.
const seedStride = 7919

// Service runs simulation drivers
type Service struct {
	config    Config
	registry  *registry.Registry
	weather   *model.Weather
	recovery  Recovery
	rebalance Signal
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

type worker struct {
	id        int
	service   *Service
	unit      *model.Unit
	draw      distuv.Uniform
	rain      model.RainEvent
	remaining int
}

// New creates a simulation service for units held by aRegistry
func New(aRegistry *registry.Registry, options ...Option) (*Service, error) {
	s := &Service{
		config:   DefaultConfig(),
		registry: aRegistry,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.weather == nil {
		return nil, fmt.Errorf("weather is required")
	}
	if s.config.Tick <= 0 {
		return nil, fmt.Errorf("invalid tick: %v", s.config.Tick)
	}
	return s, nil
}

// Run drives aUnit every tick until ctx is done. id selects the unit's
// random stream; distinct units must use distinct ids.
func (s *Service) Run(ctx context.Context, aUnit *model.Unit, id int) error {
	w := s.newWorker(aUnit, id)
	ticker := time.NewTicker(s.config.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			w.step()
		}
	}
}

func (s *Service) newWorker(aUnit *model.Unit, id int) *worker {
	src := rand.NewPCG(s.config.Seed, s.config.Seed+uint64(id)*seedStride)
	return &worker{
		id:      id,
		service: s,
		unit:    aUnit,
		draw:    distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// step advances the unit by one tick. A drawn rain event starts adding water
// on the following tick.
func (w *worker) step() {
	s := w.service
	if w.remaining > 0 {
		w.unit.AddWaterLevel(w.rain.Increment)
		w.remaining--
	} else {
		w.rain = s.weather.Pick(w.draw.Rand())
		w.remaining = w.rain.Duration
	}

	level := w.unit.WaterLevel()
	switch {
	case w.unit.IsActive():
		if s.recovery != nil && s.recovery.Recovering() {
			break
		}
		level = w.unit.AddWaterLevel(-s.config.Consumption)
		if w.unit.OutOfBand(level) && s.registry.Deactivate(w.unit) {
			s.metrics.Deactivated(metrics.ReasonOutOfBand, 1)
			s.logger.Info("unit left its band", "unit", w.unit.Name, "capacity", w.unit.Capacity, "level", level, "total", s.registry.Total())
			if s.rebalance != nil {
				s.rebalance.Fire()
			}
		}
	case level > w.unit.MaxWaterLevel:
		level = w.unit.AddWaterLevel(-s.config.Consumption)
	}
	s.metrics.WaterLevel(w.unit.Name, level)
}
