package simulator

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/allocator"
	"github.com/viant/hydrogrid/service/registry"
)

type counter struct{ fired atomic.Int32 }

func (c *counter) Fire() bool {
	c.fired.Add(1)
	return true
}

type recovery bool

func (r recovery) Recovering() bool { return bool(r) }

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func weather(t *testing.T, probabilities ...float64) *model.Weather {
	ret, err := model.NewWeather(model.DefaultRainEvents(), probabilities)
	require.NoError(t, err)
	return ret
}

func TestWorker_Step(t *testing.T) {
	testCases := []struct {
		name         string
		level        float64
		active       bool
		recovering   bool
		ticks        int
		expectLevel  float64
		expectActive bool
		expectFired  int32
	}{
		{name: "active consumes", level: 100, active: true, ticks: 2, expectLevel: 90, expectActive: true},
		{name: "recovery pauses consumption", level: 100, active: true, recovering: true, ticks: 3, expectLevel: 100, expectActive: true},
		{name: "reaching minimum deactivates", level: 60, active: true, ticks: 2, expectLevel: 50, expectFired: 1},
		{name: "inactive in band keeps level", level: 100, ticks: 3, expectLevel: 100},
		{name: "inactive above maximum bleeds off", level: 210, ticks: 2, expectLevel: 200},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			aUnit := model.NewUnit("H1-1", "H1", 15, 50, 200, tc.level)
			aRegistry := registry.New(aUnit)
			if tc.active {
				aRegistry.Update(func(tx *registry.Tx) { tx.Activate(aUnit) })
			}
			signal := &counter{}
			service, err := New(aRegistry,
				WithWeather(weather(t, 1, 0, 0)),
				WithRecovery(recovery(tc.recovering)),
				WithRebalance(signal),
				WithLogger(quiet))
			require.NoError(t, err)

			w := service.newWorker(aUnit, 0)
			for i := 0; i < tc.ticks; i++ {
				w.step()
			}
			assert.Equal(t, tc.expectLevel, aUnit.WaterLevel())
			assert.Equal(t, tc.expectActive, aUnit.IsActive())
			assert.Equal(t, tc.expectFired, signal.fired.Load())
			assert.NoError(t, aRegistry.Verify())
		})
	}
}

func TestWorker_Rain(t *testing.T) {
	aUnit := model.NewUnit("H3-1", "H3", 2, 10, 50, 20)
	service, err := New(registry.New(aUnit), WithWeather(weather(t, 0, 1, 0)), WithLogger(quiet))
	require.NoError(t, err)
	w := service.newWorker(aUnit, 0)

	w.step()
	assert.Equal(t, 20.0, aUnit.WaterLevel(), "drawn event applies from the next tick")
	assert.Equal(t, "downpour", w.rain.Name)
	for i := 0; i < 10; i++ {
		w.step()
	}
	assert.Equal(t, 40.0, aUnit.WaterLevel())
	assert.Equal(t, 0, w.remaining)
}

// An active unit overflowing its band is released and the allocator refills
// generation from the remaining units.
func TestWorker_Overflow(t *testing.T) {
	full := model.NewUnit("full", "H1", 60, 50, 200, 195)
	spare := model.NewUnit("spare", "H1", 60, 50, 200, 100)
	other := model.NewUnit("other", "H2", 50, 25, 100, 60)
	aRegistry := registry.New(full, spare, other)
	allocatorService := allocator.New(aRegistry,
		allocator.WithConfig(allocator.Config{MinGeneration: 100, MaxGeneration: 150, Retries: 1, RetryDelay: time.Millisecond}),
		allocator.WithLogger(quiet))
	require.True(t, allocatorService.Apply(context.Background()))
	require.True(t, full.IsActive())
	require.True(t, spare.IsActive())
	require.False(t, other.IsActive())
	require.Equal(t, 120.0, aRegistry.Total())

	signal := &counter{}
	service, err := New(aRegistry,
		WithConfig(Config{Tick: time.Millisecond, Consumption: 0}),
		WithWeather(weather(t, 0, 0, 1)),
		WithRecovery(allocatorService),
		WithRebalance(signal),
		WithLogger(quiet))
	require.NoError(t, err)
	w := service.newWorker(full, 0)
	w.step() // draws deluge
	w.step() // 199
	assert.True(t, full.IsActive())
	w.step() // 203
	assert.False(t, full.IsActive())
	assert.Equal(t, 60.0, aRegistry.Total())
	assert.Equal(t, int32(1), signal.fired.Load())

	assert.True(t, allocatorService.Apply(context.Background()))
	assert.True(t, spare.IsActive())
	assert.True(t, other.IsActive())
	assert.False(t, full.IsActive(), "overflowing unit is not eligible again while above its band")
	assert.Equal(t, 110.0, aRegistry.Total())
	assert.NoError(t, aRegistry.Verify())
}

func TestService_Run(t *testing.T) {
	aUnit := model.NewUnit("H2-1", "H2", 5, 25, 100, 62.5)
	tick := 5 * time.Millisecond
	service, err := New(registry.New(aUnit), WithConfig(Config{Tick: tick, Consumption: 5}), WithWeather(weather(t, 0.5, 0.3, 0.2)), WithLogger(quiet))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx, aUnit, 3) }()
	time.Sleep(4 * tick)
	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(tick * 20):
		t.Fatal("driver did not stop")
	}
}

func TestService_Streams(t *testing.T) {
	service, err := New(registry.New(), WithConfig(Config{Tick: time.Millisecond, Seed: 42}), WithWeather(weather(t, 1, 0, 0)))
	require.NoError(t, err)
	draws := func(id int) []float64 {
		w := service.newWorker(nil, id)
		var ret []float64
		for i := 0; i < 5; i++ {
			ret = append(ret, w.draw.Rand())
		}
		return ret
	}
	assert.Equal(t, draws(1), draws(1))
	assert.NotEqual(t, draws(1), draws(2))
	for _, v := range draws(7) {
		assert.True(t, v >= 0 && v < 1)
	}
}

func TestNew(t *testing.T) {
	_, err := New(registry.New())
	assert.Error(t, err)
	_, err = New(registry.New(), WithWeather(weather(t, 1, 0, 0)), WithConfig(Config{}))
	assert.Error(t, err)
}
