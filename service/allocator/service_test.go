package allocator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hydrogrid/metrics"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/registry"
	"github.com/viant/hydrogrid/service/report"
)

type passRecorder struct {
	mux    sync.Mutex
	passes []report.Pass
}

func (r *passRecorder) Pass(_ context.Context, pass *report.Pass) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.passes = append(r.passes, *pass)
	return nil
}

func (r *passRecorder) Final(context.Context, *report.Final) error { return nil }

func testConfig() Config {
	return Config{MinGeneration: 100, MaxGeneration: 150, Retries: 3, RetryDelay: time.Millisecond}
}

func newService(units []*model.Unit, options ...Option) (*Service, *registry.Registry, *passRecorder) {
	sink := &passRecorder{}
	aRegistry := registry.New(units...)
	options = append([]Option{
		WithConfig(testConfig()),
		WithSink(sink),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
		WithRunID("test"),
	}, options...)
	return New(aRegistry, options...), aRegistry, sink
}

func unitsOf(capacities ...float64) []*model.Unit {
	var ret []*model.Unit
	for i, capacity := range capacities {
		ret = append(ret, model.NewUnit(fmt.Sprintf("u%d", i+1), "H", capacity, 0, 100, 50))
	}
	return ret
}

func activeNames(aRegistry *registry.Registry) []string {
	var ret []string
	for _, aUnit := range aRegistry.Units() {
		if aUnit.IsActive() {
			ret = append(ret, aUnit.Name)
		}
	}
	return ret
}

func TestService_Apply(t *testing.T) {
	testCases := []struct {
		name         string
		units        []*model.Unit
		expectOK     bool
		expectActive []string
		expectTotal  float64
	}{
		{
			name:         "exact prefix reaches minimum",
			units:        unitsOf(50, 30, 20, 10),
			expectOK:     true,
			expectActive: []string{"u1", "u2", "u3"},
			expectTotal:  100,
		},
		{
			name:         "stops at first satisfying prefix",
			units:        unitsOf(60, 50, 40, 30),
			expectOK:     true,
			expectActive: []string{"u1", "u2"},
			expectTotal:  110,
		},
		{
			name:         "skips unit overshooting maximum",
			units:        unitsOf(90, 70, 50),
			expectOK:     true,
			expectActive: []string{"u1", "u3"},
			expectTotal:  140,
		},
		{
			name:         "maximum is inclusive",
			units:        unitsOf(90, 60),
			expectOK:     true,
			expectActive: []string{"u1", "u2"},
			expectTotal:  150,
		},
		{
			name:         "unit at minimum level is never activated",
			units:        append(unitsOf(60, 60), model.NewUnit("dry", "H", 80, 10, 100, 10)),
			expectOK:     true,
			expectActive: []string{"u1", "u2"},
			expectTotal:  120,
		},
		{
			name:         "unit one above minimum level is eligible",
			units:        []*model.Unit{model.NewUnit("edge", "H", 100, 10, 100, 11)},
			expectOK:     true,
			expectActive: []string{"edge"},
			expectTotal:  100,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, aRegistry, sink := newService(tc.units)
			assert.Equal(t, tc.expectOK, service.Apply(context.Background()))
			assert.ElementsMatch(t, tc.expectActive, activeNames(aRegistry))
			assert.Equal(t, tc.expectTotal, aRegistry.Total())
			assert.NoError(t, aRegistry.Verify())
			require.Len(t, sink.passes, 1)
			assert.True(t, sink.passes[0].Success)
			assert.False(t, service.Recovering())
		})
	}
}

func TestService_Apply_Idempotent(t *testing.T) {
	service, aRegistry, sink := newService(unitsOf(60, 50, 40))
	require.True(t, service.Apply(context.Background()))
	before := activeNames(aRegistry)

	assert.True(t, service.Apply(context.Background()))
	assert.Equal(t, before, activeNames(aRegistry))
	assert.Equal(t, 110.0, aRegistry.Total())
	require.Len(t, sink.passes, 2)
	assert.Empty(t, sink.passes[1].Activated)
}

// Three in-band units totalling 35 can never reach 100.
func TestService_Apply_Exhausted(t *testing.T) {
	var haltCause error
	halts := 0
	service, aRegistry, sink := newService(unitsOf(15, 15, 5), WithHalt(func(cause error) {
		halts++
		haltCause = cause
	}))

	assert.False(t, service.Apply(context.Background()))
	assert.Equal(t, 1, halts)
	assert.ErrorIs(t, haltCause, ErrGenerationExhausted)
	assert.Equal(t, 0, service.RemainingRetries())
	assert.Empty(t, activeNames(aRegistry))
	assert.Equal(t, 0.0, aRegistry.Total())
	assert.NoError(t, aRegistry.Verify())

	require.Len(t, sink.passes, testConfig().Retries+1)
	assert.Equal(t, []string{"u1", "u2", "u3"}, sink.passes[0].Activated)
	assert.Len(t, sink.passes[0].Units, 3)
	for _, pass := range sink.passes {
		assert.False(t, pass.Success)
		assert.Equal(t, 35.0, pass.Total)
	}
}

func TestService_Apply_Recovers(t *testing.T) {
	units := unitsOf(60, 30)
	dry := model.NewUnit("dry", "H", 20, 10, 100, 10)
	units = append(units, dry)
	service, aRegistry, _ := newService(units, WithConfig(Config{MinGeneration: 100, MaxGeneration: 150, Retries: 3, RetryDelay: 20 * time.Millisecond}))

	go func() {
		time.Sleep(5 * time.Millisecond)
		dry.SetWaterLevel(40)
	}()
	assert.True(t, service.Apply(context.Background()))
	assert.Equal(t, 110.0, aRegistry.Total())
	assert.False(t, service.Recovering())
	assert.Equal(t, 3, service.RemainingRetries(), "budget restored after success")
	assert.GreaterOrEqual(t, service.Attempts(), 2)
}

func TestService_Apply_Cancelled(t *testing.T) {
	halted := false
	service, _, _ := newService(unitsOf(10), WithConfig(Config{MinGeneration: 100, MaxGeneration: 150, Retries: 3, RetryDelay: time.Hour}), WithHalt(func(error) {
		halted = true
	}))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	started := time.Now()
	assert.False(t, service.Apply(ctx))
	assert.Less(t, time.Since(started), time.Second)
	assert.False(t, halted, "interrupt is not exhaustion")
	assert.True(t, service.Recovering())
	assert.Equal(t, 2, service.RemainingRetries())
}

type cancellingSink struct {
	cancel context.CancelFunc
	errs   []error
}

func (s *cancellingSink) Pass(ctx context.Context, _ *report.Pass) error {
	s.cancel()
	s.errs = append(s.errs, ctx.Err())
	return nil
}

func (s *cancellingSink) Final(context.Context, *report.Final) error { return nil }

func TestService_Apply_ShutdownDuringPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &cancellingSink{cancel: cancel}
	service, _, _ := newService(unitsOf(10), WithSink(sink))

	assert.False(t, service.Apply(ctx))
	require.Len(t, sink.errs, 1)
	assert.NoError(t, sink.errs[0], "pass is reported even when the run stops mid-pass")
}
