package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hydrogrid"
	"github.com/viant/hydrogrid/model"
	"github.com/viant/hydrogrid/service/report"
)

func newCmd() *cobra.Command {
	rootCmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	cmd.SetContext(context.Background())
	return cmd
}

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		flags     map[string]string
		expectErr error
		check     func(t *testing.T, config *hydrogrid.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, config *hydrogrid.Config) {
				assert.Equal(t, []float64{0.5, 0.3, 0.2}, config.Rain.Probabilities)
			},
		},
		{
			name: "positional arguments",
			args: []string{"0.6", "0.3", "0.1", "8", "0", "1"},
			check: func(t *testing.T, config *hydrogrid.Config) {
				assert.Equal(t, []float64{0.6, 0.3, 0.1}, config.Rain.Probabilities)
				assert.Equal(t, 8, config.Units[0].Count)
				assert.Equal(t, 0, config.Units[1].Count)
				assert.Equal(t, 1, config.Units[2].Count)
			},
		},
		{
			name:  "flags override",
			flags: map[string]string{"seed": "9", "tick": "10ms", "retries": "0", "report": "mem://localhost/r.yaml"},
			check: func(t *testing.T, config *hydrogrid.Config) {
				assert.Equal(t, uint64(9), config.Simulation.Seed)
				assert.Equal(t, 10*time.Millisecond, config.Simulation.Tick)
				assert.Equal(t, 0, config.Allocator.Retries)
				assert.Equal(t, "mem://localhost/r.yaml", config.Report.URL)
			},
		},
		{
			name:      "bad probability",
			args:      []string{"x", "0.3", "0.1", "8", "0", "1"},
			expectErr: hydrogrid.ErrInvalidProbability,
		},
		{
			name:      "probabilities must sum to one",
			args:      []string{"0.6", "0.6", "0.1", "8", "0", "1"},
			expectErr: hydrogrid.ErrInvalidProbability,
		},
		{
			name:      "not enough capacity",
			args:      []string{"0.6", "0.3", "0.1", "1", "1", "1"},
			expectErr: hydrogrid.ErrInsufficientCapacity,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newCmd()
			for k, v := range tc.flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}
			config, err := loadConfig(cmd, tc.args)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, config)
		})
	}
}

func TestRender(t *testing.T) {
	started := time.Now()
	out := render(&report.Final{
		RunID:     "r1",
		Reason:    report.ReasonExhausted,
		StartedAt: started,
		EndedAt:   started.Add(1500 * time.Millisecond),
		Units: []model.UnitStatus{
			{Name: "H1-1", Capacity: 15, MinWaterLevel: 50, MaxWaterLevel: 200, WaterLevel: 45},
			{Name: "H3-1", Capacity: 2, MinWaterLevel: 10, MaxWaterLevel: 50, WaterLevel: 30},
		},
	})
	for _, expect := range []string{"r1", "exhausted", "1.5s", "H1-1", "[50, 200]", "45.0", "inactive", "2 units"} {
		assert.True(t, strings.Contains(out, expect), expect)
	}
}

func TestVersion(t *testing.T) {
	buf := &bytes.Buffer{}
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "hydrogrid version "+version+"\n", buf.String())
}
