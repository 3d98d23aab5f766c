package report

import (
	"context"
	"log/slog"

	"github.com/viant/hydrogrid/model"
)

// LogSink writes records as structured log lines
type LogSink struct {
	logger *slog.Logger
	// Verbose adds one line per unit to each pass.
	Verbose bool
}

func NewLogSink(logger *slog.Logger, verbose bool) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, Verbose: verbose}
}

func (s *LogSink) Pass(ctx context.Context, pass *Pass) error {
	level := slog.LevelInfo
	msg := "allocation pass succeeded"
	if !pass.Success {
		level = slog.LevelWarn
		msg = "allocation pass below minimum generation"
	}
	s.logger.Log(ctx, level, msg,
		"run", pass.RunID,
		"attempt", pass.Attempt,
		"total", pass.Total,
		"activated", pass.Activated)
	if s.Verbose {
		s.logUnits(ctx, pass.RunID, pass.Units)
	}
	return nil
}

func (s *LogSink) Final(ctx context.Context, final *Final) error {
	s.logger.InfoContext(ctx, "grid stopped",
		"run", final.RunID,
		"reason", string(final.Reason),
		"total", final.Total,
		"duration", final.Duration())
	s.logUnits(ctx, final.RunID, final.Units)
	return nil
}

func (s *LogSink) logUnits(ctx context.Context, runID string, units []model.UnitStatus) {
	for _, aUnit := range units {
		s.logger.InfoContext(ctx, "unit",
			"run", runID,
			"unit", aUnit.Name,
			"capacity", aUnit.Capacity,
			"level", aUnit.WaterLevel,
			"min", aUnit.MinWaterLevel,
			"max", aUnit.MaxWaterLevel,
			"active", aUnit.Active)
	}
}
