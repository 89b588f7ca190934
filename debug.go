package cellfx

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timings and counts.
// Only populated when Engine.debug is true.
type debugStats struct {
	updateTime    time.Duration
	drawTime      time.Duration
	postTime      time.Duration
	compositeTime time.Duration
	windowCount   int
	entityCount   int
	lightCount    int
}

func (s debugStats) total() time.Duration {
	return s.updateTime + s.drawTime + s.postTime + s.compositeTime
}

// debugLog logs the frame stats at debug level.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	e.log.Debug("frame",
		slog.Uint64("n", e.frames),
		slog.Duration("update", stats.updateTime),
		slog.Duration("draw", stats.drawTime),
		slog.Duration("post", stats.postTime),
		slog.Duration("composite", stats.compositeTime),
		slog.Duration("total", stats.total()),
		slog.Int("windows", stats.windowCount),
		slog.Int("entities", stats.entityCount),
		slog.Int("lights", stats.lightCount),
		slog.Bool("parallel", e.Parallel),
	)
}
