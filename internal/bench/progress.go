package bench

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"serieslink/internal/logging"
)

const progressStage = "querying"

type progressReporter struct {
	logger  *slog.Logger
	out     io.Writer
	total   int
	sampler *logging.ProgressSampler
}

func newProgressReporter(logger *slog.Logger, out io.Writer, total int) *progressReporter {
	return &progressReporter{
		logger:  logger,
		out:     out,
		total:   total,
		sampler: logging.NewProgressSampler(10),
	}
}

func (p *progressReporter) report(i int, elapsed time.Duration) {
	avg := averageMillis(elapsed, i)
	if p.out != nil {
		fmt.Fprintf(p.out, "\r[%.1fs @ %.1fms] Processing %d / %d...", elapsed.Seconds(), avg, i, p.total)
	}
	if p.total == 0 {
		return
	}
	percent, ok := p.sampler.ShouldLogCount(i, p.total, progressStage)
	if !ok {
		return
	}
	p.logger.Debug("benchmark progress",
		logging.Float64(logging.FieldProgressPercent, percent),
		logging.String(logging.FieldProgressStage, progressStage),
		logging.Int("processed", i),
		logging.Int("total", p.total),
		logging.Float64("avg_ms", avg),
	)
}

func (p *progressReporter) clear() {
	if p.out != nil {
		fmt.Fprint(p.out, "\r"+strings.Repeat(" ", 100)+"\r")
	}
}

// averageMillis is the mean latency of the done queries finished so far.
func averageMillis(elapsed time.Duration, done int) float64 {
	if done <= 0 {
		return 0
	}
	return elapsed.Seconds() * 1000 / float64(done)
}
