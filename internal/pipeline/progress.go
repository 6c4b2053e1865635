package pipeline

import (
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"im2rec/internal/logging"
)

// progressReporter follows how far the list reader has advanced through the
// partition's byte span.
type progressReporter interface {
	update(done int64)
	finish()
}

func newProgress(w io.Writer, total int64, logger *slog.Logger) progressReporter {
	if w != nil {
		return &barProgress{bar: progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("packing"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)}
	}
	return &logProgress{total: total, logger: logger, sampler: logging.NewProgressSampler(10)}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) update(done int64) { _ = p.bar.Set64(done) }

func (p *barProgress) finish() { _ = p.bar.Finish() }

// logProgress logs at every tenth of the span when no terminal is attached.
type logProgress struct {
	total   int64
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func (p *logProgress) update(done int64) {
	if p.total <= 0 {
		return
	}
	percent := float64(done) * 100 / float64(p.total)
	if !p.sampler.ShouldLog(percent) {
		return
	}
	p.logger.Debug("list progress",
		logging.Float64("percent", float64(int(percent*10))/10),
		logging.String("read", humanize.Bytes(uint64(max(done, 0)))),
		logging.String("span", humanize.Bytes(uint64(p.total))),
	)
}

func (p *logProgress) finish() {}
