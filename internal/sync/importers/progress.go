package importers

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// throughputLogger emits a rows-per-second log line at most once every five
// seconds, per spec.md §4.4 step 4.
type throughputLogger struct {
	log      zerolog.Logger
	feed     string
	start    time.Time
	lastLog  time.Time
	rowCount int64
}

func newThroughputLogger(log zerolog.Logger, feed string) *throughputLogger {
	now := time.Now()
	return &throughputLogger{log: log, feed: feed, start: now, lastLog: now}
}

func (t *throughputLogger) add(n int64) {
	t.rowCount += n
	now := time.Now()
	if now.Sub(t.lastLog) < 5*time.Second {
		return
	}
	t.lastLog = now
	elapsed := now.Sub(t.start).Seconds()
	rate := float64(t.rowCount)
	if elapsed > 0 {
		rate /= elapsed
	}
	t.log.Info().
		Str("feed", t.feed).
		Str("rows", humanize.Comma(t.rowCount)).
		Str("rate", humanize.Comma(int64(rate))+"/s").
		Msg("importing")
}

// Result summarizes a single feed's import pass.
type Result struct {
	RowsWritten int64
	RowsDropped int64
}
