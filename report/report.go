// Package report delivers diagnostic reports produced by the listener.
package report

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-pager-bot/listener"
)

// DirDelivery writes every report into a directory.
type DirDelivery struct {
	dir string
}

// NewDirDelivery creates dir if needed and returns a delivery writing into it.
func NewDirDelivery(dir string) (*DirDelivery, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create report dir %q", dir)
	}
	return &DirDelivery{dir: dir}, nil
}

// Path returns where a report with filename is stored.
func (d *DirDelivery) Path(filename string) string {
	return filepath.Join(d.dir, filepath.Base(filename))
}

// AttachReport implements listener.ReportDelivery.
func (d *DirDelivery) AttachReport(_ context.Context, r listener.Report) error {
	if err := os.WriteFile(d.Path(r.Filename), []byte(r.Body()), 0o644); err != nil {
		return errors.Wrap(err, "write report")
	}
	return nil
}

// Fanout delivers every report to all targets, joining their failures.
type Fanout []listener.ReportDelivery

// AttachReport implements listener.ReportDelivery.
func (f Fanout) AttachReport(ctx context.Context, r listener.Report) error {
	var errs []error
	for _, target := range f {
		if err := target.AttachReport(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Throttled drops reports above a rate so a failing command cannot flood
// the owner's chat.
type Throttled struct {
	next    listener.ReportDelivery
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewThrottled allows burst reports at once, refilling one per every.
// A non-positive every disables throttling.
func NewThrottled(next listener.ReportDelivery, burst int, every time.Duration, logger *zap.Logger) *Throttled {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// AttachReport implements listener.ReportDelivery.
func (t *Throttled) AttachReport(ctx context.Context, r listener.Report) error {
	if !t.limiter.Allow() {
		t.logger.Warn("Dropping error report, rate limit reached",
			zap.String("filename", r.Filename),
			zap.String("error", r.Summary))
		return nil
	}
	return t.next.AttachReport(ctx, r)
}
