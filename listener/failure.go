package listener

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"
)

var (
	// ErrStopPropagation stops the event source from trying further
	// handlers for the same event. Plugins return it (possibly wrapped) and
	// the listener passes it through untouched.
	ErrStopPropagation = errors.New("stop propagation")

	// ErrMessageTooLong means the plugin output exceeded the message limit.
	ErrMessageTooLong = errors.New("message too long")
	// ErrMessageNotModified means an edit did not change the message.
	ErrMessageNotModified = errors.New("message not modified")
	// ErrMessageEmpty means the plugin produced an empty message.
	ErrMessageEmpty = errors.New("message empty")
)

// Telegram RPC error types mapped onto the sentinels above.
const (
	rpcMessageTooLong     = "MESSAGE_TOO_LONG"
	rpcMessageNotModified = "MESSAGE_NOT_MODIFIED"
	rpcMessageEmpty       = "MESSAGE_EMPTY"
)

// ErrorKind is the failure class of a plugin invocation.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindStopPropagation
	KindTooLong
	KindNotModified
	KindEmpty
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindStopPropagation:
		return "STOP_PROPAGATION"
	case KindTooLong:
		return "TOO_LONG"
	case KindNotModified:
		return "NOT_MODIFIED"
	case KindEmpty:
		return "EMPTY"
	default:
		return "UNKNOWN"
	}
}

// Classify maps a plugin error onto its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrStopPropagation):
		return KindStopPropagation
	case errors.Is(err, ErrMessageTooLong), tgerr.Is(err, rpcMessageTooLong):
		return KindTooLong
	case errors.Is(err, ErrMessageNotModified), tgerr.Is(err, rpcMessageNotModified):
		return KindNotModified
	case errors.Is(err, ErrMessageEmpty), tgerr.Is(err, rpcMessageEmpty):
		return KindEmpty
	default:
		return KindUnknown
	}
}

// PanicError carries a value recovered from a panicking plugin.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

const reportCaption = "Error report generated."

// Report is the diagnostic artifact of an unknown failure.
type Report struct {
	Generated time.Time
	ChatID    int64
	SenderID  int64
	Message   string
	Traceback string
	Summary   string
	Filename  string
	Caption   string
}

// Body renders the report file contents.
func (r Report) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generated: %s. \n", r.Generated.UTC().Format("15:04 02/01/2006"))
	fmt.Fprintf(&b, "# ChatID: %d. \n", r.ChatID)
	fmt.Fprintf(&b, "# UserID: %d. \n", r.SenderID)
	b.WriteString("# Message: \n-----BEGIN TARGET MESSAGE-----\n")
	b.WriteString(r.Message)
	b.WriteString("\n-----END TARGET MESSAGE-----\n")
	b.WriteString("# Traceback: \n-----BEGIN TRACEBACK-----\n")
	b.WriteString(r.Traceback)
	b.WriteString("\n-----END TRACEBACK-----\n")
	fmt.Fprintf(&b, "# Error: \"%s\". \n", r.Summary)
	return b.String()
}

// ReportFilename names a report generated at t, with the unix time written
// in seconds and always at least one fractional digit.
func ReportFilename(t time.Time) string {
	secs := strconv.FormatFloat(float64(t.UnixNano())/float64(time.Second), 'f', -1, 64)
	if !strings.Contains(secs, ".") {
		secs += ".0"
	}
	return "exception." + secs + ".log"
}

// Reporter turns plugin failures into user notices and diagnostic reports.
type Reporter struct {
	lang        Localizer
	delivery    ReportDelivery
	errorReport bool
	now         func() time.Time
	logger      *zap.Logger
}

// NewReporter creates a Reporter. delivery may be nil, in which case
// reports are only logged.
func NewReporter(lang Localizer, delivery ReportDelivery, errorReport bool, now func() time.Time, logger *zap.Logger) *Reporter {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		lang:        lang,
		delivery:    delivery,
		errorReport: errorReport,
		now:         now,
		logger:      logger,
	}
}

// Handle recovers from err raised by the plugin bound by d. It returns
// ErrStopPropagation unchanged and nil for everything else.
func (r *Reporter) Handle(ctx context.Context, d Descriptor, ev Event, err error, stack []byte) error {
	switch Classify(err) {
	case KindStopPropagation:
		return err
	case KindTooLong:
		if editErr := ev.Edit(ctx, r.lang.Get(KeyTooLong)); editErr != nil {
			r.logger.Debug("failed to edit too long notice", zap.Error(editErr))
		}
		return nil
	case KindNotModified, KindEmpty:
		return nil
	case KindUnknown:
		r.unknown(ctx, d, ev, err, stack)
		return nil
	}
	return nil
}

func (r *Reporter) unknown(ctx context.Context, d Descriptor, ev Event, err error, stack []byte) {
	r.logger.Error("plugin failed",
		zap.String("module", d.Module),
		zap.String("command", d.Alias),
		zap.Int64("chat", ev.ChatID()),
		zap.Int64("sender", ev.SenderID()),
		zap.Error(err))

	// The message may already be gone.
	if editErr := ev.Edit(ctx, r.lang.Get(KeyRunError)); editErr != nil {
		r.logger.Debug("failed to edit run error notice", zap.Error(editErr))
	}
	if !d.Diagnostics || !r.errorReport {
		return
	}

	now := r.now()
	report := Report{
		Generated: now.UTC(),
		ChatID:    ev.ChatID(),
		SenderID:  ev.SenderID(),
		Message:   ev.Text(),
		Traceback: traceback(err, stack),
		Summary:   err.Error(),
		Filename:  ReportFilename(now),
		Caption:   reportCaption,
	}
	if r.delivery == nil {
		r.logger.Warn("no report delivery configured", zap.String("file", report.Filename))
		return
	}
	if deliverErr := r.delivery.AttachReport(ctx, report); deliverErr != nil {
		r.logger.Warn("failed to deliver error report", zap.Error(deliverErr))
	}
}

func traceback(err error, stack []byte) string {
	trace := fmt.Sprintf("%+v", err)
	if len(stack) > 0 {
		trace += "\n\n" + strings.TrimRight(string(stack), "\n")
	}
	return trace
}
