package listener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gotd/td/tgerr"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindUnknown, "UNKNOWN"},
		{KindStopPropagation, "STOP_PROPAGATION"},
		{KindTooLong, "TOO_LONG"},
		{KindNotModified, "NOT_MODIFIED"},
		{KindEmpty, "EMPTY"},
		{ErrorKind(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.kind.String(); got != test.expected {
			t.Errorf("ErrorKind.String() = %s, expected %s", got, test.expected)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"stop propagation", ErrStopPropagation, KindStopPropagation},
		{"wrapped stop", fmt.Errorf("done: %w", ErrStopPropagation), KindStopPropagation},
		{"too long sentinel", ErrMessageTooLong, KindTooLong},
		{"too long rpc", tgerr.New(400, "MESSAGE_TOO_LONG"), KindTooLong},
		{"not modified rpc", tgerr.New(400, "MESSAGE_NOT_MODIFIED"), KindNotModified},
		{"empty rpc", fmt.Errorf("edit: %w", tgerr.New(400, "MESSAGE_EMPTY")), KindEmpty},
		{"empty sentinel", ErrMessageEmpty, KindEmpty},
		{"other rpc", tgerr.New(400, "PEER_ID_INVALID"), KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"panic", &PanicError{Value: "boom"}, KindUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("Classify(%v) = %s, expected %s", test.err, got, test.expected)
			}
		})
	}
}

func TestReport_Body(t *testing.T) {
	r := Report{
		Generated: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
		ChatID:    -100123,
		SenderID:  42,
		Message:   "-ping now",
		Traceback: "main.go:10",
		Summary:   "boom",
	}

	body := r.Body()
	for _, want := range []string{
		"# Generated: 14:05 09/03/2024. \n",
		"# ChatID: -100123. \n",
		"# UserID: 42. \n",
		"-----BEGIN TARGET MESSAGE-----\n-ping now\n-----END TARGET MESSAGE-----\n",
		"-----BEGIN TRACEBACK-----\nmain.go:10\n-----END TRACEBACK-----\n",
		"# Error: \"boom\". \n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Report body missing %q:\n%s", want, body)
		}
	}
}

func TestReportFilename(t *testing.T) {
	tests := []struct {
		at       time.Time
		expected string
	}{
		{time.Unix(1700000000, 500000000), "exception.1700000000.5.log"},
		{time.Unix(1704067200, 0), "exception.1704067200.0.log"},
	}

	for _, tt := range tests {
		if got := ReportFilename(tt.at); got != tt.expected {
			t.Errorf("ReportFilename(%v) = %s, expected %s", tt.at, got, tt.expected)
		}
	}
}

func TestReporter_Handle(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Unix(1700000000, 0) }
	desc := Descriptor{Module: "plugins.test", Alias: "test", Diagnostics: true}

	t.Run("stop propagation is returned untouched", func(t *testing.T) {
		delivery := &fakeDelivery{}
		r := NewReporter(testLang, delivery, true, now, nil)
		ev := &fakeEvent{}

		err := r.Handle(ctx, desc, ev, ErrStopPropagation, nil)
		if err != ErrStopPropagation {
			t.Errorf("Expected ErrStopPropagation, got: %v", err)
		}
		if len(ev.edits) != 0 || len(delivery.reports) != 0 {
			t.Error("Expected no edits and no reports")
		}
	})

	t.Run("too long edits notice without report", func(t *testing.T) {
		delivery := &fakeDelivery{}
		r := NewReporter(testLang, delivery, true, now, nil)
		ev := &fakeEvent{}

		if err := r.Handle(ctx, desc, ev, tgerr.New(400, "MESSAGE_TOO_LONG"), nil); err != nil {
			t.Fatalf("Handle returned: %v", err)
		}
		if len(ev.edits) != 1 || ev.edits[0] != "Output is too long" {
			t.Errorf("Expected one too long edit, got: %v", ev.edits)
		}
		if len(delivery.reports) != 0 {
			t.Errorf("Expected no report, got %d", len(delivery.reports))
		}
	})

	t.Run("not modified is idempotent", func(t *testing.T) {
		delivery := &fakeDelivery{}
		r := NewReporter(testLang, delivery, true, now, nil)
		ev := &fakeEvent{}

		for i := 0; i < 2; i++ {
			if err := r.Handle(ctx, desc, ev, ErrMessageNotModified, nil); err != nil {
				t.Fatalf("Handle returned: %v", err)
			}
		}
		if len(ev.edits) != 0 || len(delivery.reports) != 0 {
			t.Errorf("Expected nothing visible, got edits %v reports %d", ev.edits, len(delivery.reports))
		}
	})

	t.Run("unknown without diagnostics", func(t *testing.T) {
		delivery := &fakeDelivery{}
		r := NewReporter(testLang, delivery, true, now, nil)
		ev := &fakeEvent{}
		noDiag := desc
		noDiag.Diagnostics = false

		if err := r.Handle(ctx, noDiag, ev, errors.New("boom"), nil); err != nil {
			t.Fatalf("Handle returned: %v", err)
		}
		if len(ev.edits) != 1 || ev.edits[0] != "Something went wrong" {
			t.Errorf("Expected run error edit, got: %v", ev.edits)
		}
		if len(delivery.reports) != 0 {
			t.Error("Expected no report without diagnostics")
		}
	})

	t.Run("unknown with reporting disabled", func(t *testing.T) {
		delivery := &fakeDelivery{}
		r := NewReporter(testLang, delivery, false, now, nil)

		if err := r.Handle(ctx, desc, &fakeEvent{}, errors.New("boom"), nil); err != nil {
			t.Fatalf("Handle returned: %v", err)
		}
		if len(delivery.reports) != 0 {
			t.Error("Expected no report when error reporting is off")
		}
	})

	t.Run("edit failure does not block report", func(t *testing.T) {
		delivery := &fakeDelivery{}
		r := NewReporter(testLang, delivery, true, now, nil)
		ev := &fakeEvent{sender: 3, chat: 4, text: "-test", editErr: errors.New("message deleted")}

		if err := r.Handle(ctx, desc, ev, errors.New("boom"), []byte("goroutine 1")); err != nil {
			t.Fatalf("Handle returned: %v", err)
		}
		if len(delivery.reports) != 1 {
			t.Fatalf("Expected one report, got %d", len(delivery.reports))
		}
		rep := delivery.reports[0]
		if rep.Filename != "exception.1700000000.0.log" || rep.Caption != "Error report generated." {
			t.Errorf("Unexpected report metadata: %s / %s", rep.Filename, rep.Caption)
		}
		if !strings.Contains(rep.Traceback, "goroutine 1") {
			t.Errorf("Expected stack in traceback, got: %s", rep.Traceback)
		}
	})

	t.Run("delivery failure is contained", func(t *testing.T) {
		delivery := &fakeDelivery{err: errors.New("upload failed")}
		r := NewReporter(testLang, delivery, true, now, nil)

		if err := r.Handle(ctx, desc, &fakeEvent{}, errors.New("boom"), nil); err != nil {
			t.Errorf("Expected failure to be contained, got: %v", err)
		}
	})
}
