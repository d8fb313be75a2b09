package listener

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// analyticsHook sends a "command used" event after a successful invocation.
// Failures are logged and dropped.
type analyticsHook struct {
	tracker  Tracker
	settings Settings
	logger   *zap.Logger
}

// CommandIdentifier derives the analytics command name from message text:
// the first token without its prefix and @botname suffix, alias mapped.
func CommandIdentifier(text string, s Settings) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	token := fields[0]
	_, size := utf8.DecodeRuneInString(token)
	token = token[size:]
	token, _, _ = strings.Cut(token, "@")
	if token == "" {
		return "", false
	}
	return s.AliasCommand(strings.ToLower(token)), true
}

func (h analyticsHook) fire(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Info(fmt.Sprintf("Analytics Error ~ %v", r))
		}
	}()
	if h.tracker == nil {
		return
	}

	command, ok := CommandIdentifier(ev.Text(), h.settings)
	if !ok {
		h.logger.Info("Analytics Error ~ no command token", zap.String("text", ev.Text()))
		return
	}

	identity := ev.SenderID()
	if identity <= 0 {
		identity = h.settings.FallbackUserID
	}
	props := map[string]any{"command": command}
	if err := h.tracker.Track(ctx, identity, "Function "+command, props); err != nil {
		h.logger.Info(fmt.Sprintf("Analytics Error ~ %v", err))
	}
}
