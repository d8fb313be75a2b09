package listener

import (
	"context"
	"slices"
)

// Localizer resolves user-facing strings.
type Localizer interface {
	Get(key string) string
}

// Localization keys used by the listener.
const (
	KeyErrorPrefix = "error_prefix"
	KeyCommand     = "command"
	KeyHasReg      = "has_reg"
	KeyTooLong     = "too_long"
	KeyRunError    = "run_error"
	KeyUseMethod   = "use_method"
)

// AdminChecker decides whether the sender of ev administers the chat.
type AdminChecker interface {
	IsAdmin(ctx context.Context, ev Event) (bool, error)
}

// AdminCheckerFunc adapts a function to AdminChecker.
type AdminCheckerFunc func(ctx context.Context, ev Event) (bool, error)

// IsAdmin implements AdminChecker.
func (f AdminCheckerFunc) IsAdmin(ctx context.Context, ev Event) (bool, error) {
	return f(ctx, ev)
}

// ReportDelivery hands a diagnostic report to whoever reads them.
type ReportDelivery interface {
	AttachReport(ctx context.Context, r Report) error
}

// Tracker records analytics events.
type Tracker interface {
	Track(ctx context.Context, identity int64, event string, props map[string]any) error
}

// Settings is the part of the process configuration read by the listener.
type Settings struct {
	// AllowAnalytics enables the usage event after successful invocations.
	AllowAnalytics bool
	// ErrorReport enables diagnostic reports for unknown failures.
	ErrorReport bool
	// BotAdmins are the owner ids allowed to run owners-only commands.
	BotAdmins []int64
	// DisabledCommands lists aliases of plugin commands that are not bound.
	DisabledCommands []string
	// CommandAlias maps a command name to the alias users type instead.
	CommandAlias map[string]string
	// UserBot is the bot username. Non-empty selects slash command mode.
	UserBot string
	// FallbackUserID receives analytics for anonymous or channel senders.
	FallbackUserID int64
}

// SlashMode reports whether commands are typed as /cmd (bot account)
// rather than -cmd (self account).
func (s Settings) SlashMode() bool {
	return s.UserBot != ""
}

// Prefix is the command prefix for the configured mode.
func (s Settings) Prefix() string {
	if s.SlashMode() {
		return "/"
	}
	return "-"
}

// AliasCommand returns the configured alias for command, or command itself.
func (s Settings) AliasCommand(command string) string {
	if alias, ok := s.CommandAlias[command]; ok && alias != "" {
		return alias
	}
	return command
}

func (s Settings) isDisabled(alias string) bool {
	return slices.Contains(s.DisabledCommands, alias)
}
