// Package plugins holds the built-in commands shipped with the bot.
package plugins

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"go-pager-bot/analytics"
	"go-pager-bot/listener"
)

// Localization keys used by built-in plugins.
const (
	KeyHelpList     = "help_list"
	KeyHelpNotFound = "help_not_found"
	KeyPingPong     = "ping_pong"
	KeyIDChat       = "id_chat"
	KeyIDUser       = "id_user"
	KeyStatsEmpty   = "stats_empty"
	KeyStatsTitle   = "stats_title"
)

// UsageCounter reports how often each command was used.
type UsageCounter interface {
	Counts(ctx context.Context) ([]analytics.CommandCount, error)
}

// Env is what built-in plugins need beyond the listener itself.
type Env struct {
	Lang listener.Localizer
	// Usage enables the stats command when set.
	Usage UsageCounter
	Now   func() time.Time
}

type plugin struct {
	module string
	name   string
	fn     listener.HandlerFunc
	opts   []listener.Option
}

// Register binds every built-in plugin on l.
func Register(l *listener.Listener, env Env) ([]*listener.Binding, error) {
	if env.Lang == nil {
		return nil, errors.New("plugins: localizer is required")
	}
	if env.Now == nil {
		env.Now = time.Now
	}

	list := []plugin{
		pingPlugin(env),
		helpPlugin(env, l.Help()),
		idPlugin(env),
	}
	if env.Usage != nil {
		list = append(list, statsPlugin(env))
	}

	bindings := make([]*listener.Binding, 0, len(list))
	for _, p := range list {
		decorate, err := l.Listen(p.module, p.opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "register %s", p.module)
		}
		bindings = append(bindings, decorate(p.name, p.fn))
	}
	return bindings, nil
}
