package plugins

import (
	"context"
	"fmt"
	"strings"

	"go-pager-bot/listener"
)

func statsPlugin(env Env) plugin {
	return plugin{
		module: "stats",
		name:   "stats",
		opts: []listener.Option{
			listener.Command("stats"),
			listener.Description("Show how often each command was used."),
			listener.OwnersOnly(),
		},
		fn: func(ctx context.Context, inv *listener.Invocation) error {
			counts, err := env.Usage.Counts(ctx)
			if err != nil {
				return err
			}
			if len(counts) == 0 {
				return inv.Edit(ctx, env.Lang.Get(KeyStatsEmpty))
			}

			var b strings.Builder
			b.WriteString("**" + env.Lang.Get(KeyStatsTitle) + "**")
			for _, c := range counts {
				fmt.Fprintf(&b, "\n`%s` %d", c.Command, c.Count)
			}
			return inv.Edit(ctx, b.String())
		},
	}
}
