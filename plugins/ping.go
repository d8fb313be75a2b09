package plugins

import (
	"context"
	"fmt"
	"time"

	"go-pager-bot/listener"
)

func pingPlugin(env Env) plugin {
	return plugin{
		module: "ping",
		name:   "ping",
		opts: []listener.Option{
			listener.Command("ping"),
			listener.Description("Measure how long the bot takes to edit a message."),
		},
		fn: func(ctx context.Context, inv *listener.Invocation) error {
			start := env.Now()
			pong := env.Lang.Get(KeyPingPong)
			if err := inv.Edit(ctx, pong); err != nil {
				return err
			}
			latency := env.Now().Sub(start).Round(time.Millisecond)
			return inv.Edit(ctx, fmt.Sprintf("**%s**\n`%s`", pong, latency))
		},
	}
}
