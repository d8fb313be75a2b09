package plugins

import (
	"context"
	"strings"

	"go-pager-bot/listener"
)

func helpPlugin(env Env, help *listener.HelpRegistry) plugin {
	return plugin{
		module: "help",
		name:   "help",
		opts: []listener.Option{
			listener.Command("help"),
			listener.Parameters("<command>"),
			listener.Description("List commands, or show how to use one."),
			listener.BuiltIn(),
		},
		fn: func(ctx context.Context, inv *listener.Invocation) error {
			if len(inv.Parameter) > 0 {
				alias := strings.ToLower(inv.Parameter[0])
				if text, ok := help.Get(alias); ok {
					return inv.Edit(ctx, text)
				}
				return inv.Edit(ctx, env.Lang.Get(KeyHelpNotFound))
			}

			aliases := help.Aliases()
			var b strings.Builder
			b.WriteString("**" + env.Lang.Get(KeyHelpList) + "**\n")
			for i, alias := range aliases {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString("`" + alias + "`")
			}
			return inv.Edit(ctx, b.String())
		},
	}
}
