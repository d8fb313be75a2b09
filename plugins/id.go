package plugins

import (
	"context"
	"fmt"

	"go-pager-bot/listener"
)

func idPlugin(env Env) plugin {
	return plugin{
		module: "id",
		name:   "id",
		opts: []listener.Option{
			listener.Command("id"),
			listener.Description("Show the id of this chat and of the sender."),
		},
		fn: func(ctx context.Context, inv *listener.Invocation) error {
			return inv.Edit(ctx, fmt.Sprintf("**%s:** `%d`\n**%s:** `%d`",
				env.Lang.Get(KeyIDChat), inv.ChatID(),
				env.Lang.Get(KeyIDUser), inv.SenderID()))
		},
	}
}
