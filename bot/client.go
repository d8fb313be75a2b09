package bot

import (
	"fmt"
	"sync"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher"
	"github.com/celestix/gotgproto/dispatcher/handlers"
	"github.com/celestix/gotgproto/ext"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"go-pager-bot/config"
	"go-pager-bot/listener"
)

// TelegramBot wraps the gotgproto client and feeds message updates into an
// EventRouter.
type TelegramBot struct {
	client *gotgproto.Client
	logger *zap.Logger
	config *config.BotConfig
	router *EventRouter
	editor MessageEditor

	mu      sync.Mutex
	running bool
}

// NewTelegramBot creates a new TelegramBot instance. The client is not
// connected until Start.
func NewTelegramBot(cfg *config.BotConfig, logger *zap.Logger) (*TelegramBot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &TelegramBot{
		config: cfg,
		logger: logger,
		router: NewEventRouter(logger.Named("router")),
	}, nil
}

// Start connects and logs in, then starts delivering updates to the router.
func (b *TelegramBot) Start() error {
	b.logger.Info("Starting Telegram client", zap.Bool("bot_account", b.config.IsBot()))

	ctype := gotgproto.ClientTypePhone(b.config.Phone)
	if b.config.IsBot() {
		ctype = gotgproto.ClientTypeBot(b.config.Token)
	}

	client, err := gotgproto.NewClient(b.config.APIID, b.config.APIHash, ctype, &gotgproto.ClientOpts{
		Session:          sessionMaker.SqlSession(sqlite.Open(b.config.SessionPath)),
		Logger:           b.logger.Named("gotgproto"),
		DisableCopyright: true,
	})
	if err != nil {
		return errors.Wrap(err, "create gotgproto client")
	}

	b.client = client
	b.editor = NewRPCEditor(client.API())
	client.Dispatcher.AddHandler(handlers.NewAnyUpdate(b.onUpdate))

	b.mu.Lock()
	b.running = true
	b.mu.Unlock()

	b.logger.Info("Telegram client started",
		zap.Int64("self_id", client.Self.ID),
		zap.String("username", client.Self.Username))
	return nil
}

// Wait blocks until the client stops.
func (b *TelegramBot) Wait() error {
	if b.client == nil {
		return fmt.Errorf("bot client is not initialized")
	}
	return b.client.Idle()
}

// Stop gracefully shuts down the bot.
func (b *TelegramBot) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}
	b.logger.Info("Stopping Telegram client")
	b.client.Stop()
	b.running = false
	return nil
}

// IsRunning returns true if the bot is currently running.
func (b *TelegramBot) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// GetClient returns the underlying gotgproto client.
func (b *TelegramBot) GetClient() *gotgproto.Client {
	return b.client
}

// API returns the raw Telegram API client.
func (b *TelegramBot) API() *tg.Client {
	return b.client.API()
}

// Self returns the logged in account.
func (b *TelegramBot) Self() *tg.User {
	return b.client.Self
}

// Router returns the event source handlers are attached to.
func (b *TelegramBot) Router() *EventRouter {
	return b.router
}

func (b *TelegramBot) onUpdate(ctx *ext.Context, u *ext.Update) error {
	msg, kind, ok := messageFromUpdate(u.UpdateClass)
	if !ok {
		return nil
	}

	var entities tg.Entities
	if u.Entities != nil {
		entities = *u.Entities
	}
	var selfID int64
	if ctx.Self != nil {
		selfID = ctx.Self.ID
	}

	ev := NewMessageEvent(msg, entities, selfID, b.editor)
	if err := b.router.Dispatch(ctx.Context, kind, ev); err != nil {
		if errors.Is(err, listener.ErrStopPropagation) {
			return dispatcher.EndGroups
		}
		return err
	}
	return nil
}

// messageFromUpdate extracts a text message and whether it is new or
// edited. Service messages and other updates are skipped.
func messageFromUpdate(update tg.UpdateClass) (*tg.Message, listener.MessageKind, bool) {
	var (
		raw  tg.MessageClass
		kind listener.MessageKind
	)
	switch u := update.(type) {
	case *tg.UpdateNewMessage:
		raw, kind = u.Message, listener.NewMessage
	case *tg.UpdateNewChannelMessage:
		raw, kind = u.Message, listener.NewMessage
	case *tg.UpdateEditMessage:
		raw, kind = u.Message, listener.EditedMessage
	case *tg.UpdateEditChannelMessage:
		raw, kind = u.Message, listener.EditedMessage
	default:
		return nil, 0, false
	}

	msg, ok := raw.(*tg.Message)
	if !ok {
		return nil, 0, false
	}
	return msg, kind, true
}
