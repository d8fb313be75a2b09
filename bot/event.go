package bot

import (
	"context"

	"github.com/gotd/td/tg"

	"go-pager-bot/listener"
)

// channelIDOffset marks channel ids so they never collide with users or
// basic groups.
const channelIDOffset = 1_000_000_000_000

// MessageEditor edits a sent message in place.
type MessageEditor interface {
	EditMessage(ctx context.Context, peer tg.InputPeerClass, id int, text string) error
}

// MessageEvent adapts a Telegram message to listener.Event.
type MessageEvent struct {
	msg      *tg.Message
	text     string
	entities tg.Entities
	selfID   int64
	editor   MessageEditor
}

var _ listener.Event = (*MessageEvent)(nil)

// NewMessageEvent wraps msg. selfID is the id of the logged in account and
// is used as the author of outgoing private messages.
func NewMessageEvent(msg *tg.Message, entities tg.Entities, selfID int64, editor MessageEditor) *MessageEvent {
	return &MessageEvent{
		msg:      msg,
		text:     msg.Message,
		entities: entities,
		selfID:   selfID,
		editor:   editor,
	}
}

// Message returns the underlying Telegram message.
func (e *MessageEvent) Message() *tg.Message { return e.msg }

// Outgoing reports whether the logged in account sent the message.
func (e *MessageEvent) Outgoing() bool { return e.msg.Out }

// SenderID implements listener.Event.
func (e *MessageEvent) SenderID() int64 {
	switch from := e.msg.FromID.(type) {
	case *tg.PeerUser:
		return from.UserID
	case nil:
	default:
		// anonymous admin or channel signature
		return 0
	}
	if e.msg.Out {
		return e.selfID
	}
	if peer, ok := e.msg.PeerID.(*tg.PeerUser); ok {
		return peer.UserID
	}
	return 0
}

// ChatID implements listener.Event. Basic groups are negated and channels
// are shifted below -1e12.
func (e *MessageEvent) ChatID() int64 {
	return markedPeerID(e.msg.PeerID)
}

// IsGroup implements listener.Event.
func (e *MessageEvent) IsGroup() bool {
	switch peer := e.msg.PeerID.(type) {
	case *tg.PeerChat:
		return true
	case *tg.PeerChannel:
		if ch, ok := e.entities.Channels[peer.ChannelID]; ok {
			return ch.Megagroup
		}
		return !e.msg.Post
	default:
		return false
	}
}

// ViaBotID implements listener.Event.
func (e *MessageEvent) ViaBotID() int64 {
	id, _ := e.msg.GetViaBotID()
	return id
}

// Text implements listener.Event. It is the text the message arrived with,
// unaffected by later edits.
func (e *MessageEvent) Text() string { return e.text }

// Edit implements listener.Event.
func (e *MessageEvent) Edit(ctx context.Context, text string) error {
	if err := e.editor.EditMessage(ctx, e.InputPeer(), e.msg.ID, text); err != nil {
		return err
	}
	return nil
}

// InputPeer resolves the chat of the message for RPC calls.
func (e *MessageEvent) InputPeer() tg.InputPeerClass {
	switch peer := e.msg.PeerID.(type) {
	case *tg.PeerUser:
		return e.userPeer(peer.UserID)
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: peer.ChatID}
	case *tg.PeerChannel:
		if ch, ok := e.entities.Channels[peer.ChannelID]; ok {
			return ch.AsInputPeer()
		}
		return &tg.InputPeerChannel{ChannelID: peer.ChannelID}
	default:
		return &tg.InputPeerEmpty{}
	}
}

// SenderPeer resolves the author of the message, nil when anonymous.
func (e *MessageEvent) SenderPeer() tg.InputPeerClass {
	id := e.SenderID()
	if id <= 0 {
		return nil
	}
	if id == e.selfID {
		return &tg.InputPeerSelf{}
	}
	return e.userPeer(id)
}

func (e *MessageEvent) userPeer(id int64) tg.InputPeerClass {
	if u, ok := e.entities.Users[id]; ok {
		return u.AsInputPeer()
	}
	return &tg.InputPeerUser{UserID: id}
}

func markedPeerID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return -p.ChatID
	case *tg.PeerChannel:
		return -(channelIDOffset + p.ChannelID)
	default:
		return 0
	}
}
