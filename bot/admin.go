package bot

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"go-pager-bot/listener"
)

// ParticipantAPI is the part of the Telegram API used to look up chat
// administrators. *tg.Client implements it.
type ParticipantAPI interface {
	ChannelsGetParticipant(ctx context.Context, request *tg.ChannelsGetParticipantRequest) (*tg.ChannelsChannelParticipant, error)
	MessagesGetFullChat(ctx context.Context, chatID int64) (*tg.MessagesChatFull, error)
}

// AdminChecker asks Telegram whether the sender of a message administers
// the chat it was posted in.
type AdminChecker struct {
	api ParticipantAPI
}

var _ listener.AdminChecker = (*AdminChecker)(nil)

// NewAdminChecker creates a checker backed by api.
func NewAdminChecker(api ParticipantAPI) *AdminChecker {
	return &AdminChecker{api: api}
}

// IsAdmin implements listener.AdminChecker. Private chats and anonymous
// senders are never admins.
func (c *AdminChecker) IsAdmin(ctx context.Context, ev listener.Event) (bool, error) {
	me, ok := ev.(*MessageEvent)
	if !ok {
		return false, errors.Errorf("unsupported event type %T", ev)
	}
	sender := me.SenderID()
	if sender <= 0 {
		return false, nil
	}

	switch peer := me.Message().PeerID.(type) {
	case *tg.PeerChannel:
		return c.channelAdmin(ctx, me, peer.ChannelID)
	case *tg.PeerChat:
		return c.chatAdmin(ctx, peer.ChatID, sender)
	default:
		return false, nil
	}
}

func (c *AdminChecker) channelAdmin(ctx context.Context, ev *MessageEvent, channelID int64) (bool, error) {
	var channel tg.InputChannelClass = &tg.InputChannel{ChannelID: channelID}
	if ch, ok := ev.entities.Channels[channelID]; ok {
		channel = ch.AsInput()
	}

	res, err := c.api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
		Channel:     channel,
		Participant: ev.SenderPeer(),
	})
	if err != nil {
		return false, errors.Wrap(err, "get channel participant")
	}
	switch res.Participant.(type) {
	case *tg.ChannelParticipantCreator, *tg.ChannelParticipantAdmin:
		return true, nil
	default:
		return false, nil
	}
}

func (c *AdminChecker) chatAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	res, err := c.api.MessagesGetFullChat(ctx, chatID)
	if err != nil {
		return false, errors.Wrap(err, "get full chat")
	}
	full, ok := res.FullChat.(*tg.ChatFull)
	if !ok {
		return false, errors.Errorf("unexpected full chat type %T", res.FullChat)
	}
	participants, ok := full.Participants.(*tg.ChatParticipants)
	if !ok {
		// participant list hidden from us
		return false, nil
	}
	for _, p := range participants.Participants {
		switch p := p.(type) {
		case *tg.ChatParticipantCreator:
			if p.UserID == userID {
				return true, nil
			}
		case *tg.ChatParticipantAdmin:
			if p.UserID == userID {
				return true, nil
			}
		}
	}
	return false, nil
}
