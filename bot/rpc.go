package bot

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"go-pager-bot/listener"
)

// RPCEditor edits messages through the Telegram API, rendering the
// **bold** and `code` markers used by command output.
type RPCEditor struct {
	raw *tg.Client
}

var _ MessageEditor = (*RPCEditor)(nil)

// NewRPCEditor creates an editor on top of raw.
func NewRPCEditor(raw *tg.Client) *RPCEditor {
	return &RPCEditor{raw: raw}
}

// EditMessage implements MessageEditor.
func (e *RPCEditor) EditMessage(ctx context.Context, peer tg.InputPeerClass, id int, text string) error {
	plain, entities := parseMarkdown(text)
	req := &tg.MessagesEditMessageRequest{
		Peer: peer,
		ID:   id,
	}
	req.SetMessage(plain)
	if len(entities) > 0 {
		req.SetEntities(entities)
	}
	if _, err := e.raw.MessagesEditMessage(ctx, req); err != nil {
		return errors.Wrap(err, "edit message")
	}
	return nil
}

// SavedMessages uploads diagnostic reports as text documents to the
// account's own Saved Messages chat.
type SavedMessages struct {
	raw *tg.Client
}

var _ listener.ReportDelivery = (*SavedMessages)(nil)

// NewSavedMessages creates a report delivery on top of raw.
func NewSavedMessages(raw *tg.Client) *SavedMessages {
	return &SavedMessages{raw: raw}
}

// AttachReport implements listener.ReportDelivery.
func (s *SavedMessages) AttachReport(ctx context.Context, r listener.Report) error {
	file, err := uploader.NewUploader(s.raw).FromBytes(ctx, r.Filename, []byte(r.Body()))
	if err != nil {
		return errors.Wrap(err, "upload report")
	}

	doc := message.UploadedDocument(file, styling.Plain(r.Caption)).
		Filename(r.Filename).
		MIME("text/plain")
	if _, err := message.NewSender(s.raw).Self().Media(ctx, doc); err != nil {
		return errors.Wrap(err, "send report")
	}
	return nil
}
