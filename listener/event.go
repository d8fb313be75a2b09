package listener

import (
	"context"
	"regexp"
)

// MessageKind tells new messages apart from edits of existing ones.
type MessageKind int

const (
	NewMessage MessageKind = iota
	EditedMessage
)

// String returns the key suffix used for handler bookkeeping.
func (k MessageKind) String() string {
	switch k {
	case NewMessage:
		return "newMsg"
	case EditedMessage:
		return "editedMsg"
	default:
		return "unknown"
	}
}

// Event is one incoming message as seen by a bound handler.
type Event interface {
	// SenderID is the author of the message, 0 when anonymous.
	SenderID() int64
	// ChatID is the chat the message was posted in.
	ChatID() int64
	// IsGroup reports whether the chat is a group or supergroup.
	IsGroup() bool
	// ViaBotID is the inline bot the message was sent through, 0 if none.
	ViaBotID() int64
	// Text is the raw message text.
	Text() string
	// Edit replaces the text of the message in place.
	Edit(ctx context.Context, text string) error
}

// Handler is a bound handler attached to an EventSource. It returns nil or
// ErrStopPropagation.
type Handler func(ctx context.Context, ev Event) error

// EventDescriptor tells the event source which messages a handler wants.
type EventDescriptor struct {
	Kind MessageKind
	// Pattern must match the message text. Nil matches every message.
	Pattern *regexp.Regexp
	// Incoming and Outgoing restrict the message direction. When both are
	// false every direction is accepted.
	Incoming bool
	Outgoing bool
}

// Matches reports whether a message of the given kind, text and direction
// should be delivered to the handler described by d.
func (d EventDescriptor) Matches(kind MessageKind, text string, outgoing bool) bool {
	if kind != d.Kind {
		return false
	}
	if d.Incoming != d.Outgoing && outgoing != d.Outgoing {
		return false
	}
	if d.Pattern == nil {
		return true
	}
	return d.Pattern.MatchString(text)
}

// SourceHandle identifies a handler attached to an EventSource.
type SourceHandle uint64

// EventSource is the transport delivering message events.
type EventSource interface {
	AddEventHandler(h Handler, d EventDescriptor) SourceHandle
	RemoveEventHandler(h SourceHandle)
}
