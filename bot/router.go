package bot

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"go-pager-bot/listener"
)

type route struct {
	handle  listener.SourceHandle
	handler listener.Handler
	desc    listener.EventDescriptor
}

// EventRouter delivers message events to attached handlers in the order
// they were attached. It implements listener.EventSource.
type EventRouter struct {
	mu     sync.RWMutex
	next   listener.SourceHandle
	routes []route
	logger *zap.Logger
}

var _ listener.EventSource = (*EventRouter)(nil)

// NewEventRouter creates an empty router.
func NewEventRouter(logger *zap.Logger) *EventRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRouter{logger: logger}
}

// AddEventHandler implements listener.EventSource.
func (r *EventRouter) AddEventHandler(h listener.Handler, d listener.EventDescriptor) listener.SourceHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.routes = append(r.routes, route{handle: r.next, handler: h, desc: d})
	r.logger.Debug("Attached handler",
		zap.Uint64("handle", uint64(r.next)),
		zap.Stringer("kind", d.Kind))
	return r.next
}

// RemoveEventHandler implements listener.EventSource. Unknown handles are
// ignored.
func (r *EventRouter) RemoveEventHandler(h listener.SourceHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rt := range r.routes {
		if rt.handle == h {
			r.routes = append(r.routes[:i:i], r.routes[i+1:]...)
			return
		}
	}
}

// Len returns the number of attached handlers.
func (r *EventRouter) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Dispatch runs every matching handler for ev. It returns
// listener.ErrStopPropagation when a handler asked to stop; other handler
// errors are logged and do not stop delivery.
func (r *EventRouter) Dispatch(ctx context.Context, kind listener.MessageKind, ev *MessageEvent) error {
	r.mu.RLock()
	routes := make([]route, len(r.routes))
	copy(routes, r.routes)
	r.mu.RUnlock()

	text := ev.Text()
	for _, rt := range routes {
		if !rt.desc.Matches(kind, text, ev.Outgoing()) {
			continue
		}
		err := rt.handler(ctx, ev)
		switch {
		case err == nil:
		case errors.Is(err, listener.ErrStopPropagation):
			return err
		default:
			r.logger.Error("Handler failed",
				zap.Uint64("handle", uint64(rt.handle)),
				zap.Int64("chat_id", ev.ChatID()),
				zap.Error(err))
		}
	}
	return nil
}
