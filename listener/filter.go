package listener

import (
	"context"
	"slices"

	"go.uber.org/zap"
)

// Predicate is one access check. Returning false silently drops the event.
type Predicate struct {
	Name  string
	Allow func(ctx context.Context, ev Event) bool
}

// Filter is an ordered chain of predicates. The predicates are independent,
// so order only decides which one short-circuits first.
type Filter struct {
	predicates []Predicate
	logger     *zap.Logger
}

// NewFilter builds the active chain for a command.
func NewFilter(d Descriptor, s Settings, admin AdminChecker, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	var chain []Predicate
	if d.OwnersOnly {
		chain = append(chain, OwnerPredicate(s.BotAdmins))
	}
	if d.AdminsOnly {
		chain = append(chain, AdminPredicate(admin, logger))
	}
	if d.GroupsOnly {
		chain = append(chain, GroupPredicate())
	}
	if !d.SupportInline {
		chain = append(chain, InlinePredicate())
	}
	return Filter{predicates: chain, logger: logger}
}

// Allow runs the chain and reports whether every predicate passed.
func (f Filter) Allow(ctx context.Context, ev Event) bool {
	for _, p := range f.predicates {
		if !p.Allow(ctx, ev) {
			f.logger.Debug("event denied",
				zap.String("predicate", p.Name),
				zap.Int64("chat", ev.ChatID()),
				zap.Int64("sender", ev.SenderID()))
			return false
		}
	}
	return true
}

// Len is the number of active predicates.
func (f Filter) Len() int {
	return len(f.predicates)
}

// OwnerPredicate passes senders listed in owners. No sender or no owners denies.
func OwnerPredicate(owners []int64) Predicate {
	return Predicate{
		Name: "owners_only",
		Allow: func(_ context.Context, ev Event) bool {
			sender := ev.SenderID()
			return sender != 0 && len(owners) > 0 && slices.Contains(owners, sender)
		},
	}
}

// AdminPredicate passes when checker says the sender administers the chat.
// A failing or missing checker denies.
func AdminPredicate(checker AdminChecker, logger *zap.Logger) Predicate {
	return Predicate{
		Name: "admins_only",
		Allow: func(ctx context.Context, ev Event) bool {
			if checker == nil {
				return false
			}
			ok, err := checker.IsAdmin(ctx, ev)
			if err != nil {
				logger.Debug("admin check failed", zap.Error(err))
				return false
			}
			return ok
		},
	}
}

// GroupPredicate passes events from group chats.
func GroupPredicate() Predicate {
	return Predicate{
		Name: "groups_only",
		Allow: func(_ context.Context, ev Event) bool {
			return ev.IsGroup()
		},
	}
}

// InlinePredicate drops messages sent through an inline bot.
func InlinePredicate() Predicate {
	return Predicate{
		Name: "inline",
		Allow: func(_ context.Context, ev Event) bool {
			return ev.ViaBotID() == 0
		},
	}
}
