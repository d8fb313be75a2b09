package listener

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Invocation is what a plugin function receives for one event.
type Invocation struct {
	Event
	// Descriptor is the command the event was dispatched to.
	Descriptor Descriptor
	// Parameter is the argument text split on spaces. Nil when the pattern
	// had no argument group.
	Parameter []string
	// Arguments is the raw argument text.
	Arguments string
	// HasArguments reports whether argument extraction succeeded.
	HasArguments bool
}

// HandlerFunc is a plugin function.
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Binding is a plugin function attached to the event source.
type Binding struct {
	// Handler is the wrapped plugin function.
	Handler Handler
	// Keys are the handler book keys the binding was recorded under.
	Keys       []string
	Descriptor Descriptor
}

// Decorator binds a plugin function. name identifies the function within
// its module and becomes part of the handler book key.
type Decorator func(name string, fn HandlerFunc) *Binding

// Deps are the collaborators of a Listener. Source is required; everything
// else has a usable default.
type Deps struct {
	Source   EventSource
	Settings Settings
	Lang     Localizer
	Admin    AdminChecker
	Reports  ReportDelivery
	Tracker  Tracker
	Help     *HelpRegistry
	Registry *Registry
	Handlers *HandlerBook
	Logger   *zap.Logger
	Now      func() time.Time
}

// Listener registers plugin commands and dispatches events to them.
type Listener struct {
	source   EventSource
	settings Settings
	lang     Localizer
	admin    AdminChecker
	help     *HelpRegistry
	registry *Registry
	handlers *HandlerBook
	reporter *Reporter
	hook     analyticsHook
	logger   *zap.Logger
}

type keyLocalizer struct{}

func (keyLocalizer) Get(key string) string { return key }

// New creates a Listener.
func New(deps Deps) (*Listener, error) {
	if deps.Source == nil {
		return nil, errors.New("event source cannot be nil")
	}
	if deps.Lang == nil {
		deps.Lang = keyLocalizer{}
	}
	if deps.Help == nil {
		deps.Help = NewHelpRegistry()
	}
	if deps.Registry == nil {
		deps.Registry = NewRegistry()
	}
	if deps.Handlers == nil {
		deps.Handlers = NewHandlerBook()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	logger := deps.Logger.Named("listener")

	return &Listener{
		source:   deps.Source,
		settings: deps.Settings,
		lang:     deps.Lang,
		admin:    deps.Admin,
		help:     deps.Help,
		registry: deps.Registry,
		handlers: deps.Handlers,
		reporter: NewReporter(deps.Lang, deps.Reports, deps.Settings.ErrorReport, deps.Now, logger),
		hook: analyticsHook{
			tracker:  deps.Tracker,
			settings: deps.Settings,
			logger:   logger.Named("analytics"),
		},
		logger: logger,
	}, nil
}

// Help returns the help registry the listener writes to.
func (l *Listener) Help() *HelpRegistry { return l.help }

// Registry returns the command registry.
func (l *Listener) Registry() *Registry { return l.registry }

// Handlers returns the handler book.
func (l *Listener) Handlers() *HandlerBook { return l.handlers }

// Settings returns the listener settings.
func (l *Listener) Settings() Settings { return l.settings }

// Listen registers a command for module and returns the decorator binding
// its plugin function. It fails with *DuplicateCommandError when module
// already registered the alias, and when an explicit pattern is invalid.
//
// A plugin command disabled in configuration is not registered at all; the
// returned decorator produces bindings that do nothing.
func (l *Listener) Listen(module string, opts ...Option) (Decorator, error) {
	d := defaultDescriptor(module)
	for _, opt := range opts {
		opt(&d)
	}
	if d.Command != "" {
		d.Alias = strings.ToLower(l.settings.AliasCommand(d.Command))
	}

	if d.IsPlugin && d.Alias != "" && l.settings.isDisabled(d.Alias) {
		l.logger.Debug("command disabled", zap.String("module", module), zap.String("alias", d.Alias))
		return noopDecorator(d), nil
	}

	pattern, err := l.compilePattern(d)
	if err != nil {
		return nil, errors.Wrapf(err, "compile pattern of %s", module)
	}

	if d.Alias != "" {
		registered := l.registry.IsRegistered(module, d.Alias)
		l.logger.Debug("check command is registered",
			zap.String("alias", d.Alias), zap.Bool("registered", registered))
		if err := l.registry.Register(module, d.Alias); err != nil {
			var dup *DuplicateCommandError
			if errors.As(err, &dup) {
				dup.Text = fmt.Sprintf("%s %s \"%s\" %s",
					l.lang.Get(KeyErrorPrefix), l.lang.Get(KeyCommand), d.Alias, l.lang.Get(KeyHasReg))
			}
			return nil, err
		}
	}

	if d.Description != "" && d.Alias != "" {
		l.help.Set(d.Alias, FormatHelp(l.lang.Get(KeyUseMethod), l.settings.Prefix(), d.Alias, d.Parameters, d.Description))
	}

	return func(name string, fn HandlerFunc) *Binding {
		return l.bind(d, pattern, name, fn)
	}, nil
}

// compilePattern derives the command pattern from the alias unless an
// explicit one is set, and forces it case-insensitive.
func (l *Listener) compilePattern(d Descriptor) (*regexp.Regexp, error) {
	expr := d.Pattern
	if d.Alias != "" {
		alias := regexp.QuoteMeta(d.Alias)
		if l.settings.SlashMode() {
			expr = fmt.Sprintf(`^/%s(@%s)?(?: |$)([\s\S]*)`, alias, regexp.QuoteMeta(l.settings.UserBot))
		} else {
			expr = fmt.Sprintf(`^-%s(?: |$)([\s\S]*)`, alias)
		}
	}
	if expr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func (l *Listener) bind(d Descriptor, pattern *regexp.Regexp, name string, fn HandlerFunc) *Binding {
	filter := NewFilter(d, l.settings, l.admin, l.logger)
	handler := l.wrap(d, pattern, filter, fn)
	l.logger.Debug("binding handler",
		zap.String("module", d.Module),
		zap.String("func", name),
		zap.Int("predicates", filter.Len()))

	kinds := []MessageKind{NewMessage}
	if !d.IgnoreEdited {
		kinds = []MessageKind{EditedMessage, NewMessage}
	}

	b := &Binding{Handler: handler, Descriptor: d}
	for _, kind := range kinds {
		key := HandlerKey(d.Module, name, d.Command, d.Alias, kind)
		desc := EventDescriptor{
			Kind:     kind,
			Pattern:  pattern,
			Incoming: d.Incoming,
			Outgoing: d.Outgoing,
		}
		l.handlers.Prepare(l.source, key)
		handle := l.source.AddEventHandler(handler, desc)
		l.handlers.Record(HandlerRecord{Key: key, Handle: handle, Descriptor: desc})
		b.Keys = append(b.Keys, key)
	}
	return b
}

func (l *Listener) wrap(d Descriptor, pattern *regexp.Regexp, filter Filter, fn HandlerFunc) Handler {
	return func(ctx context.Context, ev Event) error {
		if !filter.Allow(ctx, ev) {
			return nil
		}

		received := receivedEvent{Event: ev, text: ev.Text()}
		inv := &Invocation{Event: ev, Descriptor: d}
		args, analytic := ParseArguments(pattern, received.text, l.settings.SlashMode())
		if analytic {
			inv.Parameter = args.Parameter
			inv.Arguments = args.Raw
			inv.HasArguments = true
		}

		stack, err := invoke(ctx, fn, inv)
		if err == nil {
			if analytic && l.settings.AllowAnalytics {
				l.hook.fire(ctx, received)
			}
			return nil
		}
		return l.reporter.Handle(ctx, d, received, err, stack)
	}
}

// receivedEvent pins the text an event arrived with. Plugins usually edit
// their own message, and analytics and reports must see the command as typed.
type receivedEvent struct {
	Event
	text string
}

func (e receivedEvent) Text() string { return e.text }

// invoke runs fn, turning a panic into a *PanicError. The returned stack is
// the panic stack, or the current one for plain errors.
func invoke(ctx context.Context, fn HandlerFunc, inv *Invocation) (stack []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack = debug.Stack()
			err = &PanicError{Value: r, Stack: stack}
		}
	}()
	if err := fn(ctx, inv); err != nil {
		return debug.Stack(), err
	}
	return nil, nil
}

func noopDecorator(d Descriptor) Decorator {
	return func(string, HandlerFunc) *Binding {
		return &Binding{
			Handler:    func(context.Context, Event) error { return nil },
			Descriptor: d,
		}
	}
}
