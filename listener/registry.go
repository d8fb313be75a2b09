package listener

import (
	"fmt"
	"sort"
	"sync"
)

// DuplicateCommandError is returned when a module registers an alias twice.
type DuplicateCommandError struct {
	Module string
	Alias  string
	// Text is the localized message, if one was resolved.
	Text string
}

func (e *DuplicateCommandError) Error() string {
	if e.Text != "" {
		return e.Text
	}
	return fmt.Sprintf("command %q is already registered by %s", e.Alias, e.Module)
}

// Registry tracks which command aliases each plugin module has bound.
// It only grows; unregistering is left to the reload machinery.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]map[string]struct{})}
}

// Register records alias for module, failing with *DuplicateCommandError if
// the pair is already known.
func (r *Registry) Register(module, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	aliases, ok := r.commands[module]
	if !ok {
		aliases = make(map[string]struct{})
		r.commands[module] = aliases
	}
	if _, exists := aliases[alias]; exists {
		return &DuplicateCommandError{Module: module, Alias: alias}
	}
	aliases[alias] = struct{}{}
	return nil
}

// IsRegistered reports whether module already registered alias.
func (r *Registry) IsRegistered(module, alias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[module][alias]
	return ok
}

// HandlerRecord is a handler attached to the event source under a key.
type HandlerRecord struct {
	Key        string
	Handle     SourceHandle
	Descriptor EventDescriptor
}

// HandlerBook remembers which handler is attached under which key, so a
// plugin loaded again replaces its previous binding instead of doubling it.
type HandlerBook struct {
	mu      sync.Mutex
	records map[string]HandlerRecord
}

// NewHandlerBook returns an empty book.
func NewHandlerBook() *HandlerBook {
	return &HandlerBook{records: make(map[string]HandlerRecord)}
}

// HandlerKey builds the bookkeeping key of a binding.
func HandlerKey(module, funcName, command, alias string, kind MessageKind) string {
	return fmt.Sprintf("%s.%s.%s.%s.%s", module, funcName, command, alias, kind)
}

// Prepare detaches a handler previously recorded under key, if any.
func (b *HandlerBook) Prepare(src EventSource, key string) {
	b.mu.Lock()
	rec, ok := b.records[key]
	delete(b.records, key)
	b.mu.Unlock()

	if ok && src != nil {
		src.RemoveEventHandler(rec.Handle)
	}
}

// Record stores the handler attached under rec.Key.
func (b *HandlerBook) Record(rec HandlerRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[rec.Key] = rec
}

// Lookup returns the record stored under key.
func (b *HandlerBook) Lookup(key string) (HandlerRecord, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.records[key]
	return rec, ok
}

// Keys returns all recorded keys, sorted.
func (b *HandlerBook) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.records))
	for k := range b.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
