package listener

import (
	"errors"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	if r.IsRegistered("plugins.ping", "ping") {
		t.Fatal("Expected empty registry")
	}
	if err := r.Register("plugins.ping", "ping"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !r.IsRegistered("plugins.ping", "ping") {
		t.Error("Expected ping to be registered for plugins.ping")
	}

	err := r.Register("plugins.ping", "ping")
	var dup *DuplicateCommandError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateCommandError, got: %v", err)
	}
	if dup.Module != "plugins.ping" || dup.Alias != "ping" {
		t.Errorf("Unexpected duplicate error fields: %+v", dup)
	}
}

func TestRegistry_ModuleQualified(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("plugins.a", "status"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register("plugins.b", "status"); err != nil {
		t.Errorf("Expected same alias in another module to be accepted, got: %v", err)
	}
	if !r.IsRegistered("plugins.a", "status") || r.IsRegistered("plugins.c", "status") {
		t.Error("Expected registration to be tracked per module")
	}
}

func TestHandlerBook_PrepareRemovesPreviousBinding(t *testing.T) {
	src := newFakeSource()
	book := NewHandlerBook()
	key := HandlerKey("plugins.ping", "Ping", "ping", "ping", NewMessage)

	if key != "plugins.ping.Ping.ping.ping.newMsg" {
		t.Errorf("Unexpected key: %s", key)
	}

	first := src.AddEventHandler(nil, EventDescriptor{})
	book.Record(HandlerRecord{Key: key, Handle: first})
	book.Record(HandlerRecord{Key: "plugins.id.Id.id.id.newMsg", Handle: src.AddEventHandler(nil, EventDescriptor{})})

	if keys := book.Keys(); len(keys) != 2 || keys[0] != "plugins.id.Id.id.id.newMsg" || keys[1] != key {
		t.Errorf("Unexpected sorted keys: %v", keys)
	}

	book.Prepare(src, key)
	if len(src.removed) != 1 || src.removed[0] != first {
		t.Errorf("Expected handle %d to be removed, got: %v", first, src.removed)
	}
	if _, ok := book.Lookup(key); ok {
		t.Error("Expected record to be dropped after Prepare")
	}

	// Nothing recorded: nothing removed.
	book.Prepare(src, "unknown")
	if len(src.removed) != 1 {
		t.Errorf("Expected no further removals, got: %v", src.removed)
	}
}
