package listener

import (
	"fmt"
	"sort"
	"sync"
)

// HelpRegistry maps command aliases to their formatted help text.
type HelpRegistry struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewHelpRegistry returns an empty help registry.
func NewHelpRegistry() *HelpRegistry {
	return &HelpRegistry{texts: make(map[string]string)}
}

// Set stores the help text of alias.
func (h *HelpRegistry) Set(alias, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.texts[alias] = text
}

// Get returns the help text of alias.
func (h *HelpRegistry) Get(alias string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.texts[alias]
	return text, ok
}

// Aliases returns every alias with help text, sorted.
func (h *HelpRegistry) Aliases() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := make([]string, 0, len(h.texts))
	for alias := range h.texts {
		list = append(list, alias)
	}
	sort.Strings(list)
	return list
}

// FormatHelp renders the help entry of a command.
func FormatHelp(useMethod, prefix, alias, parameters, description string) string {
	return fmt.Sprintf("**%s:** `%s%s %s`\n%s", useMethod, prefix, alias, parameters, description)
}
