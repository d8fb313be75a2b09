// Package listener binds plugin handler functions to chat message events.
//
// A plugin asks the Listener for a Decorator describing its command (alias,
// help text, access flags) and hands the decorator its handler function. The
// resulting Binding is attached to an EventSource for new messages and,
// optionally, edited messages. Each invocation then runs through:
//   - the access filter chain (owner, admin, group, inline origin)
//   - argument parsing of the text trailing the command token
//   - the plugin function itself
//   - analytics on success, or the failure reporter on error
//
// Nothing raised by a plugin escapes an invocation except ErrStopPropagation,
// which tells the outer dispatcher to stop trying further handlers.
package listener
