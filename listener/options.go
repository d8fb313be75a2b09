package listener

// Descriptor is the immutable description of a registered command.
type Descriptor struct {
	// Module identifies the plugin module registering the command.
	Module string
	// Command is the name the plugin asked for.
	Command string
	// Alias is Command after alias mapping, lowercased. Empty when the
	// handler is bound to a raw pattern.
	Alias       string
	Description string
	Parameters  string
	// Pattern overrides the pattern derived from the alias.
	Pattern string

	Diagnostics   bool
	IgnoreEdited  bool
	IsPlugin      bool
	OwnersOnly    bool
	AdminsOnly    bool
	GroupsOnly    bool
	SupportInline bool

	Incoming bool
	Outgoing bool
}

func defaultDescriptor(module string) Descriptor {
	return Descriptor{
		Module:       module,
		Diagnostics:  true,
		IgnoreEdited: true,
		IsPlugin:     true,
	}
}

// Option configures a command registration.
type Option func(*Descriptor)

// Command sets the command name.
func Command(name string) Option {
	return func(d *Descriptor) { d.Command = name }
}

// Description sets the help description.
func Description(text string) Option {
	return func(d *Descriptor) { d.Description = text }
}

// Parameters sets the parameter hint shown in help.
func Parameters(hint string) Option {
	return func(d *Descriptor) { d.Parameters = hint }
}

// Pattern binds the handler to an explicit regular expression.
func Pattern(expr string) Option {
	return func(d *Descriptor) { d.Pattern = expr }
}

// NoDiagnostics suppresses diagnostic reports for unknown failures.
func NoDiagnostics() Option {
	return func(d *Descriptor) { d.Diagnostics = false }
}

// HandleEdited also binds the handler to edited messages.
func HandleEdited() Option {
	return func(d *Descriptor) { d.IgnoreEdited = false }
}

// BuiltIn marks the command as part of the core rather than a plugin.
// Built-in commands cannot be disabled through configuration.
func BuiltIn() Option {
	return func(d *Descriptor) { d.IsPlugin = false }
}

// OwnersOnly restricts the command to the configured bot admins.
func OwnersOnly() Option {
	return func(d *Descriptor) { d.OwnersOnly = true }
}

// AdminsOnly restricts the command to chat administrators.
func AdminsOnly() Option {
	return func(d *Descriptor) { d.AdminsOnly = true }
}

// GroupsOnly restricts the command to group chats.
func GroupsOnly() Option {
	return func(d *Descriptor) { d.GroupsOnly = true }
}

// SupportInline accepts messages sent through inline bots.
func SupportInline() Option {
	return func(d *Descriptor) { d.SupportInline = true }
}

// Incoming only delivers messages received by the account.
func Incoming() Option {
	return func(d *Descriptor) { d.Incoming = true }
}

// Outgoing only delivers messages sent by the account.
func Outgoing() Option {
	return func(d *Descriptor) { d.Outgoing = true }
}
