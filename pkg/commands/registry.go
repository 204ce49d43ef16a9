package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultPrefix is the text command prefix.
const DefaultPrefix = "!"

// Registry manages command registration, lookup and dispatch.
type Registry struct {
	prefix   string
	commands map[string]*Command
	slash    []SlashCommand
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry for the given prefix.
func NewRegistry(prefix string) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Registry{
		prefix:   prefix,
		commands: make(map[string]*Command),
	}
}

// Prefix returns the command prefix.
func (r *Registry) Prefix() string {
	return r.prefix
}

// Register registers a new command.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}

	if cmd.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("command %s has no handler", cmd.Name)
	}

	cmd.Name = strings.ToLower(strings.TrimPrefix(cmd.Name, r.prefix))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("command %s already registered", cmd.Name)
	}

	r.commands[cmd.Name] = cmd
	return nil
}

// AddSlashCommands records application commands so help can list them.
func (r *Registry) AddSlashCommands(cmds ...SlashCommand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slash = append(r.slash, cmds...)
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (*Command, bool) {
	name = strings.ToLower(strings.TrimPrefix(name, r.prefix))

	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, exists := r.commands[name]
	return cmd, exists
}

// List returns all registered commands sorted by name.
func (r *Registry) List() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	return cmds
}

// SlashCommands returns the recorded application commands.
func (r *Registry) SlashCommands() []SlashCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SlashCommand(nil), r.slash...)
}

// Parse splits prefixed text into a command name and arguments.
// ok is false when text does not start with the prefix.
func (r *Registry) Parse(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, r.prefix) {
		return "", "", false
	}
	text = strings.TrimPrefix(text, r.prefix)

	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	name = strings.ToLower(parts[0])
	if name == "" {
		return "", "", false
	}
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return name, args, true
}

// Process runs the command in msg, if any. Bot authors and unknown commands
// are ignored. handled reports whether a command ran.
func (r *Registry) Process(ctx context.Context, msg Message) (resp CommandResponse, handled bool, err error) {
	if msg.AuthorBot {
		return CommandResponse{}, false, nil
	}

	name, args, ok := r.Parse(msg.Content)
	if !ok {
		return CommandResponse{}, false, nil
	}
	cmd, exists := r.Get(name)
	if !exists {
		return CommandResponse{}, false, nil
	}

	resp, err = cmd.Handler(ctx, CommandRequest{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		UserID:    msg.AuthorID,
		Command:   cmd.Name,
		Args:      args,
	})
	if err != nil {
		return CommandResponse{}, true, fmt.Errorf("command %s: %w", cmd.Name, err)
	}
	return resp, true, nil
}
