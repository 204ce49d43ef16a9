// Package commands implements the prefixed text command path that runs on
// every inbound message before AI routing.
package commands

import (
	"context"
)

// Command represents a prefixed text command.
type Command struct {
	// Name is the command name (without prefix)
	Name string
	// Description is a short description of what the command does
	Description string
	// Usage shows how to use the command
	Usage string
	// Handler is the function that executes the command
	Handler CommandHandler
}

// CommandHandler is a function that handles a command.
type CommandHandler func(ctx context.Context, req CommandRequest) (CommandResponse, error)

// Message is the subset of an inbound chat message the processor looks at.
type Message struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// CommandRequest contains information about a command invocation.
type CommandRequest struct {
	// GuildID is empty for direct messages
	GuildID   string
	ChannelID string
	// UserID identifies the user who invoked the command
	UserID string
	// Command is the command name
	Command string
	// Args are the command arguments (text after the command)
	Args string
}

// CommandResponse contains the command execution result.
type CommandResponse struct {
	// Content is the reply text; empty means no reply.
	Content string
}

// SlashCommand describes an application command for help listings.
type SlashCommand struct {
	Name        string
	Description string
}
