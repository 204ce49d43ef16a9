package commands

import (
	"context"
	"fmt"
	"strings"
)

// RegisterBuiltinCommands registers built-in commands.
func RegisterBuiltinCommands(registry *Registry) error {
	builtins := []*Command{
		{
			Name:        "help",
			Description: "Shows this message",
			Usage:       registry.Prefix() + "help [command]",
			Handler:     helpHandler(registry),
		},
	}

	for _, cmd := range builtins {
		if err := registry.Register(cmd); err != nil {
			return fmt.Errorf("failed to register %s: %w", cmd.Name, err)
		}
	}

	return nil
}

// helpHandler creates a handler for the help command.
func helpHandler(registry *Registry) CommandHandler {
	return func(ctx context.Context, req CommandRequest) (CommandResponse, error) {
		prefix := registry.Prefix()

		if req.Args != "" {
			name := strings.Fields(req.Args)[0]
			cmd, exists := registry.Get(name)
			if !exists {
				return CommandResponse{
					Content: fmt.Sprintf("No command called %q found.", name),
				}, nil
			}
			return CommandResponse{
				Content: fmt.Sprintf("```\n%s\n\n%s\n```", cmd.Usage, cmd.Description),
			}, nil
		}

		var sb strings.Builder
		sb.WriteString("```\n")
		sb.WriteString("Commands:\n")
		for _, cmd := range registry.List() {
			sb.WriteString(fmt.Sprintf("  %-14s %s\n", cmd.Name, cmd.Description))
		}

		if slash := registry.SlashCommands(); len(slash) > 0 {
			sb.WriteString("\nSlash commands (administrators):\n")
			for _, cmd := range slash {
				sb.WriteString(fmt.Sprintf("  /%-13s %s\n", cmd.Name, cmd.Description))
			}
		}

		sb.WriteString(fmt.Sprintf("\nType %shelp command for more info on a command.\n", prefix))
		sb.WriteString("```")

		return CommandResponse{Content: sb.String()}, nil
	}
}
