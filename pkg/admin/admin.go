// Package admin implements the setchannel and removechannel slash commands.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aichannel/pkg/bindings"
	"aichannel/pkg/logger"
	"aichannel/pkg/metrics"
)

// Slash command names.
const (
	CommandSetChannel    = "setchannel"
	CommandRemoveChannel = "removechannel"
)

// User-visible replies.
const (
	PermissionDeniedText = "❌ You need administrator permissions to use this command."
	UnexpectedErrorText  = "⚠️ An unexpected error occurred."
	UnboundText          = "✅ AI chat channel has been removed."
	NotBoundText         = "⚠️ No AI chat channel is currently set for this server."
)

// ErrPermissionDenied is returned when the invoker lacks administrator rights.
var ErrPermissionDenied = errors.New("admin: administrator permission required")

// Definition describes a slash command.
type Definition struct {
	Name        string
	Description string
}

// Definitions returns the slash commands handled by this package.
func Definitions() []Definition {
	return []Definition{
		{Name: CommandSetChannel, Description: "Set this channel for AI chat."},
		{Name: CommandRemoveChannel, Description: "Remove the AI chat channel for this server."},
	}
}

// Invocation is one slash command call.
type Invocation struct {
	GuildID   string
	ChannelID string
	UserID    string
	IsAdmin   bool
}

// Response is the reply to an invocation.
type Response struct {
	Content   string
	Ephemeral bool
}

// Handler executes admin commands against the binding store.
type Handler struct {
	log     *logger.Logger
	store   bindings.Store
	metrics *metrics.Metrics
}

// NewHandler creates a handler. m may be nil.
func NewHandler(log *logger.Logger, store bindings.Store, m *metrics.Metrics) *Handler {
	return &Handler{log: log, store: store, metrics: m}
}

// Dispatch runs the named command. Unknown names produce the unexpected-error reply.
func (h *Handler) Dispatch(ctx context.Context, name string, inv Invocation) Response {
	switch name {
	case CommandSetChannel:
		return h.Bind(ctx, inv)
	case CommandRemoveChannel:
		return h.Unbind(ctx, inv)
	default:
		return h.run(name, inv, func() (string, error) {
			return "", fmt.Errorf("unknown command %q", name)
		})
	}
}

// Bind binds the invoking channel as the guild's AI chat channel.
func (h *Handler) Bind(ctx context.Context, inv Invocation) Response {
	return h.run(CommandSetChannel, inv, func() (string, error) {
		if err := h.store.Set(ctx, inv.GuildID, inv.ChannelID); err != nil {
			return "", fmt.Errorf("binding channel: %w", err)
		}
		return fmt.Sprintf("✅ AI chat channel set to: <#%s>", inv.ChannelID), nil
	})
}

// Unbind removes the guild's AI chat channel.
func (h *Handler) Unbind(ctx context.Context, inv Invocation) Response {
	return h.run(CommandRemoveChannel, inv, func() (string, error) {
		removed, err := h.store.Remove(ctx, inv.GuildID)
		if err != nil {
			return "", fmt.Errorf("removing binding: %w", err)
		}
		if !removed {
			return NotBoundText, nil
		}
		return UnboundText, nil
	})
}

// run applies the admin gate and converts errors and panics into replies.
func (h *Handler) run(command string, inv Invocation, fn func() (string, error)) (resp Response) {
	log := h.log.WithFields(
		zap.String("request_id", uuid.NewString()),
		zap.String("command", command),
		zap.String("guild_id", inv.GuildID),
		zap.String("channel_id", inv.ChannelID),
		zap.String("user_id", inv.UserID),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Admin command panicked", zap.Any("panic", r))
			h.metrics.ObserveAdminCommand(command, "error")
			resp = Response{Content: UnexpectedErrorText, Ephemeral: true}
		}
	}()

	if !inv.IsAdmin {
		log.Info("Admin command denied", zap.Error(ErrPermissionDenied))
		h.metrics.ObserveAdminCommand(command, "denied")
		return Response{Content: PermissionDeniedText, Ephemeral: true}
	}

	content, err := fn()
	if err != nil {
		log.Error("Admin command failed", zap.Error(err))
		h.metrics.ObserveAdminCommand(command, "error")
		return Response{Content: UnexpectedErrorText, Ephemeral: true}
	}

	log.Info("Admin command completed")
	h.metrics.ObserveAdminCommand(command, "ok")
	return Response{Content: content, Ephemeral: true}
}
