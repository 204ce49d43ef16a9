// Package router decides which inbound messages are forwarded to the
// completion API and delivers the reply.
package router

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aichannel/pkg/bindings"
	"aichannel/pkg/commands"
	"aichannel/pkg/logger"
	"aichannel/pkg/metrics"
)

// ErrorReplyText is sent when the completion call fails.
const ErrorReplyText = "⚠️ Error communicating with AI API."

// Decision is the routing outcome for one message.
type Decision string

const (
	DecisionForwarded      Decision = "forwarded"
	DecisionCompletionFail Decision = "completion_error"
	DecisionBotAuthor      Decision = "bot_author"
	DecisionDirectMessage  Decision = "direct_message"
	DecisionNoBinding      Decision = "no_binding"
	DecisionStoreError     Decision = "store_error"
	DecisionOtherChannel   Decision = "other_channel"
)

// Reached reports whether the completion API was called.
func (d Decision) Reached() bool {
	return d == DecisionForwarded || d == DecisionCompletionFail
}

// Message is an inbound chat message.
type Message struct {
	ID        string
	GuildID   string // empty for direct messages
	ChannelID string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// Completer produces a reply for user text.
type Completer interface {
	Complete(ctx context.Context, userText string) (string, error)
}

// Sender posts text into a channel.
type Sender interface {
	Send(ctx context.Context, channelID, text string) error
}

// CommandProcessor runs prefixed text commands.
type CommandProcessor interface {
	Process(ctx context.Context, msg commands.Message) (commands.CommandResponse, bool, error)
}

// Router routes inbound messages.
type Router struct {
	log       *logger.Logger
	store     bindings.Store
	completer Completer
	sender    Sender
	commands  CommandProcessor
	metrics   *metrics.Metrics
}

// New creates a router. cmds and m may be nil.
func New(log *logger.Logger, store bindings.Store, completer Completer, sender Sender, cmds CommandProcessor, m *metrics.Metrics) *Router {
	return &Router{
		log:       log,
		store:     store,
		completer: completer,
		sender:    sender,
		commands:  cmds,
		metrics:   m,
	}
}

// Handle processes one message. Commands run first and do not stop routing.
func (r *Router) Handle(ctx context.Context, msg Message) Decision {
	log := r.log.WithFields(
		zap.String("request_id", uuid.NewString()),
		zap.String("message_id", msg.ID),
		zap.String("guild_id", msg.GuildID),
		zap.String("channel_id", msg.ChannelID),
	)

	r.runCommands(ctx, log, msg)

	decision := r.route(ctx, log, msg)
	r.metrics.ObserveRoute(string(decision))
	log.Debug("Routed message", zap.String("decision", string(decision)))
	return decision
}

func (r *Router) runCommands(ctx context.Context, log *logger.Logger, msg Message) {
	if r.commands == nil {
		return
	}

	resp, handled, err := r.commands.Process(ctx, commands.Message{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		AuthorID:  msg.AuthorID,
		AuthorBot: msg.AuthorBot,
		Content:   msg.Content,
	})
	if err != nil {
		log.Warn("Text command failed", zap.Error(err))
		return
	}
	if !handled || resp.Content == "" {
		return
	}
	if err := r.sender.Send(ctx, msg.ChannelID, resp.Content); err != nil {
		log.Warn("Failed to send command reply", zap.Error(err))
	}
}

func (r *Router) route(ctx context.Context, log *logger.Logger, msg Message) Decision {
	if msg.AuthorBot {
		return DecisionBotAuthor
	}
	if msg.GuildID == "" {
		return DecisionDirectMessage
	}

	bound, ok, err := r.store.Get(ctx, msg.GuildID)
	if err != nil {
		log.Error("Failed to read channel binding", zap.Error(err))
		return DecisionStoreError
	}
	if !ok {
		return DecisionNoBinding
	}
	if bound != msg.ChannelID {
		return DecisionOtherChannel
	}

	start := time.Now()
	reply, err := r.completer.Complete(ctx, msg.Content)
	took := time.Since(start)

	if err != nil {
		r.metrics.ObserveCompletion("error", took)
		log.Error("Completion request failed", zap.Error(err), zap.Duration("took", took))
		if sendErr := r.sender.Send(ctx, msg.ChannelID, ErrorReplyText); sendErr != nil {
			log.Warn("Failed to send error notice", zap.Error(sendErr))
		}
		return DecisionCompletionFail
	}

	r.metrics.ObserveCompletion("ok", took)
	if err := r.sender.Send(ctx, msg.ChannelID, reply); err != nil {
		log.Warn("Failed to send reply", zap.Error(err))
	}
	return DecisionForwarded
}
