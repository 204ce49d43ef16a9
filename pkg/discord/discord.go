// Package discord connects the bot to the Discord gateway and dispatches
// message and slash command events.
package discord

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"aichannel/pkg/admin"
	"aichannel/pkg/commands"
	"aichannel/pkg/config"
	"aichannel/pkg/logger"
	"aichannel/pkg/router"
)

// MessageHandler routes inbound messages.
type MessageHandler interface {
	Handle(ctx context.Context, msg router.Message) router.Decision
}

// CommandHandler executes slash commands.
type CommandHandler interface {
	Dispatch(ctx context.Context, name string, inv admin.Invocation) admin.Response
}

// Bot owns the gateway session and its event handlers.
type Bot struct {
	log      *logger.Logger
	config   config.DiscordConfig
	session  *discordgo.Session
	messages MessageHandler
	admin    CommandHandler
	commands *commands.Registry
	ready    atomic.Bool
}

// NewSession creates an unopened gateway session with the intents the bot needs.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	session.SyncEvents = false

	return session, nil
}

// NewBot creates a bot. registry may be nil.
func NewBot(
	log *logger.Logger,
	cfg config.DiscordConfig,
	session *discordgo.Session,
	messages MessageHandler,
	adminHandler CommandHandler,
	registry *commands.Registry,
) *Bot {
	return &Bot{
		log:      log,
		config:   cfg,
		session:  session,
		messages: messages,
		admin:    adminHandler,
		commands: registry,
	}
}

// Ready reports whether the gateway session is established.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

// Start registers handlers, opens the gateway connection and syncs slash commands.
func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("Starting Discord bot")

	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(b.handleInteraction)

	if b.commands != nil {
		for _, def := range admin.Definitions() {
			b.commands.AddSlashCommands(commands.SlashCommand{Name: def.Name, Description: def.Description})
		}
	}

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord connection: %w", err)
	}

	if !b.config.SyncCommands {
		return nil
	}

	appID := ""
	if b.session.State != nil && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}
	if appID == "" {
		b.log.Warn("Skipping slash command sync: application id unknown")
		return nil
	}

	synced, err := b.session.ApplicationCommandBulkOverwrite(appID, "", ApplicationCommands(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("syncing slash commands: %w", err)
	}
	b.log.Info("Synced slash commands", zap.Int("count", len(synced)))

	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop(ctx context.Context) error {
	b.log.Info("Stopping Discord bot")
	b.ready.Store(false)

	if b.session != nil {
		if err := b.session.Close(); err != nil {
			return fmt.Errorf("closing discord session: %w", err)
		}
	}
	return nil
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.ready.Store(true)
	if r.User != nil {
		b.log.Info("Discord bot connected",
			zap.String("username", r.User.Username),
			zap.String("user_id", r.User.ID),
			zap.Int("guilds", len(r.Guilds)))
	}
}

// handleMessage handles incoming Discord messages.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer b.recoverEvent("message_create")

	msg, ok := toRouterMessage(m)
	if !ok {
		return
	}
	b.messages.Handle(context.Background(), msg)
}

// handleInteraction handles slash command invocations.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer b.recoverEvent("interaction_create")

	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx := context.Background()
	resp := b.admin.Dispatch(ctx, i.ApplicationCommandData().Name, toInvocation(i))

	if err := s.InteractionRespond(i.Interaction, interactionResponse(resp), discordgo.WithContext(ctx)); err != nil {
		b.log.Warn("Failed to respond to interaction",
			zap.String("command", i.ApplicationCommandData().Name),
			zap.Error(err))
	}
}

func (b *Bot) recoverEvent(event string) {
	if r := recover(); r != nil {
		b.log.Error("Recovered from panic in event handler",
			zap.String("event", event),
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()))
	}
}
