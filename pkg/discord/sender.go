package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"aichannel/pkg/logger"
)

// channelMessenger is the part of *discordgo.Session used for sending.
type channelMessenger interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sender posts messages into Discord channels.
type Sender struct {
	log     *logger.Logger
	session channelMessenger
}

// NewSender creates a sender backed by session.
func NewSender(log *logger.Logger, session *discordgo.Session) *Sender {
	if session == nil {
		return &Sender{log: log}
	}
	return &Sender{log: log, session: session}
}

// Send posts text into channelID, splitting it when it exceeds the message limit.
func (s *Sender) Send(ctx context.Context, channelID, text string) error {
	if s.session == nil {
		return fmt.Errorf("session not initialized")
	}

	for _, chunk := range splitMessage(text) {
		if _, err := s.session.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("sending discord message: %w", err)
		}
	}

	s.log.Debug("Sent Discord message",
		zap.String("channel_id", channelID),
		zap.Int("length", len(text)))

	return nil
}
