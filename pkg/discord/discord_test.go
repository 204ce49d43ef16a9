package discord

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichannel/pkg/admin"
	"aichannel/pkg/config"
	"aichannel/pkg/logger"
	"aichannel/pkg/router"
)

func TestApplicationCommands(t *testing.T) {
	cmds := ApplicationCommands()
	require.Len(t, cmds, 2)

	assert.Equal(t, "setchannel", cmds[0].Name)
	assert.Equal(t, "Set this channel for AI chat.", cmds[0].Description)
	assert.Equal(t, "removechannel", cmds[1].Name)
	assert.Equal(t, "Remove the AI chat channel for this server.", cmds[1].Description)

	for _, cmd := range cmds {
		require.NotNil(t, cmd.DefaultMemberPermissions)
		assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)
		require.NotNil(t, cmd.DMPermission)
		assert.False(t, *cmd.DMPermission)
	}
}

func TestToRouterMessage(t *testing.T) {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		GuildID:   "100",
		ChannelID: "200",
		Content:   "hello",
		Author:    &discordgo.User{ID: "u1", Bot: true},
	}}

	msg, ok := toRouterMessage(m)
	require.True(t, ok)
	assert.Equal(t, router.Message{ID: "m1", GuildID: "100", ChannelID: "200", AuthorID: "u1", AuthorBot: true, Content: "hello"}, msg)

	_, ok = toRouterMessage(&discordgo.MessageCreate{Message: &discordgo.Message{}})
	assert.False(t, ok)
	_, ok = toRouterMessage(nil)
	assert.False(t, ok)
}

func TestToInvocation(t *testing.T) {
	adminMember := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID:   "100",
		ChannelID: "200",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "u1"},
			Permissions: discordgo.PermissionAdministrator | discordgo.PermissionSendMessages,
		},
	}}
	assert.Equal(t, admin.Invocation{GuildID: "100", ChannelID: "200", UserID: "u1", IsAdmin: true}, toInvocation(adminMember))

	plainMember := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID:   "100",
		ChannelID: "200",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "u2"},
			Permissions: discordgo.PermissionManageChannels,
		},
	}}
	assert.False(t, toInvocation(plainMember).IsAdmin)

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ChannelID: "300",
		User:      &discordgo.User{ID: "u3"},
	}}
	assert.Equal(t, admin.Invocation{ChannelID: "300", UserID: "u3"}, toInvocation(dm))
}

func TestInteractionResponseIsEphemeral(t *testing.T) {
	resp := interactionResponse(admin.Response{Content: "done", Ephemeral: true})
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "done", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)

	resp = interactionResponse(admin.Response{Content: "public"})
	assert.Zero(t, resp.Data.Flags)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short"))

	long := strings.Repeat("a", 1500) + "\n" + strings.Repeat("b", 1500)
	chunks := splitMessage(long)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 1500)+"\n", chunks[0])
	assert.Equal(t, strings.Repeat("b", 1500), chunks[1])

	noBreaks := strings.Repeat("é", 4500)
	chunks = splitMessage(noBreaks)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), maxMessageLength)
	}
	assert.Equal(t, noBreaks, strings.Join(chunks, ""))
}

type fakeMessenger struct {
	sent []string
	err  error
}

func (f *fakeMessenger) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, channelID+":"+content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func TestSenderSend(t *testing.T) {
	fm := &fakeMessenger{}
	s := &Sender{log: logger.NewNop(), session: fm}

	require.NoError(t, s.Send(context.Background(), "200", "hi"))
	assert.Equal(t, []string{"200:hi"}, fm.sent)

	fm.err = errors.New("missing access")
	assert.ErrorContains(t, s.Send(context.Background(), "200", "hi"), "missing access")

	assert.Error(t, NewSender(logger.NewNop(), nil).Send(context.Background(), "200", "hi"))
}

type recordingRouter struct{ msgs []router.Message }

func (r *recordingRouter) Handle(_ context.Context, msg router.Message) router.Decision {
	r.msgs = append(r.msgs, msg)
	if msg.Content == "panic" {
		panic("boom")
	}
	return router.DecisionNoBinding
}

func TestHandleMessageRecoversPanics(t *testing.T) {
	rr := &recordingRouter{}
	b := NewBot(logger.NewNop(), config.DiscordConfig{}, nil, rr, nil, nil)

	assert.NotPanics(t, func() {
		b.handleMessage(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID: "1", ChannelID: "2", Content: "panic", Author: &discordgo.User{ID: "u"},
		}})
	})
	assert.Len(t, rr.msgs, 1)
}

func TestNewSessionIntents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Discord.Token = "token"

	s, err := NewSession(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bot token", s.Token)
	assert.NotZero(t, s.Identify.Intents&discordgo.IntentsMessageContent)
	assert.NotZero(t, s.Identify.Intents&discordgo.IntentsGuildMessages)
}
