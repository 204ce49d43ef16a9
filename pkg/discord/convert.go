package discord

import (
	"github.com/bwmarrin/discordgo"

	"aichannel/pkg/admin"
	"aichannel/pkg/router"
)

// ApplicationCommands returns the slash commands registered on connect.
// They are hidden from non-administrators and unavailable in DMs.
func ApplicationCommands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	dmPermission := false

	defs := admin.Definitions()
	cmds := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, def := range defs {
		cmds = append(cmds, &discordgo.ApplicationCommand{
			Name:                     def.Name,
			Description:              def.Description,
			Type:                     discordgo.ChatApplicationCommand,
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &dmPermission,
		})
	}
	return cmds
}

func toRouterMessage(m *discordgo.MessageCreate) (router.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return router.Message{}, false
	}
	return router.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		AuthorBot: m.Author.Bot,
		Content:   m.Content,
	}, true
}

func toInvocation(i *discordgo.InteractionCreate) admin.Invocation {
	inv := admin.Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	if i.Member != nil {
		inv.IsAdmin = isAdministrator(i.Member)
		if i.Member.User != nil {
			inv.UserID = i.Member.User.ID
		}
	}
	if inv.UserID == "" && i.User != nil {
		inv.UserID = i.User.ID
	}
	return inv
}

// isAdministrator reports whether the member's resolved channel permissions
// include Administrator.
func isAdministrator(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

func interactionResponse(resp admin.Response) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: resp.Content}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

// maxMessageLength is Discord's per-message character limit.
const maxMessageLength = 2000

// splitMessage breaks text into chunks Discord accepts, preferring newline
// boundaries. Lengths count runes.
func splitMessage(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxMessageLength {
		cut := maxMessageLength
		for j := maxMessageLength; j > maxMessageLength/2; j-- {
			if runes[j-1] == '\n' {
				cut = j
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
