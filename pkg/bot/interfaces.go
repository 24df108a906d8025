package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Session abstracts the slice of discordgo.Session the handler needs, so
// tests can swap in a mock.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) (err error)
}

// DiscordSession adapts discordgo.Session to the Session interface.
type DiscordSession struct {
	*discordgo.Session
}

// Illustrator renders a text into an image card. Callers fall back to plain
// text on error.
type Illustrator interface {
	Render(ctx context.Context, text string) ([]byte, error)
}
