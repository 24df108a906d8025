package bot

import (
	"bytes"
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"moremorelove/pkg/gal"
)

// Handler maps chat commands onto the game core and ships the resulting
// reply segments back through the session.
type Handler struct {
	game        *gal.Game
	heroine     string
	illustrator Illustrator
	session     Session
	botID       string
}

func NewHandler(game *gal.Game, heroine string, illustrator Illustrator) *Handler {
	return &Handler{
		game:        game,
		heroine:     heroine,
		illustrator: illustrator,
	}
}

// SetBotID tells the handler its own user id so it can ignore itself.
func (h *Handler) SetBotID(id string) {
	h.botID = id
}

// SetSession injects the (real or mock) session used for outgoing messages.
func (h *Handler) SetSession(s Session) {
	h.session = s
}

// MessageCreate is the discordgo message hook.
func (h *Handler) MessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == h.botID || m.Author.Bot {
		return
	}
	h.handleMessage(m.ChannelID, m.Author.ID, displayName(m), m.Content)
}

func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// handleMessage parses gal* commands out of plain chat messages. Anything
// else is ignored; the bot only speaks when spoken to.
func (h *Handler) handleMessage(channelID, userID, sender, content string) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(content), fields[0]))
	ctx := context.Background()

	var (
		replies []gal.Reply
		err     error
	)
	switch command {
	case "galmenu":
		replies = h.game.Menu()
	case "galstart":
		replies, err = h.game.Start(userID)
	case "galexit":
		replies, err = h.game.Exit(userID)
	case "galstatus":
		replies, err = h.game.Status(userID, sender)
	case "galreset":
		replies, err = h.game.Reset(userID)
	case "galpure":
		replies, err = h.game.Pure(userID, args)
	case "galpark":
		_ = h.session.ChannelTyping(channelID)
		replies, err = h.game.Action(ctx, userID, sender, channelID,
			"a quiet walk through the park together, trading what's on your minds", gal.ActionPark)
	case "galcinema":
		_ = h.session.ChannelTyping(channelID)
		replies, err = h.game.Action(ctx, userID, sender, channelID,
			"an invitation to a romantic film at the cinema", gal.ActionCinema)
	case "galact":
		if args == "" {
			h.sendText(channelID, "Usage: galact <action>, e.g. \"galact cook a candlelit dinner\".")
			return
		}
		_ = h.session.ChannelTyping(channelID)
		replies, err = h.game.Action(ctx, userID, sender, channelID, args, "")
	case "galintimacy":
		_ = h.session.ChannelTyping(channelID)
		replies, err = h.game.Intimacy(ctx, userID, sender, channelID)
	default:
		return
	}

	if err != nil {
		log.Printf("bot: %s failed for user %s: %v", command, userID, err)
		h.sendText(channelID, h.heroine+" fumbled her diary and couldn't save that moment. Could you try again in a bit?")
		return
	}
	h.sendReplies(ctx, channelID, replies)
}

func (h *Handler) sendReplies(ctx context.Context, channelID string, replies []gal.Reply) {
	for _, reply := range replies {
		if reply.AsCard && h.illustrator != nil {
			img, err := h.illustrator.Render(ctx, reply.Text)
			if err == nil {
				_, err = h.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
					Files: []*discordgo.File{{
						Name:        "status.png",
						ContentType: "image/png",
						Reader:      bytes.NewReader(img),
					}},
				})
				if err == nil {
					continue
				}
			}
			log.Printf("bot: status card render failed, falling back to text: %v", err)
		}
		h.sendText(channelID, reply.Text)
	}
}

func (h *Handler) sendText(channelID, text string) {
	if _, err := h.session.ChannelMessageSend(channelID, text); err != nil {
		log.Printf("bot: failed to send message to %s: %v", channelID, err)
	}
}
