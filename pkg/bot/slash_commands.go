package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// SlashCommands defines the slash-command mirrors of the most common text
// commands.
var SlashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "galstatus",
		Description: "Show your current relationship status panel",
	},
	{
		Name:        "galreset",
		Description: "Reset your relationship progress back to the very beginning",
	},
}

// SlashCommandHandlers maps command names to their handler functions.
var SlashCommandHandlers = map[string]func(h *Handler, s *discordgo.Session, i *discordgo.InteractionCreate){
	"galstatus": handleStatusCommand,
	"galreset":  handleResetCommand,
}

// InteractionCreate is the discordgo interaction hook.
func (h *Handler) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	if handler, ok := SlashCommandHandlers[name]; ok {
		handler(h, s, i)
	} else {
		log.Printf("Unknown slash command: %s", name)
	}
}

func interactionUser(i *discordgo.InteractionCreate) (id, name string) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID, i.Member.User.Username
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to slash command: %v", err)
	}
}

func handleStatusCommand(h *Handler, s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, sender := interactionUser(i)
	if userID == "" {
		return
	}

	replies, err := h.game.Status(userID, sender)
	if err != nil || len(replies) == 0 {
		log.Printf("Error building status for user %s: %v", userID, err)
		respondEphemeral(s, i, h.heroine+" lost her notes for a second... try again in a moment?")
		return
	}
	// The slash path always answers in text; the card render is reserved
	// for channel messages.
	respondEphemeral(s, i, replies[0].Text)
}

func handleResetCommand(h *Handler, s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, _ := interactionUser(i)
	if userID == "" {
		return
	}

	replies, err := h.game.Reset(userID)
	if err != nil || len(replies) == 0 {
		log.Printf("Error resetting progress for user %s: %v", userID, err)
		respondEphemeral(s, i, h.heroine+" couldn't let go of those memories just now. Try again later?")
		return
	}
	respondEphemeral(s, i, replies[0].Text)
}

// RegisterSlashCommands registers all commands, globally when guildID is
// empty.
func RegisterSlashCommands(s *discordgo.Session, guildID string) ([]*discordgo.ApplicationCommand, error) {
	log.Println("Registering slash commands...")

	registered := make([]*discordgo.ApplicationCommand, len(SlashCommands))
	for i, cmd := range SlashCommands {
		created, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd)
		if err != nil {
			log.Printf("Cannot create '%s' command: %v", cmd.Name, err)
			return nil, err
		}
		registered[i] = created
		log.Printf("Registered command: %s", cmd.Name)
	}
	return registered, nil
}

// UnregisterSlashCommands removes all registered slash commands.
func UnregisterSlashCommands(s *discordgo.Session, guildID string, commands []*discordgo.ApplicationCommand) error {
	log.Println("Unregistering slash commands...")

	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(s.State.User.ID, guildID, cmd.ID); err != nil {
			log.Printf("Cannot delete '%s' command: %v", cmd.Name, err)
			return err
		}
		log.Printf("Unregistered command: %s", cmd.Name)
	}
	return nil
}
