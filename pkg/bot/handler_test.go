package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moremorelove/pkg/gal"
)

// MockSessionForHandler for testing
type MockSessionForHandler struct {
	SentMessages    []string
	ComplexMessages []*discordgo.MessageSend
	Typing          []string
	SendErr         error
	ComplexErr      error
}

func (m *MockSessionForHandler) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.SentMessages = append(m.SentMessages, content)
	return &discordgo.Message{}, nil
}

func (m *MockSessionForHandler) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.ComplexErr != nil {
		return nil, m.ComplexErr
	}
	m.ComplexMessages = append(m.ComplexMessages, data)
	return &discordgo.Message{}, nil
}

func (m *MockSessionForHandler) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	m.Typing = append(m.Typing, channelID)
	return nil
}

// MockIllustrator for testing
type MockIllustrator struct {
	Image []byte
	Err   error
}

func (m *MockIllustrator) Render(ctx context.Context, text string) ([]byte, error) {
	return m.Image, m.Err
}

func newTestHandler(t *testing.T, cfg gal.Config, illustrator Illustrator) (*Handler, *MockSessionForHandler) {
	t.Helper()
	store := gal.NewStore(filepath.Join(t.TempDir(), "state.json"))
	game := gal.NewGame(cfg, store, gal.NewClassicEngine(cfg), nil)
	handler := NewHandler(game, cfg.Heroine(), illustrator)
	session := &MockSessionForHandler{}
	handler.SetSession(session)
	handler.SetBotID("bot-id")
	return handler, session
}

func message(userID, username, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "chan-1",
			Content:   content,
			Author:    &discordgo.User{ID: userID, Username: username},
		},
	}
}

func TestHandler_IgnoresSelfAndBots(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("bot-id", "self", "galmenu"))

	fromBot := message("other-bot", "beep", "galmenu")
	fromBot.Author.Bot = true
	handler.MessageCreate(nil, fromBot)

	assert.Empty(t, session.SentMessages)
}

func TestHandler_IgnoresUnrelatedChatter(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "hello everyone"))
	handler.MessageCreate(nil, message("user-1", "Aki", ""))
	handler.MessageCreate(nil, message("user-1", "Aki", "   "))

	assert.Empty(t, session.SentMessages)
}

func TestHandler_MenuCommand(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "GALMENU"))

	require.Len(t, session.SentMessages, 1)
	assert.Contains(t, session.SentMessages[0], "galstart")
}

func TestHandler_StartThenAction(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "galstart"))
	handler.MessageCreate(nil, message("user-1", "Aki", "galpark"))

	require.Len(t, session.SentMessages, 2)
	assert.Contains(t, session.SentMessages[0], "our story truly begins")
	assert.Contains(t, session.SentMessages[1], "Favorability ")
	// Engine-backed commands show the typing indicator.
	assert.Equal(t, []string{"chan-1"}, session.Typing)
}

func TestHandler_ActUsage(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "galact"))

	require.Len(t, session.SentMessages, 1)
	assert.Contains(t, session.SentMessages[0], "Usage: galact")
	assert.Empty(t, session.Typing)
}

func TestHandler_ActPassesFreeText(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "galstart"))
	handler.MessageCreate(nil, message("user-1", "Aki", "galact cook a candlelit dinner"))

	require.Len(t, session.SentMessages, 2)
	assert.Contains(t, session.SentMessages[1], "cook a candlelit dinner")
}

func TestHandler_StatusCardRendersImage(t *testing.T) {
	cfg := gal.Config{HeroineName: "Lianlian", StatusCardImage: true}
	illustrator := &MockIllustrator{Image: []byte("png-bytes")}
	handler, session := newTestHandler(t, cfg, illustrator)

	handler.MessageCreate(nil, message("user-1", "Aki", "galstatus"))

	require.Len(t, session.ComplexMessages, 1)
	require.Len(t, session.ComplexMessages[0].Files, 1)
	assert.Equal(t, "status.png", session.ComplexMessages[0].Files[0].Name)
	assert.Empty(t, session.SentMessages)
}

func TestHandler_StatusCardFallsBackToText(t *testing.T) {
	cfg := gal.Config{HeroineName: "Lianlian", StatusCardImage: true}
	illustrator := &MockIllustrator{Err: errors.New("image model down")}
	handler, session := newTestHandler(t, cfg, illustrator)

	handler.MessageCreate(nil, message("user-1", "Aki", "galstatus"))

	assert.Empty(t, session.ComplexMessages)
	require.Len(t, session.SentMessages, 1)
	assert.Contains(t, session.SentMessages[0], "MoreMoreLove status panel")
}

func TestHandler_StatusWithoutIllustratorIsText(t *testing.T) {
	cfg := gal.Config{HeroineName: "Lianlian", StatusCardImage: true}
	handler, session := newTestHandler(t, cfg, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "galstatus"))

	require.Len(t, session.SentMessages, 1)
	assert.Contains(t, session.SentMessages[0], "Player: Aki")
}

func TestDisplayName_Preference(t *testing.T) {
	m := message("user-1", "username", "galstatus")
	assert.Equal(t, "username", displayName(m))

	m.Author.GlobalName = "Global"
	assert.Equal(t, "Global", displayName(m))

	m.Member = &discordgo.Member{Nick: "Nick"}
	assert.Equal(t, "Nick", displayName(m))
}

func TestHandler_CommandIsCaseInsensitiveButArgsAreNot(t *testing.T) {
	handler, session := newTestHandler(t, gal.Config{HeroineName: "Lianlian"}, nil)

	handler.MessageCreate(nil, message("user-1", "Aki", "galstart"))
	handler.MessageCreate(nil, message("user-1", "Aki", "GalAct Cook DINNER together"))

	require.Len(t, session.SentMessages, 2)
	assert.True(t, strings.Contains(session.SentMessages[1], "Cook DINNER together"))
}
