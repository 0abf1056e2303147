package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/services/gatekeeper"
)

// Bot wraps the Discord session and feeds voice-state transitions into the
// gatekeeper. It also serves as the live voice lookup and the fallback
// direct-message path.
type Bot struct {
	session    *discordgo.Session
	gatekeeper gatekeeper.Service
	guildID    string
	log        zerolog.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// GuildID scopes voice-state tracking to one server
	GuildID string

	// Logger for connection and event errors
	Logger zerolog.Logger
}

// New creates a new Discord bot. The gatekeeper is bound at Start, after
// the core services exist.
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}
	if cfg.GuildID == "" {
		return nil, errors.New("guild ID cannot be empty")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Voice-state tracking needs the guild and voice intents, and state
	// caching so CurrentChannel can answer from memory
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	session.StateEnabled = true

	bot := &Bot{
		session: session,
		guildID: cfg.GuildID,
		log:     cfg.Logger,
	}

	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleVoiceStateUpdate)

	return bot, nil
}

// Start binds the gatekeeper and opens the websocket connection to Discord
func (b *Bot) Start(gk gatekeeper.Service) error {
	if gk == nil {
		return errors.New("gatekeeper service cannot be nil")
	}
	b.gatekeeper = gk

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) handleReady(_ *discordgo.Session, _ *discordgo.Ready) {
	b.log.Info().Str("guild_id", b.guildID).Msg("discord session ready")
}

func (b *Bot) handleVoiceStateUpdate(_ *discordgo.Session, update *discordgo.VoiceStateUpdate) {
	if update.GuildID != b.guildID {
		return
	}

	err := b.gatekeeper.HandleVoiceChange(context.Background(), &gatekeeper.HandleVoiceChangeInput{
		ExternalID: update.UserID,
		ChannelID:  update.ChannelID,
	})
	if err != nil {
		b.log.Error().Err(err).Str("user_id", update.UserID).Msg("voice change handling failed")
	}
}

// CurrentChannel answers from the session's cached guild state. An empty
// channel means the user is not in voice.
func (b *Bot) CurrentChannel(ctx context.Context, externalID string) (string, error) {
	guild, err := b.session.State.Guild(b.guildID)
	if err != nil {
		return "", fmt.Errorf("failed to read guild state: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == externalID {
			return vs.ChannelID, nil
		}
	}

	return "", nil
}

// SendDM delivers a direct message to a Discord user. Used as the fallback
// delivery path when the in-game whisper fails.
func (b *Bot) SendDM(ctx context.Context, externalID, text string) bool {
	channel, err := b.session.UserChannelCreate(externalID)
	if err != nil {
		b.log.Warn().Err(err).Str("user_id", externalID).Msg("failed to open DM channel")
		return false
	}

	if _, err := b.session.ChannelMessageSend(channel.ID, text); err != nil {
		b.log.Warn().Err(err).Str("user_id", externalID).Msg("failed to send DM")
		return false
	}

	return true
}
