package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rollcall/internal/notify"
	"github.com/KirkDiggler/rollcall/internal/services/campaign"
	"github.com/KirkDiggler/rollcall/internal/services/messaging"
	"github.com/KirkDiggler/rollcall/internal/services/roll"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot represents the Discord bot instance
type Bot struct {
	session     *discordgo.Session
	commands    map[string]CommandHandler
	commandIDs  map[string]string // Maps command name to command ID
	rollCommand *RollCommand
	boards      *boardManager
	services    *Config
	logger      *zap.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Number of rolls shown on a campaign board
	BoardLimit int

	// Limits bounds the /roll dice options; match the roll service config
	Limits RollLimits

	// Services
	CampaignService  campaign.Service
	RollService      roll.Service
	MessagingService messaging.Service
	Broker           notify.Broker

	// Optional
	Logger *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.CampaignService == nil {
		return nil, errors.New("campaign service cannot be nil")
	}

	if cfg.RollService == nil {
		return nil, errors.New("roll service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.Broker == nil {
		return nil, errors.New("broker cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	boards, err := newBoardManager(&BoardConfig{
		Sender:          session,
		RollService:     cfg.RollService,
		CampaignService: cfg.CampaignService,
		Broker:          cfg.Broker,
		Limit:           cfg.BoardLimit,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		boards:     boards,
		services:   cfg,
		logger:     logger.Named("discord"),
	}

	bot.rollCommand = NewRollCommand(cfg.CampaignService, cfg.RollService, cfg.MessagingService, boards, cfg.Limits, logger)

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the Discord connection, registers commands and reopens the
// board of every known campaign. Boards live until ctx is done or Stop.
func (b *Bot) Start(ctx context.Context) error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.RegisterCommand(b.rollCommand); err != nil {
		return fmt.Errorf("failed to register roll command: %w", err)
	}

	out, err := b.services.CampaignService.ListCampaigns(ctx, &campaign.ListCampaignsInput{})
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}

	for _, c := range out.Campaigns {
		if err := b.boards.Open(ctx, c); err != nil {
			b.logger.Warn("failed to open board",
				zap.String("campaign_id", c.ID),
				zap.Error(err),
			)
		}
	}

	b.logger.Info("bot is running", zap.Int("boards", b.boards.Count()))
	return nil
}

// Stop closes the boards, removes the registered commands and disconnects
func (b *Bot) Stop() error {
	b.boards.CloseAll()

	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.services.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command",
				zap.String("command", cmdName),
				zap.String("command_id", cmdID),
				zap.Error(err),
			)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord. Without a guild ID the
// command is registered globally.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.services.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command",
		zap.String("command", cmd.GetName()),
		zap.String("command_id", createdCmd.ID),
		zap.String("guild_id", b.services.GuildID),
	)

	return nil
}

// appID falls back to the session user when no application ID is configured
func (b *Bot) appID() string {
	if b.services.ApplicationID != "" {
		return b.services.ApplicationID
	}
	return b.session.State.User.ID
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commands[name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.logger.Error("failed to handle command", zap.String("command", name), zap.Error(err))
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.logger.Error("failed to handle component interaction", zap.Error(err))
		}
	}
}

// handleComponentInteraction handles button clicks
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, ButtonRollAgainPrefix+rollAgainSeparator):
		return b.rollCommand.handleRollAgain(context.Background(), s, i, customID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}
