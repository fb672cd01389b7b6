package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/services/campaign"
	"github.com/KirkDiggler/rollcall/internal/services/messaging"
	"github.com/KirkDiggler/rollcall/internal/services/roll"
	"github.com/KirkDiggler/rollcall/internal/visibility"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Preset die sizes offered as choices; any positive size is accepted
var presetDieSizes = []int{4, 6, 8, 10, 12, 20, 100}

// RollLimits bounds the dice options offered by the command. Zero values
// fall back to the roll service defaults.
type RollLimits struct {
	MaxSides      int
	MaxDiceCount  int
	MaxBatchCount int
	MaxModifier   int
	HistoryLimit  int
}

func (l RollLimits) withDefaults() RollLimits {
	if l.MaxSides <= 0 {
		l.MaxSides = roll.DefaultMaxSides
	}
	if l.MaxDiceCount <= 0 {
		l.MaxDiceCount = roll.DefaultMaxDiceCount
	}
	if l.MaxBatchCount <= 0 {
		l.MaxBatchCount = roll.DefaultMaxBatchCount
	}
	if l.MaxModifier <= 0 {
		l.MaxModifier = roll.DefaultMaxModifier
	}
	if l.HistoryLimit <= 0 {
		l.HistoryLimit = roll.DefaultHistoryLimit
	}
	return l
}

// RollCommand handles the /roll command
type RollCommand struct {
	BaseCommand
	campaignService  campaign.Service
	rollService      roll.Service
	messagingService messaging.Service
	boards           *boardManager
	logger           *zap.Logger
}

// NewRollCommand creates a new roll command handler
func NewRollCommand(campaignService campaign.Service, rollService roll.Service, messagingService messaging.Service, boards *boardManager, limits RollLimits, logger *zap.Logger) *RollCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	limits = limits.withDefaults()

	sideChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(presetDieSizes))
	for _, sides := range presetDieSizes {
		if sides > limits.MaxSides {
			continue
		}
		sideChoices = append(sideChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("d%d", sides),
			Value: sides,
		})
	}

	modeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 4)
	for _, mode := range []models.RollMode{
		models.RollModeSum,
		models.RollModeSeparate,
		models.RollModeAdvantage,
		models.RollModeDisadvantage,
	} {
		modeChoices = append(modeChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  mode.DisplayName(),
			Value: string(mode),
		})
	}

	minOne := float64(1)
	minModifier := float64(-limits.MaxModifier)

	sidesOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "sides",
		Description: "Die size",
		Required:    true,
		Choices:     sideChoices,
	}
	if len(sideChoices) == 0 {
		sidesOption.Choices = nil
		sidesOption.MinValue = &minOne
		sidesOption.MaxValue = float64(limits.MaxSides)
	}

	return &RollCommand{
		BaseCommand: BaseCommand{
			Name:        "roll",
			Description: "Campaign dice rolls",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setup",
					Description: "Start a campaign in this channel with you as GM",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Campaign name",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "dice",
					Description: "Roll dice",
					Options: []*discordgo.ApplicationCommandOption{
						sidesOption,
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "count",
							Description: "Dice per batch (default 1)",
							MinValue:    &minOne,
							MaxValue:    float64(limits.MaxDiceCount),
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "batches",
							Description: "Number of batches (default 1)",
							MinValue:    &minOne,
							MaxValue:    float64(limits.MaxBatchCount),
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "modifier",
							Description: "Added per the roll mode",
							MinValue:    &minModifier,
							MaxValue:    float64(limits.MaxModifier),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "How the dice combine (default sum)",
							Choices:     modeChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "master",
							Description: "GM only: mark as a GM roll",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "hidden",
							Description: "GM only: hide the roll from players",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show the recent rolls you can see",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "limit",
							Description: fmt.Sprintf("Number of rolls (default %d)", limits.HistoryLimit),
							MinValue:    &minOne,
							MaxValue:    50,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "GM only: delete every roll in this campaign",
				},
			},
		},
		campaignService:  campaignService,
		rollService:      rollService,
		messagingService: messagingService,
		boards:           boards,
		logger:           logger.Named("roll_command"),
	}
}

// Handle processes a Discord interaction for the roll command
func (c *RollCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	ctx := context.Background()
	sub := data.Options[0]
	options := optionMap(sub.Options)

	switch sub.Name {
	case "setup":
		return c.handleSetup(ctx, s, i, options)
	case "dice":
		input, err := parseDiceOptions(options)
		if err != nil {
			return RespondWithError(s, i, err.Error())
		}
		return c.handleDice(ctx, s, i, input)
	case "history":
		return c.handleHistory(ctx, s, i, options)
	case "clear":
		return c.handleClear(ctx, s, i)
	}

	return errors.New("unknown subcommand")
}

// diceRequest is a parsed /roll dice invocation
type diceRequest struct {
	Sides           int
	DiceCount       int
	BatchCount      int
	Modifier        int
	Mode            models.RollMode
	MasterRoll      bool
	HideFromPlayers bool
}

// parseDiceOptions reads the dice subcommand options, applying defaults
func parseDiceOptions(options map[string]*discordgo.ApplicationCommandInteractionDataOption) (*diceRequest, error) {
	req := &diceRequest{
		DiceCount:  1,
		BatchCount: 1,
		Mode:       models.RollModeSum,
	}

	opt, ok := options["sides"]
	if !ok {
		return nil, errors.New("pick a die size")
	}
	req.Sides = int(opt.IntValue())

	if opt, ok := options["count"]; ok {
		req.DiceCount = int(opt.IntValue())
	}
	if opt, ok := options["batches"]; ok {
		req.BatchCount = int(opt.IntValue())
	}
	if opt, ok := options["modifier"]; ok {
		req.Modifier = int(opt.IntValue())
	}
	if opt, ok := options["mode"]; ok {
		req.Mode = models.RollMode(opt.StringValue())
	}
	if opt, ok := options["master"]; ok {
		req.MasterRoll = opt.BoolValue()
	}
	if opt, ok := options["hidden"]; ok {
		req.HideFromPlayers = opt.BoolValue()
	}

	return req, nil
}

// handleSetup binds the channel to a new campaign and opens its board
func (c *RollCommand) handleSetup(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	userID, username := interactionUser(i)

	name := ""
	if opt, ok := options["name"]; ok {
		name = opt.StringValue()
	}

	out, err := c.campaignService.CreateCampaign(ctx, &campaign.CreateCampaignInput{
		Name:       name,
		ChannelID:  i.ChannelID,
		GMUserID:   userID,
		GMUsername: username,
	})
	if err != nil {
		if errors.Is(err, campaign.ErrChannelAlreadyBound) {
			return c.respondWithErrorType(ctx, s, i, messaging.ErrorTypeChannelBound)
		}
		c.logger.Error("failed to create campaign",
			zap.String("channel_id", i.ChannelID),
			zap.Error(err),
		)
		return RespondWithError(s, i, "Failed to start a campaign here.")
	}

	if err := RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       out.Campaign.Name,
		Description: fmt.Sprintf("Campaign started. <@%s> is the GM.", userID),
		Color:       colorSuccess,
	}, nil, false); err != nil {
		return err
	}

	if c.boards != nil {
		if err := c.boards.Open(ctx, out.Campaign); err != nil {
			c.logger.Warn("failed to open board",
				zap.String("campaign_id", out.Campaign.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// handleDice makes a roll for the caller
func (c *RollCommand) handleDice(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, req *diceRequest) error {
	viewer, camp, err := c.resolveCaller(ctx, i)
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	out, err := c.rollService.Roll(ctx, &roll.RollInput{
		CampaignID:      camp.ID,
		Viewer:          viewer,
		Sides:           req.Sides,
		DiceCount:       req.DiceCount,
		BatchCount:      req.BatchCount,
		Modifier:        req.Modifier,
		Mode:            req.Mode,
		MasterRoll:      req.MasterRoll,
		HideFromPlayers: req.HideFromPlayers,
	})
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	return c.respondWithRoll(ctx, s, i, out)
}

// handleHistory shows the caller the rolls they may see
func (c *RollCommand) handleHistory(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	viewer, camp, err := c.resolveCaller(ctx, i)
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	limit := 0
	if opt, ok := options["limit"]; ok {
		limit = int(opt.IntValue())
	}

	out, err := c.rollService.History(ctx, &roll.HistoryInput{
		CampaignID: camp.ID,
		Viewer:     viewer,
		Limit:      limit,
	})
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	return RespondWithEmbed(s, i, renderHistoryEmbed(camp, out.Rolls), nil, true)
}

// handleClear deletes every roll in the campaign; GM only
func (c *RollCommand) handleClear(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	viewer, camp, err := c.resolveCaller(ctx, i)
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	out, err := c.rollService.ClearAll(ctx, &roll.ClearAllInput{
		CampaignID: camp.ID,
		Viewer:     viewer,
	})
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	message := "All rolls cleared."
	if out.NotificationFailed {
		message += " The board may take a moment to catch up."
	}
	return RespondWithEphemeralMessage(s, i, message)
}

// handleRollAgain repeats a public roll from its button
func (c *RollCommand) handleRollAgain(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	req, err := parseRollAgainCustomID(customID)
	if err != nil {
		return RespondWithError(s, i, "That button no longer works.")
	}

	return c.handleDice(ctx, s, i, &diceRequest{
		Sides:      req.Shape.Sides,
		DiceCount:  req.Shape.DiceCount,
		BatchCount: req.Shape.BatchCount,
		Modifier:   req.Modifier,
		Mode:       req.Mode,
	})
}

// resolveCaller finds the channel's campaign, records the caller's name
// and classifies them
func (c *RollCommand) resolveCaller(ctx context.Context, i *discordgo.InteractionCreate) (models.Viewer, *models.Campaign, error) {
	userID, username := interactionUser(i)

	camp, err := c.campaignService.GetCampaignByChannel(ctx, &campaign.GetCampaignByChannelInput{
		ChannelID: i.ChannelID,
	})
	if err != nil {
		return models.Viewer{}, nil, err
	}

	if userID != "" && username != "" {
		if err := c.campaignService.SaveProfile(ctx, &campaign.SaveProfileInput{
			UserID:   userID,
			Username: username,
		}); err != nil {
			c.logger.Warn("failed to save profile",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	out, err := c.campaignService.ResolveViewer(ctx, &campaign.ResolveViewerInput{
		CampaignID: camp.ID,
		UserID:     userID,
	})
	if err != nil {
		return models.Viewer{}, nil, err
	}

	return out.Viewer, camp, nil
}

// respondWithRoll answers a committed roll. A roll players may not see is
// answered only to the roller.
func (c *RollCommand) respondWithRoll(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, out *roll.RollOutput) error {
	r := out.Roll
	private := !visibility.CanSee(r, models.Viewer{})

	var flavour *messaging.GetRollResultMessageOutput
	result, err := c.messagingService.GetRollResultMessage(ctx, &messaging.GetRollResultMessageInput{
		PlayerName:        r.DisplayName,
		Roll:              r,
		IsPersonalMessage: private,
	})
	if err != nil {
		c.logger.Warn("failed to get roll message", zap.Error(err))
	} else {
		flavour = result
	}

	embed := renderRollEmbed(r, flavour)

	if private {
		whisper, err := c.messagingService.GetRollWhisperMessage(ctx, &messaging.GetRollWhisperMessageInput{
			PlayerName: r.DisplayName,
			Roll:       r,
		})
		if err == nil {
			embed.Description = whisper.Message
		}
	}

	if out.NotificationFailed {
		notice, err := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
			ErrorType: messaging.ErrorTypeNotifyFailure,
		})
		if err == nil {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: notice.Message}
		}
	}

	var components []discordgo.MessageComponent
	if !private {
		components = rollAgainComponents(r)
	}

	return RespondWithEmbed(s, i, embed, components, private)
}

// respondWithServiceError maps a service error to a friendly message
func (c *RollCommand) respondWithServiceError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	errorType := errorTypeFor(err)
	if errorType == "" || errorType == messaging.ErrorTypePersistence {
		c.logger.Error("roll command failed",
			zap.String("channel_id", i.ChannelID),
			zap.Error(err),
		)
	}

	return c.respondWithErrorType(ctx, s, i, errorType)
}

func (c *RollCommand) respondWithErrorType(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, errorType messaging.ErrorType) error {
	out, err := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: errorType,
	})
	if err != nil {
		return RespondWithError(s, i, "Something went wrong.")
	}
	return RespondWithError(s, i, out.Message)
}

// errorTypeFor classifies service errors for the messaging service
func errorTypeFor(err error) messaging.ErrorType {
	switch {
	case errors.Is(err, roll.ErrValidation):
		return messaging.ErrorTypeValidation
	case errors.Is(err, roll.ErrAuthorizationDenied):
		return messaging.ErrorTypeNotAllowed
	case errors.Is(err, roll.ErrPersistence):
		return messaging.ErrorTypePersistence
	case errors.Is(err, campaign.ErrCampaignNotFound):
		return messaging.ErrorTypeNoCampaign
	case errors.Is(err, campaign.ErrChannelAlreadyBound):
		return messaging.ErrorTypeChannelBound
	}
	return ""
}
