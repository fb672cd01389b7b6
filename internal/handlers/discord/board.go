package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KirkDiggler/rollcall/internal/feed"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/notify"
	"github.com/KirkDiggler/rollcall/internal/services/campaign"
	"github.com/KirkDiggler/rollcall/internal/services/roll"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// messageSender is the part of a Discord session the boards write through
type messageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// BoardConfig holds configuration for the roll boards
type BoardConfig struct {
	Sender          messageSender
	RollService     roll.Service
	CampaignService campaign.Service
	Broker          notify.Broker

	// Limit is the number of rolls shown on a board
	Limit int

	// Optional
	Logger *zap.Logger
}

// boardManager keeps one public roll board per campaign. A board is a feed
// with an anonymous viewer, so master and hidden rolls never reach it.
type boardManager struct {
	sender          messageSender
	rollService     roll.Service
	campaignService campaign.Service
	broker          notify.Broker
	limit           int
	logger          *zap.Logger

	mu     sync.Mutex
	boards map[string]*board
}

type board struct {
	manager  *boardManager
	campaign *models.Campaign
	feed     *feed.Feed

	// mu guards messageID
	mu        sync.Mutex
	messageID string
}

func newBoardManager(cfg *BoardConfig) (*boardManager, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Sender == nil {
		return nil, errors.New("sender cannot be nil")
	}

	if cfg.RollService == nil {
		return nil, errors.New("roll service cannot be nil")
	}

	if cfg.CampaignService == nil {
		return nil, errors.New("campaign service cannot be nil")
	}

	if cfg.Broker == nil {
		return nil, errors.New("broker cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &boardManager{
		sender:          cfg.Sender,
		rollService:     cfg.RollService,
		campaignService: cfg.CampaignService,
		broker:          cfg.Broker,
		limit:           cfg.Limit,
		logger:          logger.Named("board"),
		boards:          make(map[string]*board),
	}, nil
}

// Open starts the board for a campaign and renders it once. Opening an
// open board is a no-op.
func (m *boardManager) Open(ctx context.Context, c *models.Campaign) error {
	if c == nil || c.ID == "" {
		return errors.New("campaign cannot be empty")
	}

	if c.ChannelID == "" {
		return fmt.Errorf("campaign %s has no channel", c.ID)
	}

	m.mu.Lock()
	if _, ok := m.boards[c.ID]; ok {
		m.mu.Unlock()
		return nil
	}
	b := &board{
		manager:   m,
		campaign:  c,
		messageID: c.BoardMessageID,
	}
	m.boards[c.ID] = b
	m.mu.Unlock()

	f, err := feed.New(&feed.Config{
		CampaignID:  c.ID,
		Viewer:      models.Viewer{},
		Limit:       m.limit,
		RollService: m.rollService,
		Broker:      m.broker,
		OnChange:    b.render,
		Logger:      m.logger,
	})
	if err != nil {
		m.forget(c.ID)
		return err
	}
	b.feed = f

	if err := f.Start(ctx); err != nil {
		f.Stop()
		m.forget(c.ID)
		return fmt.Errorf("failed to start board for campaign %s: %w", c.ID, err)
	}

	m.logger.Info("board opened",
		zap.String("campaign_id", c.ID),
		zap.String("channel_id", c.ChannelID),
	)

	return nil
}

// Count reports how many boards are open
func (m *boardManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boards)
}

// CloseAll stops every board
func (m *boardManager) CloseAll() {
	m.mu.Lock()
	boards := m.boards
	m.boards = make(map[string]*board)
	m.mu.Unlock()

	for _, b := range boards {
		if b.feed != nil {
			b.feed.Stop()
		}
	}
}

func (m *boardManager) forget(campaignID string) {
	m.mu.Lock()
	delete(m.boards, campaignID)
	m.mu.Unlock()
}

// render edits the board message, posting a new one when there is none or
// the old one is gone
func (b *board) render(rolls []*models.DiceRoll) {
	b.mu.Lock()
	defer b.mu.Unlock()

	embed := renderBoardEmbed(b.campaign, rolls)
	log := b.manager.logger.With(zap.String("campaign_id", b.campaign.ID))

	if b.messageID != "" {
		embeds := []*discordgo.MessageEmbed{embed}
		_, err := b.manager.sender.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:      b.messageID,
			Channel: b.campaign.ChannelID,
			Embeds:  &embeds,
		})
		if err == nil {
			return
		}
		log.Warn("failed to edit board, posting a new one", zap.Error(err))
	}

	msg, err := b.manager.sender.ChannelMessageSendComplex(b.campaign.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Error("failed to post board", zap.Error(err))
		return
	}
	b.messageID = msg.ID

	if err := b.manager.campaignService.SetBoardMessage(context.Background(), &campaign.SetBoardMessageInput{
		CampaignID: b.campaign.ID,
		MessageID:  msg.ID,
	}); err != nil {
		log.Warn("failed to record board message", zap.Error(err))
	}
}
