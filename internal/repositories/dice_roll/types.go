package dice_roll

import (
	"errors"
	"strings"

	"github.com/KirkDiggler/rollcall/internal/models"
)

type InsertInput struct {
	Roll *models.DiceRoll
}

type FetchRecentInput struct {
	CampaignID string
	Limit      int
}

type FetchRecentOutput struct {
	Rolls []*models.DiceRoll
}

type ClearAllInput struct {
	CampaignID string
}

func (i *InsertInput) validate() error {
	if i == nil || i.Roll == nil {
		return errors.New("input and roll cannot be nil")
	}
	if strings.TrimSpace(i.Roll.CampaignID) == "" {
		return errors.New("campaign ID cannot be empty")
	}
	if strings.TrimSpace(i.Roll.UserID) == "" {
		return errors.New("user ID cannot be empty")
	}
	if len(i.Roll.Rolls) == 0 {
		return errors.New("rolls cannot be empty")
	}
	return nil
}

func (i *FetchRecentInput) validate() error {
	if i == nil || strings.TrimSpace(i.CampaignID) == "" {
		return errors.New("input and campaign ID cannot be empty")
	}
	if i.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	return nil
}

func (i *ClearAllInput) validate() error {
	if i == nil || strings.TrimSpace(i.CampaignID) == "" {
		return errors.New("input and campaign ID cannot be empty")
	}
	return nil
}

// batchCount returns the stored multiplier, defaulting to 1
func batchCount(roll *models.DiceRoll) int {
	if roll.BatchCount <= 0 {
		return 1
	}
	return roll.BatchCount
}
