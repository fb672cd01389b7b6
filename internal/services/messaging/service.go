package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/KirkDiggler/rollcall/internal/dice"
	"github.com/KirkDiggler/rollcall/internal/models"
)

// service implements the Service interface
type service struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	var source rand.Source
	if config != nil && config.Source != nil {
		source = config.Source
	} else {
		source = rand.NewSource(time.Now().UnixNano())
	}

	return &service{
		rand: rand.New(source),
	}, nil
}

// ClassifyRoll finds the face that decides the roll and reports whether it
// is a natural result. Only single-die rolls and advantage or disadvantage
// rolls have a deciding face; summed pools are always normal.
func ClassifyRoll(roll *models.DiceRoll) Outcome {
	if roll == nil || len(roll.Rolls) == 0 {
		return OutcomeNormal
	}

	shape, err := dice.ParseShape(roll.DiceType)
	if err != nil || shape.Sides < 2 {
		return OutcomeNormal
	}

	var face int
	switch {
	case len(roll.Rolls) == 1:
		face = roll.Rolls[0]
	case roll.RollMode == models.RollModeAdvantage:
		face = roll.Rolls[0]
		for _, r := range roll.Rolls[1:] {
			face = max(face, r)
		}
	case roll.RollMode == models.RollModeDisadvantage:
		face = roll.Rolls[0]
		for _, r := range roll.Rolls[1:] {
			face = min(face, r)
		}
	default:
		return OutcomeNormal
	}

	switch face {
	case shape.Sides:
		return OutcomeNaturalMax
	case 1:
		return OutcomeNaturalOne
	}
	return OutcomeNormal
}

// GetRollResultMessage returns a title and flavour line for a committed roll
func (s *service) GetRollResultMessage(ctx context.Context, input *GetRollResultMessageInput) (*GetRollResultMessageOutput, error) {
	if input == nil || input.Roll == nil {
		return nil, errors.New("input and roll cannot be nil")
	}

	roll := input.Roll
	outcome := ClassifyRoll(roll)
	who := input.PlayerName
	if input.IsPersonalMessage {
		who = "You"
	}

	var titles, messages []string
	switch outcome {
	case OutcomeNaturalMax:
		titles = []string{
			fmt.Sprintf("Natural %d!", maxFace(roll)),
			"CRIT!",
			"The dice gods smile!",
		}
		messages = []string{
			fmt.Sprintf("%s rolled the highest face on a d%d!", who, maxFace(roll)),
			fmt.Sprintf("A perfect %d. The table holds its breath.", maxFace(roll)),
			fmt.Sprintf("%s could not have rolled better. Make it count!", who),
		}
	case OutcomeNaturalOne:
		titles = []string{
			"Natural 1!",
			"CRITICAL FAIL!",
			"Snake eyes!",
		}
		messages = []string{
			fmt.Sprintf("%s rolled a 1. The dice have spoken.", who),
			"A natural 1. Somewhere, a bard is already writing the song.",
			fmt.Sprintf("That 1 is going to be a story %s tells for years.", who),
		}
	default:
		titles = []string{
			fmt.Sprintf("%s rolled %d", input.PlayerName, roll.Total),
		}
		if input.IsPersonalMessage {
			titles = []string{fmt.Sprintf("You rolled %d", roll.Total)}
		}
		messages = []string{
			fmt.Sprintf("%s on %s.", formatTotal(roll), roll.DiceType),
		}
	}

	return &GetRollResultMessageOutput{
		Title:   s.pick(titles),
		Message: s.pick(messages),
		Outcome: outcome,
	}, nil
}

// GetRollWhisperMessage returns a private aside for a hidden roll
func (s *service) GetRollWhisperMessage(ctx context.Context, input *GetRollWhisperMessageInput) (*GetRollWhisperMessageOutput, error) {
	if input == nil || input.Roll == nil {
		return nil, errors.New("input and roll cannot be nil")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = ToneNeutral
	}

	var messages []string
	switch ClassifyRoll(input.Roll) {
	case OutcomeNaturalMax:
		messages = []string{
			fmt.Sprintf("*whispers* %s, that was a natural %d. Nobody else saw it.", input.PlayerName, maxFace(input.Roll)),
			"*quietly* The best possible roll, and only you know it.",
		}
	case OutcomeNaturalOne:
		messages = []string{
			fmt.Sprintf("*whispers* A natural 1, %s. Your secret is safe.", input.PlayerName),
			"*quietly* The players will never know about that 1.",
		}
	default:
		messages = []string{
			fmt.Sprintf("*whispers* %d, hidden from the players.", input.Roll.Total),
			fmt.Sprintf("*quietly* Only you can see this %d.", input.Roll.Total),
		}
	}

	return &GetRollWhisperMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	var messages []string
	switch input.ErrorType {
	case ErrorTypeValidation:
		messages = []string{
			"Those dice don't exist. Check the count, sides and modifier.",
			"The dice refuse to roll like that. Try a smaller pool or modifier.",
		}
	case ErrorTypeNotAllowed:
		messages = []string{
			"Only the GM can do that.",
			"Nice try! That one is reserved for the GM.",
		}
	case ErrorTypePersistence:
		messages = []string{
			"The roll couldn't be recorded. Nothing was saved, roll again.",
			"The ledger slipped out of our hands. Try that roll again.",
		}
	case ErrorTypeNoCampaign:
		messages = []string{
			"This channel has no campaign yet. The GM can start one with /roll setup.",
			"No campaign lives here. Ask your GM to run /roll setup.",
		}
	case ErrorTypeChannelBound:
		messages = []string{
			"This channel already has a campaign.",
			"A campaign is already running in this channel.",
		}
	case ErrorTypeNotifyFailure:
		messages = []string{
			"Saved, but the table may need a moment to see it.",
		}
	default:
		messages = []string{
			"Something went wrong! Try again later.",
			"Oops! The dice got confused. Try again.",
		}
	}

	return &GetErrorMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

func (s *service) pick(options []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.rand.Intn(len(options))]
}

func maxFace(roll *models.DiceRoll) int {
	shape, err := dice.ParseShape(roll.DiceType)
	if err != nil {
		return 0
	}
	return shape.Sides
}

func formatTotal(roll *models.DiceRoll) string {
	if roll.Modifier == 0 {
		return fmt.Sprintf("%d", roll.Total)
	}
	return fmt.Sprintf("%d (%+d)", roll.Total, roll.Modifier)
}
