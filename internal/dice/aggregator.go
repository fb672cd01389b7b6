package dice

import (
	"errors"
	"fmt"
	"math"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// AggregatorConfig holds configuration for the aggregator
type AggregatorConfig struct {
	Roller Roller
}

// Aggregator draws the dice for one roll and computes its total
type Aggregator struct {
	roller Roller
}

// NewAggregator creates a new aggregator
func NewAggregator(cfg *AggregatorConfig) (*Aggregator, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Roller == nil {
		return nil, errors.New("roller cannot be nil")
	}

	return &Aggregator{
		roller: cfg.Roller,
	}, nil
}

// AggregateInput describes one roll
type AggregateInput struct {
	Sides     int
	DiceCount int

	// BatchCount defaults to 1 when zero
	BatchCount int
	Modifier   int

	// Mode defaults to sum when empty
	Mode models.RollMode
}

// AggregateOutput is the result of one roll
type AggregateOutput struct {
	Rolls      []int
	Total      int
	DiceType   string
	BatchCount int
	Mode       models.RollMode
}

// Aggregate validates the input, draws diceCount*batchCount dice in order
// and computes the total for the mode. Nothing is drawn on invalid input.
func (a *Aggregator) Aggregate(input *AggregateInput) (*AggregateOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	shape := Shape{
		Sides:      input.Sides,
		DiceCount:  input.DiceCount,
		BatchCount: input.BatchCount,
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	mode := input.Mode
	if mode == "" {
		mode = models.RollModeSum
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRollMode, mode)
	}

	rolls := make([]int, shape.Faces())
	for i := range rolls {
		face, err := a.roller.Roll(shape.Sides)
		if err != nil {
			return nil, fmt.Errorf("failed to roll d%d: %w", shape.Sides, err)
		}
		rolls[i] = face
	}

	total, err := Total(mode, rolls, input.Modifier)
	if err != nil {
		return nil, err
	}

	return &AggregateOutput{
		Rolls:      rolls,
		Total:      total,
		DiceType:   shape.String(),
		BatchCount: shape.batches(),
		Mode:       mode,
	}, nil
}

// Total computes the stored aggregate of rolls under mode:
//
//	sum:          Σrolls + modifier
//	separate:     Σrolls + modifier×len(rolls)
//	advantage:    max(rolls) + modifier
//	disadvantage: min(rolls) + modifier
//
// A total that does not fit in an int returns ErrTotalOverflow.
func Total(mode models.RollMode, rolls []int, modifier int) (int, error) {
	if len(rolls) == 0 {
		return 0, ErrInvalidDiceCount
	}

	var (
		total int
		ok    bool
	)
	switch mode {
	case models.RollModeSum, "":
		total, ok = sum(rolls)
		if ok {
			total, ok = add(total, modifier)
		}
	case models.RollModeSeparate:
		var perDie int
		total, ok = sum(rolls)
		if ok {
			perDie, ok = mul(modifier, len(rolls))
		}
		if ok {
			total, ok = add(total, perDie)
		}
	case models.RollModeAdvantage:
		best := rolls[0]
		for _, r := range rolls[1:] {
			best = max(best, r)
		}
		total, ok = add(best, modifier)
	case models.RollModeDisadvantage:
		worst := rolls[0]
		for _, r := range rolls[1:] {
			worst = min(worst, r)
		}
		total, ok = add(worst, modifier)
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRollMode, mode)
	}

	if !ok {
		return 0, ErrTotalOverflow
	}
	return total, nil
}

func sum(rolls []int) (int, bool) {
	total := 0
	for _, r := range rolls {
		var ok bool
		if total, ok = add(total, r); !ok {
			return 0, false
		}
	}
	return total, true
}

func add(a, b int) (int, bool) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, false
	}
	return a + b, true
}

func mul(a, n int) (int, bool) {
	if a == 0 || n == 0 {
		return 0, true
	}
	product := a * n
	if product/n != a {
		return 0, false
	}
	return product, true
}
