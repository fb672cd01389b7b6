package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the dice layout of one roll
type Shape struct {
	Sides      int
	DiceCount  int
	BatchCount int
}

// Faces is the number of dice drawn for the shape
func (s Shape) Faces() int {
	return s.DiceCount * s.batches()
}

func (s Shape) batches() int {
	if s.BatchCount == 0 {
		return 1
	}
	return s.BatchCount
}

// String renders the label stored as dice_type: "2d20", or "3x2d6" for
// three batches of two six-sided dice
func (s Shape) String() string {
	if s.batches() > 1 {
		return fmt.Sprintf("%dx%dd%d", s.batches(), s.DiceCount, s.Sides)
	}
	return fmt.Sprintf("%dd%d", s.DiceCount, s.Sides)
}

// Validate checks the shape before any draw
func (s Shape) Validate() error {
	if s.Sides <= 0 {
		return ErrInvalidSides
	}
	if s.DiceCount <= 0 {
		return ErrInvalidDiceCount
	}
	if s.BatchCount < 0 {
		return ErrInvalidBatchCount
	}
	return nil
}

// ParseShape parses a dice_type label back into a Shape
func ParseShape(label string) (Shape, error) {
	batch := 1
	rest := label
	if before, after, ok := strings.Cut(label, "x"); ok {
		n, err := strconv.Atoi(before)
		if err != nil || n < 1 {
			return Shape{}, fmt.Errorf("%w: %q", ErrInvalidShape, label)
		}
		batch = n
		rest = after
	}

	count, sides, ok := strings.Cut(rest, "d")
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrInvalidShape, label)
	}

	c, err := strconv.Atoi(count)
	if err != nil {
		return Shape{}, fmt.Errorf("%w: %q", ErrInvalidShape, label)
	}
	sd, err := strconv.Atoi(sides)
	if err != nil {
		return Shape{}, fmt.Errorf("%w: %q", ErrInvalidShape, label)
	}

	shape := Shape{Sides: sd, DiceCount: c, BatchCount: batch}
	if err := shape.Validate(); err != nil {
		return Shape{}, fmt.Errorf("%w: %q", ErrInvalidShape, label)
	}

	return shape, nil
}
