package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_String(t *testing.T) {
	assert.Equal(t, "2d20", Shape{Sides: 20, DiceCount: 2}.String())
	assert.Equal(t, "2d20", Shape{Sides: 20, DiceCount: 2, BatchCount: 1}.String())
	assert.Equal(t, "3x2d6", Shape{Sides: 6, DiceCount: 2, BatchCount: 3}.String())
}

func TestParseShape(t *testing.T) {
	shape, err := ParseShape("3x2d6")
	require.NoError(t, err)
	assert.Equal(t, Shape{Sides: 6, DiceCount: 2, BatchCount: 3}, shape)
	assert.Equal(t, 6, shape.Faces())

	shape, err = ParseShape("1d100")
	require.NoError(t, err)
	assert.Equal(t, Shape{Sides: 100, DiceCount: 1, BatchCount: 1}, shape)

	for _, bad := range []string{"", "d6", "2d", "0d6", "2d0", "xd6", "0x1d6", "two-d-six"} {
		_, err := ParseShape(bad)
		assert.ErrorIs(t, err, ErrInvalidShape, bad)
	}
}
