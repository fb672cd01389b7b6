package dice

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/rollcall/internal/dice Roller

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Roller draws one uniform face in [1, sides]
type Roller interface {
	Roll(sides int) (int, error)
}

// Config for the seeded roller
type Config struct {
	// Seed for the pseudo-random source; zero draws one from crypto/rand
	Seed int64
}

// SeededRoller is a Roller over math/rand, safe for concurrent use
type SeededRoller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new dice roller
func New(cfg *Config) (*SeededRoller, error) {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}

	return NewSeededRoller(rand.NewSource(seed)), nil
}

// NewSeededRoller wraps an explicit source
func NewSeededRoller(source rand.Source) *SeededRoller {
	return &SeededRoller{
		random: rand.New(source),
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *SeededRoller) Roll(sides int) (int, error) {
	if sides < 1 {
		return 0, ErrInvalidSides
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.random.Intn(sides) + 1, nil
}

// NewSeed generates a random seed using crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
