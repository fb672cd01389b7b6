package discord

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/services/messaging"
	"github.com/KirkDiggler/rollcall/internal/services/roll"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport answers every Discord REST call with 204 and keeps the
// request bodies
type recordingTransport struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	t.mu.Lock()
	t.bodies = append(t.bodies, body)
	t.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusNoContent,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func (t *recordingTransport) last() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.bodies) == 0 {
		return nil
	}
	return t.bodies[len(t.bodies)-1]
}

// interactionReply is the part of an interaction response the tests read
type interactionReply struct {
	Type int `json:"type"`
	Data struct {
		Flags  int `json:"flags"`
		Embeds []struct {
			Title string `json:"title"`
		} `json:"embeds"`
		Components []json.RawMessage `json:"components"`
	} `json:"data"`
}

func newRecordingSession(t *testing.T) (*discordgo.Session, *recordingTransport) {
	t.Helper()

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	transport := &recordingTransport{}
	session.Client = &http.Client{Transport: transport}
	return session, transport
}

func newReplyCommand(t *testing.T) *RollCommand {
	t.Helper()

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{
		Source: rand.NewSource(7),
	})
	require.NoError(t, err)

	return NewRollCommand(nil, nil, messagingService, nil, RollLimits{}, nil)
}

func TestRespondWithRollVisibility(t *testing.T) {
	testCases := []struct {
		name          string
		roll          *models.DiceRoll
		wantEphemeral bool
	}{
		{
			name: "player roll is public",
			roll: &models.DiceRoll{
				UserID:      "player-1",
				DisplayName: "Aria",
				DiceType:    "1d20",
				Rolls:       []int{12},
				Total:       17,
				Modifier:    5,
				RollMode:    models.RollModeSum,
			},
		},
		{
			name: "GM master roll stays with the GM",
			roll: &models.DiceRoll{
				UserID:       "gm-1",
				DisplayName:  "GM",
				DiceType:     "1d20",
				Rolls:        []int{17},
				Total:        17,
				RollMode:     models.RollModeSum,
				IsMasterRoll: true,
			},
			wantEphemeral: true,
		},
		{
			name: "hidden roll stays with the GM",
			roll: &models.DiceRoll{
				UserID:            "gm-1",
				DisplayName:       "GM",
				DiceType:          "1d20",
				Rolls:             []int{9},
				Total:             9,
				RollMode:          models.RollModeSum,
				IsMasterRoll:      true,
				HiddenFromPlayers: true,
			},
			wantEphemeral: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			session, transport := newRecordingSession(t)
			cmd := newReplyCommand(t)
			interaction := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				ID:        "interaction-1",
				Token:     "interaction-token",
				ChannelID: "channel-1",
			}}

			err := cmd.respondWithRoll(t.Context(), session, interaction, &roll.RollOutput{Roll: tc.roll})
			require.NoError(t, err)

			body := transport.last()
			require.NotEmpty(t, body)

			var reply interactionReply
			require.NoError(t, json.Unmarshal(body, &reply))
			assert.Equal(t, int(discordgo.InteractionResponseChannelMessageWithSource), reply.Type)
			require.Len(t, reply.Data.Embeds, 1)

			if tc.wantEphemeral {
				assert.Equal(t, int(discordgo.MessageFlagsEphemeral), reply.Data.Flags&int(discordgo.MessageFlagsEphemeral))
				assert.Empty(t, reply.Data.Components, "private rolls get no roll again button")
			} else {
				assert.Zero(t, reply.Data.Flags&int(discordgo.MessageFlagsEphemeral))
				assert.Len(t, reply.Data.Components, 1)
			}
		})
	}
}

func TestRollCommandUsesConfiguredLimits(t *testing.T) {
	cmd := NewRollCommand(nil, nil, nil, nil, RollLimits{
		MaxSides:      12,
		MaxDiceCount:  5,
		MaxBatchCount: 3,
		MaxModifier:   10,
		HistoryLimit:  15,
	}, nil)

	var dice *discordgo.ApplicationCommandOption
	for _, opt := range cmd.GetCommand().Options {
		if opt.Name == "dice" {
			dice = opt
		}
	}
	require.NotNil(t, dice)

	options := make(map[string]*discordgo.ApplicationCommandOption)
	for _, opt := range dice.Options {
		options[opt.Name] = opt
	}

	values := make([]int, 0, len(options["sides"].Choices))
	for _, choice := range options["sides"].Choices {
		values = append(values, choice.Value.(int))
	}
	assert.Equal(t, []int{4, 6, 8, 10, 12}, values)
	assert.Equal(t, float64(5), options["count"].MaxValue)
	assert.Equal(t, float64(3), options["batches"].MaxValue)
	assert.Equal(t, float64(10), options["modifier"].MaxValue)
	require.NotNil(t, options["modifier"].MinValue)
	assert.Equal(t, float64(-10), *options["modifier"].MinValue)

	small := NewRollCommand(nil, nil, nil, nil, RollLimits{MaxSides: 3}, nil)
	for _, opt := range small.GetCommand().Options {
		if opt.Name != "dice" {
			continue
		}
		sides := opt.Options[0]
		assert.Empty(t, sides.Choices)
		assert.Equal(t, float64(3), sides.MaxValue)
	}
}
