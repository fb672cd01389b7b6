package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rollcall/internal/dice"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
)

// ButtonRollAgainPrefix starts the custom ID of a roll again button
const ButtonRollAgainPrefix = "roll_again"

// rollAgainSeparator joins the fields of a roll again custom ID
const rollAgainSeparator = "|"

// formatModifier renders a non-zero modifier with its sign
func formatModifier(modifier int) string {
	if modifier == 0 {
		return ""
	}
	return fmt.Sprintf("%+d", modifier)
}

// formatFaces renders raw faces in draw order, grouped per batch
func formatFaces(roll *models.DiceRoll) string {
	perBatch := len(roll.Rolls)
	if shape, err := dice.ParseShape(roll.DiceType); err == nil && shape.DiceCount > 0 {
		perBatch = shape.DiceCount
	}
	if perBatch == 0 {
		return "[]"
	}

	groups := make([]string, 0, len(roll.Rolls)/perBatch+1)
	for start := 0; start < len(roll.Rolls); start += perBatch {
		end := min(start+perBatch, len(roll.Rolls))
		faces := make([]string, 0, end-start)
		for _, face := range roll.Rolls[start:end] {
			faces = append(faces, strconv.Itoa(face))
		}
		groups = append(groups, "["+strings.Join(faces, ", ")+"]")
	}
	return strings.Join(groups, " ")
}

// formatRollLine renders one roll as a single history line
func formatRollLine(roll *models.DiceRoll) string {
	var b strings.Builder

	name := roll.DisplayName
	if name == "" {
		name = "Unknown"
	}
	fmt.Fprintf(&b, "**%s** %s%s", name, roll.DiceType, formatModifier(roll.Modifier))

	if roll.RollMode != "" && roll.RollMode != models.RollModeSum {
		fmt.Fprintf(&b, " (%s)", roll.RollMode.DisplayName())
	}

	fmt.Fprintf(&b, " %s = **%d**", formatFaces(roll), roll.Total)

	switch {
	case roll.HiddenFromPlayers:
		b.WriteString(" · hidden")
	case roll.IsMasterRoll:
		b.WriteString(" · GM")
	}

	return b.String()
}

// renderRollEmbed renders a freshly committed roll with its flavour text
func renderRollEmbed(roll *models.DiceRoll, flavour *messaging.GetRollResultMessageOutput) *discordgo.MessageEmbed {
	color := colorDefault
	title := fmt.Sprintf("%s rolled %d", roll.DisplayName, roll.Total)
	description := ""
	if flavour != nil {
		title = flavour.Title
		description = flavour.Message
		switch flavour.Outcome {
		case messaging.OutcomeNaturalMax:
			color = colorCrit
		case messaging.OutcomeNaturalOne:
			color = colorFumble
		}
	}
	if roll.HiddenFromPlayers {
		color = colorHidden
	}

	mode := roll.RollMode
	if mode == "" {
		mode = models.RollModeSum
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Dice",
			Value:  roll.DiceType,
			Inline: true,
		},
		{
			Name:   "Mode",
			Value:  mode.DisplayName(),
			Inline: true,
		},
		{
			Name:   "Total",
			Value:  fmt.Sprintf("**%d**", roll.Total),
			Inline: true,
		},
		{
			Name:  "Rolls",
			Value: formatFaces(roll),
		},
	}

	if roll.Modifier != 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Modifier",
			Value:  formatModifier(roll.Modifier),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
	}

	switch {
	case roll.HiddenFromPlayers:
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Hidden from players"}
	case roll.IsMasterRoll:
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "GM roll"}
	}

	return embed
}

// renderHistoryEmbed renders the rolls a viewer may see, newest first
func renderHistoryEmbed(campaign *models.Campaign, rolls []*models.DiceRoll) *discordgo.MessageEmbed {
	title := "Recent rolls"
	if campaign != nil && campaign.Name != "" {
		title = fmt.Sprintf("%s: recent rolls", campaign.Name)
	}

	if len(rolls) == 0 {
		return &discordgo.MessageEmbed{
			Title:       title,
			Description: "No rolls yet.",
			Color:       colorDefault,
		}
	}

	lines := make([]string, 0, len(rolls))
	for _, roll := range rolls {
		lines = append(lines, formatRollLine(roll))
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       colorDefault,
	}
}

// renderBoardEmbed renders the public roll board for a campaign
func renderBoardEmbed(campaign *models.Campaign, rolls []*models.DiceRoll) *discordgo.MessageEmbed {
	embed := renderHistoryEmbed(campaign, rolls)
	embed.Title = "🎲 " + campaign.Name
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Roll with /roll dice",
	}
	return embed
}

// rollAgainCustomID encodes a roll's shape so the button can repeat it
func rollAgainCustomID(roll *models.DiceRoll) string {
	mode := roll.RollMode
	if mode == "" {
		mode = models.RollModeSum
	}
	return strings.Join([]string{
		ButtonRollAgainPrefix,
		roll.DiceType,
		strconv.Itoa(roll.Modifier),
		string(mode),
	}, rollAgainSeparator)
}

// rollAgainRequest is a roll decoded from a roll again button
type rollAgainRequest struct {
	Shape    dice.Shape
	Modifier int
	Mode     models.RollMode
}

// parseRollAgainCustomID decodes a custom ID made by rollAgainCustomID
func parseRollAgainCustomID(customID string) (*rollAgainRequest, error) {
	parts := strings.Split(customID, rollAgainSeparator)
	if len(parts) != 4 || parts[0] != ButtonRollAgainPrefix {
		return nil, fmt.Errorf("unknown roll again button %q", customID)
	}

	shape, err := dice.ParseShape(parts[1])
	if err != nil {
		return nil, err
	}

	modifier, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid modifier in %q: %w", customID, err)
	}

	mode := models.RollMode(parts[3])
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid roll mode in %q", customID)
	}

	return &rollAgainRequest{
		Shape:    shape,
		Modifier: modifier,
		Mode:     mode,
	}, nil
}

// rollAgainComponents renders the button row under a public roll
func rollAgainComponents(roll *models.DiceRoll) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Roll Again",
					Style:    discordgo.PrimaryButton,
					CustomID: rollAgainCustomID(roll),
					Emoji: &discordgo.ComponentEmoji{
						Name: "🎲",
					},
				},
			},
		},
	}
}
