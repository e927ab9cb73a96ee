// Package flavor derives the cosmetic attributes shown on trophy cards.
// Everything here is a pure character-sum hash into a fixed bucket list, so a
// record renders identically across reloads without storing anything.
package flavor

var speedLabels = []string{"Speed Run", "Steady Hand", "Power Close", "Clean Sweep", "Epic Win"}

var qualityLabels = []string{"Perfect", "Legendary", "Rare", "Epic", "Common"}

// AgentPalette is the rotation of accent colors assigned to agents on
// privileged views.
var AgentPalette = []string{"cyan", "pink", "lime", "fuchsia", "amber"}

// CardStats are the flavor badges for one onboarded record.
type CardStats struct {
	Speed   string
	Quality string
}

func hash(s string) int {
	sum := 0
	for _, b := range []byte(s) {
		sum += int(b)
	}
	return sum
}

// Stats picks the badge pair for a record id.
func Stats(id string) CardStats {
	h := hash(id)
	return CardStats{
		Speed:   speedLabels[h%len(speedLabels)],
		Quality: qualityLabels[(h+2)%len(qualityLabels)],
	}
}

// AgentColor picks the stable accent color for an agent id.
func AgentColor(userID string) string {
	return AgentPalette[hash(userID)%len(AgentPalette)]
}
