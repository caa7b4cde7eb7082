package availability

import (
	"strings"
	"unicode"

	"jobbot/models"
)

type matchTier func(input string, slot models.TimeSlot) bool

// Tiers run in priority order across the whole list: a weaker tier is only
// consulted once every slot has failed the stronger ones.
var matchTiers = []matchTier{
	func(in string, s models.TimeSlot) bool { return in == s.Display },
	func(in string, s models.TimeSlot) bool { return strings.EqualFold(in, s.Display) },
	// case-sensitive, so fragments like "am" or "pm" do not pick a slot
	func(in string, s models.TimeSlot) bool {
		return strings.Contains(s.Display, in) || strings.Contains(in, s.Display)
	},
	func(in string, s models.TimeSlot) bool { return squash(in) == squash(s.Display) },
	func(in string, s models.TimeSlot) bool { return strings.EqualFold(in, s.StartLabel()) },
}

// MatchSlot picks the candidate the customer meant. Blank input never matches.
func MatchSlot(input string, candidates []models.TimeSlot) (models.TimeSlot, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.TimeSlot{}, false
	}
	for _, tier := range matchTiers {
		for _, slot := range candidates {
			if tier(input, slot) {
				return slot, true
			}
		}
	}
	return models.TimeSlot{}, false
}

func squash(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}
