package entities

import (
	"slices"
	"time"
)

// AbilityRoll is one 4d6 drop lowest roll
type AbilityRoll struct {
	ID      string `json:"id"`
	Kept    []int  `json:"kept"`
	Dropped int    `json:"dropped"`
	Total   int    `json:"total"`
}

// AbilityRollSession holds the rolls a draft may assign with the rolled
// abilities method. Rolling again replaces it.
type AbilityRollSession struct {
	DraftID   string        `json:"draftId"`
	Rolls     []AbilityRoll `json:"rolls"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Totals returns the roll totals, highest first
func (s *AbilityRollSession) Totals() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.Rolls))
	for i, r := range s.Rolls {
		out[i] = r.Total
	}
	slices.SortFunc(out, func(a, b int) int { return b - a })
	return out
}

// Clone returns a deep copy
func (s *AbilityRollSession) Clone() *AbilityRollSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Rolls = make([]AbilityRoll, len(s.Rolls))
	for i, r := range s.Rolls {
		r.Kept = slices.Clone(r.Kept)
		out.Rolls[i] = r
	}
	return &out
}
