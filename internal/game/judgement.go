package game

import (
	"fmt"
	"strings"
)

// Tier is a named accuracy bucket, ordered from tightest to widest.
type Tier uint8

const (
	Marvelous Tier = iota
	Perfect
	Great
	Good
	Okay
	Miss

	TierCount = int(Miss) + 1
)

var tierNames = [TierCount]string{
	Marvelous: "Marvelous",
	Perfect:   "Perfect",
	Great:     "Great",
	Good:      "Good",
	Okay:      "Okay",
	Miss:      "Miss",
}

func (t Tier) String() string {
	if int(t) < TierCount {
		return tierNames[t]
	}
	return fmt.Sprintf("Tier(%d)", uint8(t))
}

func (t Tier) Valid() bool {
	return int(t) < TierCount
}

func ParseTier(name string) (Tier, error) {
	for i, n := range tierNames {
		if strings.EqualFold(n, name) {
			return Tier(i), nil
		}
	}
	return Miss, fmt.Errorf("unknown tier %q", name)
}

func Tiers() []Tier {
	tiers := make([]Tier, TierCount)
	for i := range tiers {
		tiers[i] = Tier(i)
	}
	return tiers
}

type Judgement struct {
	Tier       Tier
	DeltaMs    float64 // Input time minus chart time, negative when early
	Lane       int
	NoteID     int
	Edge       EdgeKind
	SongTimeMs float64

	EarlyRelease bool // Hold let go before its release window opened
	Auto         bool // Produced by the miss sweep rather than an input
	PressTier    Tier // Release judgements only, the tier of the matching press
}

// Breaks reports whether the judgement resets combo.
func (j Judgement) Breaks() bool {
	return j.Tier == Miss || j.EarlyRelease
}
