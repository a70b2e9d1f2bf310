package scoring

// Side identifies one of the two players in a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// MatchMode determines how many sets a match is played over.
type MatchMode string

const (
	BestOf1 MatchMode = "BEST_OF_1"
	BestOf3 MatchMode = "BEST_OF_3"
	BestOf5 MatchMode = "BEST_OF_5"
)

// SetsToWin returns the number of sets required to win the match.
func (m MatchMode) SetsToWin() int {
	switch m {
	case BestOf3:
		return 2
	case BestOf5:
		return 3
	default:
		return 1
	}
}

// TotalSets returns the maximum number of sets that can be played.
func (m MatchMode) TotalSets() int {
	switch m {
	case BestOf3:
		return 3
	case BestOf5:
		return 5
	default:
		return 1
	}
}

// Valid reports whether the mode is one of the known variants.
func (m MatchMode) Valid() bool {
	switch m {
	case BestOf1, BestOf3, BestOf5:
		return true
	}
	return false
}

// tieBreakTarget overrides the configured target score when tie-break mode is on.
const tieBreakTarget = 15

// Settings holds the win conditions for a match. Immutable once a match starts.
type Settings struct {
	Mode        MatchMode `json:"mode" msgpack:"mode"`
	TargetScore int       `json:"target_score" msgpack:"target_score"`
	WinByTwo    bool      `json:"win_by_two" msgpack:"win_by_two"`
	TieBreak    bool      `json:"tie_break" msgpack:"tie_break"`
}

// DefaultSettings returns the standard squash configuration: a single set to 11,
// win by two.
func DefaultSettings() Settings {
	return Settings{
		Mode:        BestOf1,
		TargetScore: 11,
		WinByTwo:    true,
		TieBreak:    false,
	}
}

// EffectiveTarget is the score a player must reach for the set to be winnable.
func (s Settings) EffectiveTarget() int {
	if s.TieBreak {
		return tieBreakTarget
	}
	return s.TargetScore
}

// SetOutcome is the result of evaluating a set score against the settings.
type SetOutcome struct {
	Over   bool
	Winner Side
}
