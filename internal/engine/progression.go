package engine

import "time"

// DeriveLevel maps cumulative XP to a level: one level per full 100 XP,
// starting at level 1. Level is always recomputed from XP, never patched
// incrementally, so a stored level can never drift from the XP it was
// derived from.
func DeriveLevel(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/100 + 1
}

// NextStreak returns the updated daily streak for an interaction happening
// at now, given the pet's current streak and the timestamp of its most
// recent ledger entry. hasLast is false for a pet with an empty ledger.
//
// Consecutive calendar days extend the streak, a repeat on the same day
// holds it, and any gap of two or more days resets it to 1.
func NextStreak(streakDays int, last time.Time, hasLast bool, now time.Time) int {
	if !hasLast {
		return 1
	}

	switch daysBetween(last, now) {
	case 0:
		if streakDays < 1 {
			return 1
		}
		return streakDays
	case 1:
		return streakDays + 1
	default:
		return 1
	}
}

// daysBetween counts the calendar-day boundaries crossed between a and b,
// evaluated in b's location so the streak follows the user's local clock.
func daysBetween(a, b time.Time) int {
	loc := b.Location()
	a = a.In(loc)

	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, loc)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, loc)

	return int(end.Sub(start) / (24 * time.Hour))
}
