package tournaments

// SlotUpdate tells the caller which slot of which match to fill.
type SlotUpdate struct {
	MatchID       int64         `json:"matchId"`
	Side          Side          `json:"slot"`
	ParticipantID ParticipantID `json:"participantId"`
}

// NextSlot addresses the match a winner moves into: the next round, match
// number ceil(n/2), first slot for odd match numbers.
func NextSlot(m Match) (round, matchNumber int, side Side) {
	side = SideParticipant2
	if m.MatchNumber%2 == 1 {
		side = SideParticipant1
	}
	return m.Round + 1, (m.MatchNumber + 1) / 2, side
}

// Advance works out where the winner of a completed knockout match goes.
// It reports false for group-stage matches, matches without a winner, and
// the final. It performs a single write and does not follow walkovers.
func Advance(m Match, bracket []Match) (SlotUpdate, bool) {
	if m.Stage != StageKnockout {
		return SlotUpdate{}, false
	}
	winner, ok := m.Winner.ID()
	if !ok {
		return SlotUpdate{}, false
	}

	round, number, side := NextSlot(m)
	for _, candidate := range bracket {
		if candidate.TournamentID != m.TournamentID || candidate.Stage != StageKnockout {
			continue
		}
		if candidate.Round == round && candidate.MatchNumber == number {
			return SlotUpdate{MatchID: candidate.ID, Side: side, ParticipantID: winner}, true
		}
	}
	return SlotUpdate{}, false
}

// ApplySlotUpdate writes u into the matching entry of matches in place.
func ApplySlotUpdate(matches []Match, u SlotUpdate) bool {
	for i := range matches {
		if matches[i].ID == u.MatchID {
			matches[i].setSlot(u.Side, Occupied(u.ParticipantID))
			return true
		}
	}
	return false
}
