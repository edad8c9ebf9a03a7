package tournaments

import (
	"errors"
	"strings"
)

var (
	ErrMatchNotReady    = errors.New("match does not have two participants")
	ErrMatchCompleted   = errors.New("match is already completed")
	ErrWinnerNotInMatch = errors.New("winner is not a participant of this match")
	ErrScoreRequired    = errors.New("score is required")
)

// RecordResult returns m completed with the given score and winner.
func RecordResult(m Match, score string, winner ParticipantID) (Match, error) {
	if m.Status == StatusCompleted {
		return m, ErrMatchCompleted
	}
	if m.Participant1.IsEmpty() || m.Participant2.IsEmpty() {
		return m, ErrMatchNotReady
	}
	if !m.Participant1.Holds(winner) && !m.Participant2.Holds(winner) {
		return m, ErrWinnerNotInMatch
	}
	score = strings.TrimSpace(score)
	if score == "" {
		return m, ErrScoreRequired
	}

	m.Score = score
	m.Winner = Occupied(winner)
	m.Status = StatusCompleted
	return m, nil
}
