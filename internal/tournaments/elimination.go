package tournaments

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

var ErrInvalidPairings = errors.New("invalid first-round pairings")

// Pairing is one hand-built first-round match.
type Pairing struct {
	Participant1 Slot `json:"participant1Id"`
	Participant2 Slot `json:"participant2Id"`
}

// SortBySeed returns a copy ordered by seed ascending. Unseeded participants
// follow the seeded ones in their original order.
func SortBySeed(participants []Participant) []Participant {
	sorted := make([]Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Seed, sorted[j].Seed
		switch {
		case si > 0 && sj > 0:
			return si < sj
		case si > 0:
			return true
		default:
			return false
		}
	})
	return sorted
}

// BracketSize is the smallest power of two that fits n entrants, and the
// number of rounds needed to reduce it to a single winner.
func BracketSize(n int) (size, rounds int) {
	if n < 2 {
		return n, 0
	}
	rounds = bits.Len(uint(n - 1))
	return 1 << rounds, rounds
}

// GenerateSingleElimination draws a knockout bracket from participants already
// ordered by seed. Seed 1 meets the weakest slot, seed 2 the second weakest,
// and so on; missing entrants become empty slots. Rounds after the first are
// empty placeholders filled by Advance.
func GenerateSingleElimination(tournamentID int64, seeded []Participant) []Match {
	if len(seeded) < 2 {
		return nil
	}

	size, rounds := BracketSize(len(seeded))
	slots := make([]Slot, size)
	for i, participant := range seeded {
		slots[i] = Occupied(participant.ID)
	}

	pairings := make([]Pairing, 0, size/2)
	for i := 0; i < size/2; i++ {
		pairings = append(pairings, Pairing{
			Participant1: slots[i],
			Participant2: slots[size-1-i],
		})
	}

	return buildBracket(tournamentID, pairings, rounds)
}

// GenerateFromPairings builds a knockout bracket from an operator-built first
// round. The number of pairings must be a power of two and no participant may
// appear twice.
func GenerateFromPairings(tournamentID int64, pairings []Pairing) ([]Match, error) {
	n := len(pairings)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d matches is not a power of two", ErrInvalidPairings, n)
	}

	seen := make(map[ParticipantID]struct{}, n*2)
	occupied := 0
	for idx, pairing := range pairings {
		if pairing.Participant1.IsEmpty() && pairing.Participant2.IsEmpty() {
			return nil, fmt.Errorf("%w: match %d has no participants", ErrInvalidPairings, idx+1)
		}
		for _, slot := range []Slot{pairing.Participant1, pairing.Participant2} {
			id, ok := slot.ID()
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: participant %d placed twice (match %d)", ErrInvalidPairings, id, idx+1)
			}
			seen[id] = struct{}{}
			occupied++
		}
	}
	if occupied < 2 {
		return nil, fmt.Errorf("%w: at least two participants are required", ErrInvalidPairings)
	}

	return buildBracket(tournamentID, pairings, bits.Len(uint(n))), nil
}

func buildBracket(tournamentID int64, firstRound []Pairing, rounds int) []Match {
	total := len(firstRound)*2 - 1
	matches := make([]Match, 0, total)

	for idx, pairing := range firstRound {
		matches = append(matches, Match{
			TournamentID: tournamentID,
			Round:        1,
			MatchNumber:  idx + 1,
			Stage:        StageKnockout,
			Participant1: pairing.Participant1,
			Participant2: pairing.Participant2,
			Status:       StatusPending,
		})
	}

	count := len(firstRound)
	for round := 2; round <= rounds; round++ {
		count /= 2
		for number := 1; number <= count; number++ {
			matches = append(matches, Match{
				TournamentID: tournamentID,
				Round:        round,
				MatchNumber:  number,
				Stage:        StageKnockout,
				Status:       StatusPending,
			})
		}
	}

	return matches
}
