package tournaments

import (
	"errors"
	"fmt"
	"strings"
)

// WalkoverScore is recorded on a match won by a bye.
const WalkoverScore = "w/o"

var ErrNotBye = errors.New("match is not a bye")

// ByePolicy decides what happens to a first-round match with one entrant.
type ByePolicy string

const (
	// ByePolicyConfirm leaves bye matches pending until an operator confirms them.
	ByePolicyConfirm ByePolicy = "confirm"
	// ByePolicyAuto resolves bye matches as soon as the bracket is drawn.
	ByePolicyAuto ByePolicy = "auto"
)

func ParseByePolicy(raw string) (ByePolicy, error) {
	switch p := ByePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return ByePolicyConfirm, nil
	case ByePolicyConfirm, ByePolicyAuto:
		return p, nil
	default:
		return "", fmt.Errorf("unknown bye policy %q", raw)
	}
}

// IsBye reports whether m is an unresolved first-round knockout match with
// exactly one entrant. Later rounds are excluded because their empty slot is
// still waiting on an upstream result.
func IsBye(m Match) bool {
	if m.Stage != StageKnockout || m.Round != 1 || m.Status == StatusCompleted {
		return false
	}
	return m.Participant1.IsEmpty() != m.Participant2.IsEmpty()
}

// ResolveBye completes a bye match in favour of its lone entrant.
func ResolveBye(m Match) (Match, error) {
	if !IsBye(m) {
		return m, ErrNotBye
	}
	winner := m.Participant1
	if winner.IsEmpty() {
		winner = m.Participant2
	}
	m.Winner = winner
	m.Score = WalkoverScore
	m.Status = StatusCompleted
	return m, nil
}

type ByeResolution struct {
	Resolved []Match
	Updates  []SlotUpdate
}

// AutoAdvanceByes resolves every bye in bracket and moves each lone entrant
// one round forward. Matches must already carry their storage ids, since
// slot updates are addressed by id. The bracket slice is updated in place so
// that the returned resolution and the slice agree.
func AutoAdvanceByes(bracket []Match) ByeResolution {
	var res ByeResolution
	for i := range bracket {
		if !IsBye(bracket[i]) {
			continue
		}
		resolved, err := ResolveBye(bracket[i])
		if err != nil {
			continue
		}
		bracket[i] = resolved
		res.Resolved = append(res.Resolved, resolved)

		if update, ok := Advance(resolved, bracket); ok {
			ApplySlotUpdate(bracket, update)
			res.Updates = append(res.Updates, update)
		}
	}
	return res
}
