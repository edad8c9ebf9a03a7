package tournaments

// GenerateRoundRobin schedules every participant against every other exactly
// once using the circle method. A positive group marks the matches as a group
// stage; otherwise they are knockout-stage matches of a plain round robin.
func GenerateRoundRobin(tournamentID int64, participants []Participant, group int) []Match {
	if len(participants) < 2 {
		return nil
	}

	working := make([]Slot, 0, len(participants)+1)
	for _, participant := range participants {
		working = append(working, Occupied(participant.ID))
	}
	if len(working)%2 == 1 {
		working = append(working, EmptySlot())
	}

	stage := StageKnockout
	if group > 0 {
		stage = StageGroup
	} else {
		group = 0
	}

	rounds := len(working) - 1
	half := len(working) / 2
	matches := make([]Match, 0, len(participants)*(len(participants)-1)/2)

	for round := 0; round < rounds; round++ {
		matchNumber := 0
		for i := 0; i < half; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left.IsEmpty() || right.IsEmpty() {
				continue
			}
			matchNumber++
			matches = append(matches, Match{
				TournamentID: tournamentID,
				Round:        round + 1,
				MatchNumber:  matchNumber,
				Stage:        stage,
				Group:        group,
				Participant1: left,
				Participant2: right,
				Status:       StatusPending,
			})
		}
		rotate(working)
	}

	return matches
}

// rotate keeps index 0 anchored and moves the last entry to index 1.
func rotate(slots []Slot) {
	if len(slots) <= 2 {
		return
	}
	last := slots[len(slots)-1]
	copy(slots[2:], slots[1:len(slots)-1])
	slots[1] = last
}
