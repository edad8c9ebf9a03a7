package tournaments

import "sort"

// GroupOf returns the participant's group, treating unassigned as group 1.
func GroupOf(p Participant) int {
	if p.Group < 1 {
		return 1
	}
	return p.Group
}

// PartitionByGroup splits participants by group, preserving input order within
// each group. The returned numbers cover 1..groupCount plus any higher group a
// participant was assigned to, in ascending order.
func PartitionByGroup(participants []Participant, groupCount int) ([]int, map[int][]Participant) {
	if groupCount < 1 {
		groupCount = 1
	}
	byGroup := make(map[int][]Participant, groupCount)
	for g := 1; g <= groupCount; g++ {
		byGroup[g] = nil
	}
	for _, participant := range participants {
		g := GroupOf(participant)
		byGroup[g] = append(byGroup[g], participant)
	}

	numbers := make([]int, 0, len(byGroup))
	for g := range byGroup {
		numbers = append(numbers, g)
	}
	sort.Ints(numbers)
	return numbers, byGroup
}

// GenerateGroupStage runs an independent round robin inside each group. The
// knockout stage is drawn later from the group finishers.
func GenerateGroupStage(tournamentID int64, participants []Participant, groupCount int) []Match {
	numbers, byGroup := PartitionByGroup(participants, groupCount)

	var matches []Match
	for _, g := range numbers {
		matches = append(matches, GenerateRoundRobin(tournamentID, byGroup[g], g)...)
	}
	return matches
}
