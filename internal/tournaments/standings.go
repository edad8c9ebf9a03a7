package tournaments

import "sort"

const pointsPerWin = 3

type Standing struct {
	ParticipantID ParticipantID `json:"participantId"`
	Name          string        `json:"name"`
	Group         int           `json:"group,omitempty"`
	Played        int           `json:"played"`
	Won           int           `json:"won"`
	Lost          int           `json:"lost"`
	SetsWon       int           `json:"setsWon"`
	SetsLost      int           `json:"setsLost"`
	GamesWon      int           `json:"gamesWon"`
	GamesLost     int           `json:"gamesLost"`
	Points        int           `json:"points"`
}

func (s Standing) SetDifference() int {
	return s.SetsWon - s.SetsLost
}

func (s Standing) GameDifference() int {
	return s.GamesWon - s.GamesLost
}

type GroupStandings struct {
	Group     int        `json:"group"`
	Standings []Standing `json:"standings"`
}

// CalculateStandings rebuilds the table from scratch. Only completed matches
// with a score count, and a match naming a participant outside the supplied
// list is ignored entirely. Ties on points, set difference and game
// difference keep the input order.
func CalculateStandings(participants []Participant, matches []Match) []Standing {
	ordered := make([]*Standing, 0, len(participants))
	index := make(map[ParticipantID]*Standing, len(participants))
	for _, participant := range participants {
		if _, dup := index[participant.ID]; dup {
			continue
		}
		entry := &Standing{
			ParticipantID: participant.ID,
			Name:          participant.DisplayName(),
			Group:         participant.Group,
		}
		index[participant.ID] = entry
		ordered = append(ordered, entry)
	}

	for _, match := range matches {
		applyResult(index, match)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.SetDifference() != b.SetDifference() {
			return a.SetDifference() > b.SetDifference()
		}
		return a.GameDifference() > b.GameDifference()
	})

	standings := make([]Standing, 0, len(ordered))
	for _, entry := range ordered {
		standings = append(standings, *entry)
	}
	return standings
}

func applyResult(index map[ParticipantID]*Standing, match Match) {
	if match.Status != StatusCompleted || match.Score == "" {
		return
	}
	id1, ok1 := match.Participant1.ID()
	id2, ok2 := match.Participant2.ID()
	if !ok1 || !ok2 {
		return
	}
	first, second := index[id1], index[id2]
	if first == nil || second == nil {
		return
	}

	for _, set := range ParseScore(match.Score) {
		first.GamesWon += set.Games1
		first.GamesLost += set.Games2
		second.GamesWon += set.Games2
		second.GamesLost += set.Games1
		switch {
		case set.Games1 > set.Games2:
			first.SetsWon++
			second.SetsLost++
		case set.Games2 > set.Games1:
			second.SetsWon++
			first.SetsLost++
		}
	}

	first.Played++
	second.Played++
	switch {
	case match.Winner.Holds(id1):
		first.Won++
		first.Points += pointsPerWin
		second.Lost++
	case match.Winner.Holds(id2):
		second.Won++
		second.Points += pointsPerWin
		first.Lost++
	}
}

// StandingsByGroup runs the calculator once per group over that group's
// participants and group-stage matches.
func StandingsByGroup(participants []Participant, matches []Match, groupCount int) []GroupStandings {
	numbers, byGroup := PartitionByGroup(participants, groupCount)

	matchesByGroup := make(map[int][]Match, len(numbers))
	for _, match := range matches {
		if match.Stage != StageGroup {
			continue
		}
		matchesByGroup[match.Group] = append(matchesByGroup[match.Group], match)
	}

	result := make([]GroupStandings, 0, len(numbers))
	for _, g := range numbers {
		result = append(result, GroupStandings{
			Group:     g,
			Standings: CalculateStandings(byGroup[g], matchesByGroup[g]),
		})
	}
	return result
}
