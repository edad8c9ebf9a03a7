package tournaments

import (
	"strconv"
	"strings"
)

// SetScore is the game count of one set, from participant1's side first.
type SetScore struct {
	Games1 int `json:"games1"`
	Games2 int `json:"games2"`
}

// ParseScore reads a score such as "6-4, 3-6, 7-5". Fragments that are not
// two dash-separated integers are dropped.
func ParseScore(score string) []SetScore {
	if strings.TrimSpace(score) == "" {
		return nil
	}

	fragments := strings.Split(score, ",")
	sets := make([]SetScore, 0, len(fragments))
	for _, fragment := range fragments {
		parts := strings.Split(fragment, "-")
		if len(parts) != 2 {
			continue
		}
		games1, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		games2, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		sets = append(sets, SetScore{Games1: games1, Games2: games2})
	}
	return sets
}
