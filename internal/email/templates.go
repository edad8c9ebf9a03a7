package email

import (
	"fmt"
	"strings"
	"time"
)

type Message struct {
	Subject string
	Body    string
}

type MatchReminderDetails struct {
	TournamentName string
	PlayerName     string
	OpponentName   string
	Stage          string
	Group          int
	Round          int
	ScheduledAt    time.Time
}

// FormatMatchTime renders a match start in the given location.
func FormatMatchTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return fmt.Sprintf("%s at %s %s", t.Format("Monday, Jan 2, 2006"), t.Format("3:04 PM"), t.Format("MST"))
}

// RoundLabel names a round the way players read it on the draw sheet.
func RoundLabel(stage string, group, round int) string {
	if stage == "group" && group > 0 {
		return fmt.Sprintf("Group %d, round %d", group, round)
	}
	return fmt.Sprintf("Round %d", round)
}

func BuildMatchReminderEmail(details MatchReminderDetails, loc *time.Location) Message {
	tournament := strings.TrimSpace(details.TournamentName)
	if tournament == "" {
		tournament = "your tournament"
	}
	opponent := strings.TrimSpace(details.OpponentName)
	if opponent == "" {
		opponent = "an opponent to be confirmed"
	}

	var body strings.Builder
	if name := strings.TrimSpace(details.PlayerName); name != "" {
		fmt.Fprintf(&body, "Hi %s,\n\n", name)
	} else {
		body.WriteString("Hi,\n\n")
	}
	fmt.Fprintf(&body, "This is a reminder of your upcoming match in %s.\n\n", tournament)
	fmt.Fprintf(&body, "%s\n", RoundLabel(details.Stage, details.Group, details.Round))
	fmt.Fprintf(&body, "Opponent: %s\n", opponent)
	fmt.Fprintf(&body, "When: %s\n\n", FormatMatchTime(details.ScheduledAt, loc))
	body.WriteString("Please report the result to the tournament desk once the match is finished.\n")

	return Message{
		Subject: fmt.Sprintf("Match reminder: %s", tournament),
		Body:    body.String(),
	}
}
