package apiutil

import (
	"database/sql"

	dbgen "github.com/codr1/clubhouse/internal/db/generated"
	"github.com/codr1/clubhouse/internal/tournaments"
)

func ParticipantFromRow(row dbgen.TournamentParticipant) tournaments.Participant {
	names := []string{row.PlayerName}
	if row.PartnerName.Valid && row.PartnerName.String != "" {
		names = append(names, row.PartnerName.String)
	}
	return tournaments.Participant{
		ID:    tournaments.ParticipantID(row.ID),
		Names: names,
		Group: int(row.GroupNumber),
		Seed:  int(row.Seed),
		Email: row.Email.String,
		Phone: row.Phone.String,
	}
}

func ParticipantsFromRows(rows []dbgen.TournamentParticipant) []tournaments.Participant {
	participants := make([]tournaments.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, ParticipantFromRow(row))
	}
	return participants
}

func MatchFromRow(row dbgen.TournamentMatch) tournaments.Match {
	return tournaments.Match{
		ID:           row.ID,
		TournamentID: row.TournamentID,
		Round:        int(row.Round),
		MatchNumber:  int(row.MatchNumber),
		Stage:        tournaments.Stage(row.Stage),
		Group:        int(row.GroupNumber),
		Participant1: slotFromNull(row.Participant1ID),
		Participant2: slotFromNull(row.Participant2ID),
		Score:        row.Score.String,
		Winner:       slotFromNull(row.WinnerID),
		Status:       tournaments.Status(row.Status),
		ScheduledAt:  FromNullTime(row.ScheduledAt),
	}
}

func MatchesFromRows(rows []dbgen.TournamentMatch) []tournaments.Match {
	matches := make([]tournaments.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, MatchFromRow(row))
	}
	return matches
}

// CreateMatchParams maps a generated match to its insert parameters. Results
// are never inserted; they are written through UpdateMatchResult.
func CreateMatchParams(m tournaments.Match) dbgen.CreateMatchParams {
	status := m.Status
	if status == "" || status == tournaments.StatusCompleted {
		status = tournaments.StatusPending
	}
	return dbgen.CreateMatchParams{
		TournamentID:   m.TournamentID,
		Round:          int64(m.Round),
		MatchNumber:    int64(m.MatchNumber),
		Stage:          string(m.Stage),
		GroupNumber:    int64(m.Group),
		Participant1ID: SlotToNull(m.Participant1),
		Participant2ID: SlotToNull(m.Participant2),
		Status:         string(status),
	}
}

func SlotToNull(slot tournaments.Slot) sql.NullInt64 {
	id, ok := slot.ID()
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}
}

func slotFromNull(value sql.NullInt64) tournaments.Slot {
	if !value.Valid {
		return tournaments.EmptySlot()
	}
	return tournaments.Occupied(tournaments.ParticipantID(value.Int64))
}
