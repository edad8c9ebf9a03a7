package tournaments

import (
	"context"
	"net/http"

	"github.com/codr1/clubhouse/internal/api/apiutil"
	"github.com/codr1/clubhouse/internal/tournaments"
)

type standingsResponse struct {
	TournamentID int64                        `json:"tournamentId"`
	Format       tournaments.Format           `json:"format"`
	Groups       []tournaments.GroupStandings `json:"groups"`
}

// GET /api/v1/tournaments/{id}/standings
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	tournamentID, err := apiutil.PathID(r, tournamentIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	tournament, err := loadTournament(ctx, db.Queries, tournamentID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	participantRows, err := db.Queries.ListParticipantsByTournament(ctx, tournamentID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	matchRows, err := db.Queries.ListMatchesByTournament(ctx, tournamentID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	participants := apiutil.ParticipantsFromRows(participantRows)
	matches := apiutil.MatchesFromRows(matchRows)
	format := tournaments.Format(tournament.Format)

	resp := standingsResponse{TournamentID: tournamentID, Format: format}
	if format == tournaments.FormatGroupKnockout {
		resp.Groups = tournaments.StandingsByGroup(participants, matches, int(tournament.GroupCount))
	} else {
		resp.Groups = []tournaments.GroupStandings{{
			Group:     0,
			Standings: tournaments.CalculateStandings(participants, matches),
		}}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
