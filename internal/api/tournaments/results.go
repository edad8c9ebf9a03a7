package tournaments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/clubhouse/internal/api/apiutil"
	appdb "github.com/codr1/clubhouse/internal/db"
	dbgen "github.com/codr1/clubhouse/internal/db/generated"
	"github.com/codr1/clubhouse/internal/tournaments"
)

type resultRequest struct {
	Score    string `json:"score"`
	WinnerID int64  `json:"winnerId"`
}

type matchScheduleRequest struct {
	ScheduledAt *string `json:"scheduledAt"`
}

type resultResponse struct {
	Match    tournaments.Match       `json:"match"`
	Advanced *tournaments.SlotUpdate `json:"advanced,omitempty"`
}

// POST /api/v1/matches/{id}/result
func HandleRecordResult(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	matchID, err := apiutil.PathID(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req resultRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	if req.WinnerID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "winnerId", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	var resp resultResponse
	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		match, tournament, err := loadMatch(ctx, qtx, matchID)
		if err != nil {
			return err
		}

		recorded, err := tournaments.RecordResult(match, req.Score, tournaments.ParticipantID(req.WinnerID))
		if err != nil {
			return resultError(err)
		}
		if err := persistResult(ctx, qtx, recorded); err != nil {
			return err
		}

		resp.Match = recorded
		resp.Advanced, err = advanceWinner(ctx, qtx, tournament, recorded)
		return err
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	event := logger.Info().
		Int64("match_id", matchID).
		Int64("tournament_id", resp.Match.TournamentID).
		Str("score", resp.Match.Score)
	if resp.Advanced != nil {
		event = event.Int64("next_match_id", resp.Advanced.MatchID)
	}
	event.Msg("Match result recorded")
	writeJSON(w, r, http.StatusOK, resp)
}

// POST /api/v1/matches/{id}/bye
func HandleConfirmBye(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	matchID, err := apiutil.PathID(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	var resp resultResponse
	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		match, tournament, err := loadMatch(ctx, qtx, matchID)
		if err != nil {
			return err
		}
		if !hasBracket(tournament) {
			return apiutil.HandlerError{Status: http.StatusConflict, Message: "Match is not a bye", Err: tournaments.ErrNotBye}
		}

		resolved, err := tournaments.ResolveBye(match)
		if err != nil {
			return resultError(err)
		}
		if err := persistResult(ctx, qtx, resolved); err != nil {
			return err
		}

		resp.Match = resolved
		resp.Advanced, err = advanceWinner(ctx, qtx, tournament, resolved)
		return err
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("match_id", matchID).Msg("Bye confirmed")
	writeJSON(w, r, http.StatusOK, resp)
}

// PUT /api/v1/matches/{id}/schedule
func HandleScheduleMatch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	db := loadDB()
	if db == nil {
		writeNotInitialized(w, r)
		return
	}

	matchID, err := apiutil.PathID(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req matchScheduleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil && strings.TrimSpace(*req.ScheduledAt) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.ScheduledAt))
		if err != nil {
			apiutil.WriteError(w, r, apiutil.FieldError{Field: "scheduledAt", Reason: "must be an RFC3339 timestamp"})
			return
		}
		scheduledAt = &parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	affected, err := db.Queries.UpdateMatchSchedule(ctx, dbgen.UpdateMatchScheduleParams{
		ScheduledAt: apiutil.ToNullTime(scheduledAt),
		ID:          matchID,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if affected == 0 {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Match not found"})
		return
	}

	row, err := db.Queries.GetMatch(ctx, matchID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("match_id", matchID).Bool("cleared", scheduledAt == nil).Msg("Match schedule updated")
	writeJSON(w, r, http.StatusOK, apiutil.MatchFromRow(row))
}

func loadMatch(ctx context.Context, qtx *dbgen.Queries, matchID int64) (tournaments.Match, dbgen.Tournament, error) {
	row, err := qtx.GetMatch(ctx, matchID)
	if err != nil {
		return tournaments.Match{}, dbgen.Tournament{}, notFoundOr(err, "Match not found")
	}
	tournament, err := loadTournament(ctx, qtx, row.TournamentID)
	if err != nil {
		return tournaments.Match{}, dbgen.Tournament{}, err
	}
	return apiutil.MatchFromRow(row), tournament, nil
}

// advanceWinner moves the winner of a completed bracket match into the next
// round and returns the slot it filled, if any.
func advanceWinner(ctx context.Context, qtx *dbgen.Queries, tournament dbgen.Tournament, m tournaments.Match) (*tournaments.SlotUpdate, error) {
	if !hasBracket(tournament) || m.Stage != tournaments.StageKnockout {
		return nil, nil
	}
	rows, err := qtx.ListMatchesByTournamentStage(ctx, dbgen.ListMatchesByTournamentStageParams{
		TournamentID: tournament.ID,
		Stage:        string(tournaments.StageKnockout),
	})
	if err != nil {
		return nil, fmt.Errorf("load bracket: %w", err)
	}

	update, ok := tournaments.Advance(m, apiutil.MatchesFromRows(rows))
	if !ok {
		return nil, nil
	}
	if err := persistSlotUpdate(ctx, qtx, update); err != nil {
		return nil, err
	}
	return &update, nil
}

func persistResult(ctx context.Context, qtx *dbgen.Queries, m tournaments.Match) error {
	affected, err := qtx.UpdateMatchResult(ctx, dbgen.UpdateMatchResultParams{
		Score:    apiutil.ToNullString(m.Score),
		WinnerID: apiutil.SlotToNull(m.Winner),
		Status:   string(m.Status),
		ID:       m.ID,
	})
	if err != nil {
		return fmt.Errorf("update match result: %w", err)
	}
	if affected == 0 {
		return apiutil.HandlerError{Status: http.StatusConflict, Message: "Match already has a result", Err: tournaments.ErrMatchCompleted}
	}
	return nil
}

// persistSlotUpdate writes an advancement. The write only lands on an empty
// slot or one already holding the same participant, so a conflicting earlier
// advancement surfaces as a 409 instead of being overwritten.
func persistSlotUpdate(ctx context.Context, qtx *dbgen.Queries, u tournaments.SlotUpdate) error {
	participant := sql.NullInt64{Int64: int64(u.ParticipantID), Valid: true}

	var affected int64
	var err error
	switch u.Side {
	case tournaments.SideParticipant1:
		affected, err = qtx.SetMatchParticipant1(ctx, dbgen.SetMatchParticipant1Params{ParticipantID: participant, ID: u.MatchID})
	case tournaments.SideParticipant2:
		affected, err = qtx.SetMatchParticipant2(ctx, dbgen.SetMatchParticipant2Params{ParticipantID: participant, ID: u.MatchID})
	default:
		return fmt.Errorf("unknown slot side %q", u.Side)
	}
	if err != nil {
		return fmt.Errorf("advance participant: %w", err)
	}
	if affected == 0 {
		return apiutil.HandlerError{Status: http.StatusConflict, Message: "Next match slot is already taken"}
	}
	return nil
}

func resultError(err error) error {
	switch {
	case errors.Is(err, tournaments.ErrMatchNotReady),
		errors.Is(err, tournaments.ErrMatchCompleted),
		errors.Is(err, tournaments.ErrNotBye):
		return apiutil.HandlerError{Status: http.StatusConflict, Message: err.Error(), Err: err}
	case errors.Is(err, tournaments.ErrWinnerNotInMatch):
		return apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: apiutil.FieldError{Field: "winnerId", Reason: "is not in this match"}}
	case errors.Is(err, tournaments.ErrScoreRequired):
		return apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: apiutil.FieldError{Field: "score", Reason: "is required"}}
	}
	return err
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apiutil.HandlerError{Status: http.StatusNotFound, Message: message, Err: err}
	}
	return err
}
