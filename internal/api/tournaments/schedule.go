package tournaments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/clubhouse/internal/api/apiutil"
	appdb "github.com/codr1/clubhouse/internal/db"
	dbgen "github.com/codr1/clubhouse/internal/db/generated"
	"github.com/codr1/clubhouse/internal/tournaments"
)

type scheduleRequest struct {
	Regenerate bool                  `json:"regenerate"`
	Pairings   []tournaments.Pairing `json:"pairings"`
}

type knockoutRequest struct {
	ParticipantIDs []int64               `json:"participantIds"`
	Pairings       []tournaments.Pairing `json:"pairings"`
}

type scheduleResponse struct {
	Matches     []tournaments.Match      `json:"matches"`
	ByesSettled int                      `json:"byesSettled"`
	Advanced    []tournaments.SlotUpdate `json:"advanced,omitempty"`
	// Unplaced lists registered participants a manual draw left out.
	Unplaced []tournaments.ParticipantID `json:"unplaced,omitempty"`
}

// POST /api/v1/tournaments/{id}/schedule
func HandleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

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

	// The body is optional; chunked requests report ContentLength -1 even when empty.
	var req scheduleRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := apiutil.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	var resp scheduleResponse
	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		tournament, err := loadTournament(ctx, qtx, tournamentID)
		if err != nil {
			return err
		}
		format := tournaments.Format(tournament.Format)

		existing, err := qtx.CountMatchesByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("count matches: %w", err)
		}
		if existing > 0 && !req.Regenerate {
			return apiutil.HandlerError{Status: http.StatusConflict, Message: "Schedule already exists for this tournament"}
		}

		rows, err := qtx.ListParticipantsByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		participants := apiutil.ParticipantsFromRows(rows)
		if len(participants) < 2 {
			return apiutil.HandlerError{Status: http.StatusBadRequest, Message: "At least two participants are required"}
		}

		generated, unplaced, err := generateForFormat(tournament, participants, req.Pairings)
		if err != nil {
			return err
		}

		if existing > 0 {
			if _, err := qtx.DeleteMatchesByTournament(ctx, tournamentID); err != nil {
				return fmt.Errorf("delete existing schedule: %w", err)
			}
		}

		resp, err = insertMatches(ctx, qtx, tournament, generated)
		if err != nil {
			return err
		}
		resp.Unplaced = unplaced
		logger.Info().
			Int64("tournament_id", tournamentID).
			Str("format", string(format)).
			Int("matches", len(resp.Matches)).
			Int("byes_settled", resp.ByesSettled).
			Bool("regenerated", existing > 0).
			Msg("Tournament schedule generated")
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, resp)
}

// POST /api/v1/tournaments/{id}/knockout
func HandleGenerateKnockout(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

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

	var req knockoutRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	if len(req.ParticipantIDs) > 0 && len(req.Pairings) > 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "pairings", Reason: "cannot be combined with participantIds"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentQueryTimeout)
	defer cancel()

	var resp scheduleResponse
	err = db.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		tournament, err := loadTournament(ctx, qtx, tournamentID)
		if err != nil {
			return err
		}
		if tournaments.Format(tournament.Format) != tournaments.FormatGroupKnockout {
			return apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Knockout draws are only drawn separately for group_knockout tournaments"}
		}

		rows, err := qtx.ListParticipantsByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		participants := apiutil.ParticipantsFromRows(rows)

		var bracket []tournaments.Match
		var unplaced []tournaments.ParticipantID
		if len(req.Pairings) > 0 {
			bracket, unplaced, err = bracketFromPairings(tournamentID, req.Pairings, participants)
		} else {
			bracket, err = bracketFromOrder(tournamentID, req.ParticipantIDs, byID(participants))
		}
		if err != nil {
			return err
		}

		if _, err := qtx.DeleteMatchesByTournamentStage(ctx, dbgen.DeleteMatchesByTournamentStageParams{
			TournamentID: tournamentID,
			Stage:        string(tournaments.StageKnockout),
		}); err != nil {
			return fmt.Errorf("delete knockout stage: %w", err)
		}

		resp, err = insertMatches(ctx, qtx, tournament, bracket)
		if err != nil {
			return err
		}
		resp.Unplaced = unplaced
		logger.Info().
			Int64("tournament_id", tournamentID).
			Int("matches", len(resp.Matches)).
			Msg("Knockout stage drawn")
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, resp)
}

// GET /api/v1/tournaments/{id}/matches
func HandleListMatches(w http.ResponseWriter, r *http.Request) {
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

	if _, err := loadTournament(ctx, db.Queries, tournamentID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	rows, err := db.Queries.ListMatchesByTournament(ctx, tournamentID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"matches": apiutil.MatchesFromRows(rows)})
}

// generateForFormat builds the initial match set. The second result lists
// participants a manual draw did not place.
func generateForFormat(tournament dbgen.Tournament, participants []tournaments.Participant, pairings []tournaments.Pairing) ([]tournaments.Match, []tournaments.ParticipantID, error) {
	format := tournaments.Format(tournament.Format)
	if len(pairings) > 0 && format != tournaments.FormatSingleElimination {
		return nil, nil, apiutil.FieldError{Field: "pairings", Reason: "are only accepted for single_elimination tournaments"}
	}

	switch format {
	case tournaments.FormatRoundRobin:
		return tournaments.GenerateRoundRobin(tournament.ID, participants, 0), nil, nil
	case tournaments.FormatSingleElimination:
		if len(pairings) > 0 {
			return bracketFromPairings(tournament.ID, pairings, participants)
		}
		return tournaments.GenerateSingleElimination(tournament.ID, tournaments.SortBySeed(participants)), nil, nil
	case tournaments.FormatGroupKnockout:
		matches := tournaments.GenerateGroupStage(tournament.ID, participants, int(tournament.GroupCount))
		if len(matches) == 0 {
			return nil, nil, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Every group has fewer than two participants"}
		}
		return matches, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported tournament format %q", tournament.Format)
	}
}

func byID(participants []tournaments.Participant) map[tournaments.ParticipantID]tournaments.Participant {
	known := make(map[tournaments.ParticipantID]tournaments.Participant, len(participants))
	for _, p := range participants {
		known[p.ID] = p
	}
	return known
}

// bracketFromPairings loads an operator-built first round into a draw, checks
// it against the roster and reports who was left out.
func bracketFromPairings(tournamentID int64, pairings []tournaments.Pairing, participants []tournaments.Participant) ([]tournaments.Match, []tournaments.ParticipantID, error) {
	known := byID(participants)
	for _, pairing := range pairings {
		for _, slot := range []tournaments.Slot{pairing.Participant1, pairing.Participant2} {
			if id, ok := slot.ID(); ok {
				if _, found := known[id]; !found {
					return nil, nil, apiutil.FieldError{Field: "pairings", Reason: fmt.Sprintf("reference unknown participant %d", id)}
				}
			}
		}
	}

	draw, err := tournaments.NewDrawFromPairings(pairings)
	if err != nil {
		return nil, nil, pairingError(err)
	}
	bracket, err := tournaments.GenerateFromPairings(tournamentID, draw.Pairings())
	if err != nil {
		return nil, nil, pairingError(err)
	}

	var unplaced []tournaments.ParticipantID
	for _, p := range draw.Unplaced(participants) {
		unplaced = append(unplaced, p.ID)
	}
	return bracket, unplaced, nil
}

func pairingError(err error) error {
	if errors.Is(err, tournaments.ErrInvalidPairings) {
		return apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	}
	return err
}

// bracketFromOrder draws a seeded bracket from ids listed strongest first.
func bracketFromOrder(tournamentID int64, ids []int64, known map[tournaments.ParticipantID]tournaments.Participant) ([]tournaments.Match, error) {
	if len(ids) < 2 {
		return nil, apiutil.FieldError{Field: "participantIds", Reason: "must list at least two participants"}
	}
	seeded := make([]tournaments.Participant, 0, len(ids))
	seen := make(map[tournaments.ParticipantID]struct{}, len(ids))
	for i, raw := range ids {
		id := tournaments.ParticipantID(raw)
		p, ok := known[id]
		if !ok {
			return nil, apiutil.FieldError{Field: "participantIds", Reason: fmt.Sprintf("reference unknown participant %d", raw)}
		}
		if _, dup := seen[id]; dup {
			return nil, apiutil.FieldError{Field: "participantIds", Reason: fmt.Sprintf("list participant %d twice", raw)}
		}
		seen[id] = struct{}{}
		p.Seed = i + 1
		seeded = append(seeded, p)
	}
	return tournaments.GenerateSingleElimination(tournamentID, seeded), nil
}

// insertMatches persists generated matches and, under the auto bye policy,
// settles first-round byes in the same transaction.
func insertMatches(ctx context.Context, qtx *dbgen.Queries, tournament dbgen.Tournament, generated []tournaments.Match) (scheduleResponse, error) {
	stored := make([]tournaments.Match, 0, len(generated))
	for _, m := range generated {
		row, err := qtx.CreateMatch(ctx, apiutil.CreateMatchParams(m))
		if err != nil {
			return scheduleResponse{}, fmt.Errorf("create match: %w", err)
		}
		stored = append(stored, apiutil.MatchFromRow(row))
	}

	resp := scheduleResponse{Matches: stored}
	if tournaments.ByePolicy(tournament.ByePolicy) != tournaments.ByePolicyAuto || !hasBracket(tournament) {
		return resp, nil
	}

	resolution := tournaments.AutoAdvanceByes(stored)
	for _, m := range resolution.Resolved {
		if err := persistResult(ctx, qtx, m); err != nil {
			return scheduleResponse{}, err
		}
	}
	for _, u := range resolution.Updates {
		if err := persistSlotUpdate(ctx, qtx, u); err != nil {
			return scheduleResponse{}, err
		}
	}
	resp.Matches = stored
	resp.ByesSettled = len(resolution.Resolved)
	resp.Advanced = resolution.Updates
	return resp, nil
}

// hasBracket reports whether the tournament's knockout-stage matches form an
// elimination bracket. Ungrouped round robin also uses the knockout stage.
func hasBracket(tournament dbgen.Tournament) bool {
	switch tournaments.Format(tournament.Format) {
	case tournaments.FormatSingleElimination, tournaments.FormatGroupKnockout:
		return true
	}
	return false
}
